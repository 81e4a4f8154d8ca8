package csvGenerator

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"log/slog"

	"github.com/KotFed0t/isin_resolver/internal/model"
	"github.com/KotFed0t/isin_resolver/utils"
)

const (
	DefaultFileName = "tickers_finales_con_cotizaciones.csv"

	csvExtension = ".csv"
)

// utf8BOM lets spreadsheet applications detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var header = []string{"ISIN", "Name", "FinalTicker", "LastPrice", "Currency", "ExchangeName"}

type CSVGenerator struct{}

func New() *CSVGenerator {
	return &CSVGenerator{}
}

// GenerateFinal serializes the terminal price table as comma-separated UTF-8 with a byte-order mark.
// A symbol without a quote gets an empty LastPrice.
func (g *CSVGenerator) GenerateFinal(ctx context.Context, quotes []model.FinalQuote) (fileBytes []byte, fileExtension string, err error) {
	runID := utils.GetRunIDFromCtx(ctx)
	op := "CSVGenerator.GenerateFinal"

	if len(quotes) == 0 {
		return nil, "", errors.New("empty final quotes")
	}

	slog.Debug("GenerateFinal start", slog.String("runID", runID), slog.String("op", op), slog.Int("quotes", len(quotes)))

	buf := bytes.NewBuffer(append([]byte{}, utf8BOM...))
	w := csv.NewWriter(buf)

	if err := w.Write(header); err != nil {
		return nil, "", err
	}

	for _, q := range quotes {
		price := ""
		if q.Found {
			price = q.Price.StringFixed(2)
		}

		record := []string{q.ISIN, q.Name, q.Symbol, price, q.Currency, q.ExchangeName}
		if err := w.Write(record); err != nil {
			slog.Error("got error while writing csv record", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		slog.Error("got error while flushing csv", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("GenerateFinal completed", slog.String("runID", runID), slog.String("op", op))

	return buf.Bytes(), csvExtension, nil
}
