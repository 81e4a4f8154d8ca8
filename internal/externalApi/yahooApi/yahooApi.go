package yahooApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/isin_resolver/config"
	"github.com/KotFed0t/isin_resolver/internal/converter/yahooConverter"
	"github.com/KotFed0t/isin_resolver/internal/externalApi"
	"github.com/KotFed0t/isin_resolver/internal/model"
	"github.com/KotFed0t/isin_resolver/internal/model/yahooModel"
	"github.com/KotFed0t/isin_resolver/utils"
	"github.com/go-resty/resty/v2"
)

const (
	SourceChart    = "chart"
	SourceYFinance = "yfinance"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

type QuoteSource interface {
	GetRawQuote(ctx context.Context, symbol string) (model.RawQuote, error)
}

// NewQuoteSource picks the market-data source named by QUOTE_SOURCE.
func NewQuoteSource(cfg *config.Config) (QuoteSource, error) {
	switch cfg.API.Yahoo.Source {
	case SourceChart, "":
		return New(cfg), nil
	case SourceYFinance:
		return NewYFinance(), nil
	default:
		return nil, fmt.Errorf("unknown quote source %q", cfg.API.Yahoo.Source)
	}
}

// YahooApi reads quotes from the public chart endpoint.
type YahooApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *YahooApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.Yahoo.Url).
		SetHeader("User-Agent", userAgent)
	return &YahooApi{client: client}
}

func (a *YahooApi) GetRawQuote(ctx context.Context, symbol string) (model.RawQuote, error) {
	runID := utils.GetRunIDFromCtx(ctx)
	op := "YahooApi.GetRawQuote"

	slog.Debug("start YahooApi.GetRawQuote request", slog.String("runID", runID), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"interval": "1m",
			"range":    "1d",
		}).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		slog.Error("error while dialing YahooApi", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
		return model.RawQuote{}, err
	}

	if resp.StatusCode() == http.StatusNotFound {
		return model.RawQuote{}, externalApi.ErrNotFound
	}

	if resp.StatusCode() != http.StatusOK {
		return model.RawQuote{}, fmt.Errorf("%w: status %d", externalApi.ErrBadStatus, resp.StatusCode())
	}

	chart := yahooModel.ChartResponse{}
	err = json.Unmarshal(resp.Body(), &chart)
	if err != nil {
		slog.Error("can't unmarshall response into yahooModel.ChartResponse", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
		return model.RawQuote{}, err
	}

	if chart.Chart.Error != nil {
		return model.RawQuote{}, fmt.Errorf("%w: %s: %s", externalApi.ErrNotFound, chart.Chart.Error.Code, chart.Chart.Error.Description)
	}

	if len(chart.Chart.Result) == 0 {
		return model.RawQuote{}, externalApi.ErrNotFound
	}

	slog.Debug("YahooApi.GetRawQuote request complete", slog.String("runID", runID), slog.String("symbol", symbol))

	return yahooConverter.ConvertChartResult(symbol, chart.Chart.Result[0]), nil
}
