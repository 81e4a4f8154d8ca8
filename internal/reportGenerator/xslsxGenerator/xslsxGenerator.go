package xslsxGenerator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/KotFed0t/isin_resolver/internal/model"
	"github.com/KotFed0t/isin_resolver/internal/service"
	"github.com/KotFed0t/isin_resolver/utils"
	"github.com/xuri/excelize/v2"
)

const (
	SheetSingle   = "single"
	SheetMultiple = "multiple"
	SheetFinal    = "final"

	xlsxExtension = ".xlsx"
)

const (
	colISIN         = "ISIN"
	colName         = "Name"
	colTicker       = "Ticker"
	colExchangeCode = "ExchangeCode"
	colMappingID    = "MappingID"
	colSymbol       = "Symbol"
	colPrice        = "Price"
	colCurrency     = "Currency"
	colExchangeName = "ExchangeName"
	colChosen       = "Chosen"
	colManualTicker = "ManualTicker"
	colFinalTicker  = "FinalTicker"
	colLastPrice    = "LastPrice"
)

var (
	singleHeader   = []string{colISIN, colName, colSymbol, colPrice, colCurrency, colExchangeName, colManualTicker}
	multipleHeader = []string{colISIN, colName, colTicker, colExchangeCode, colMappingID, colSymbol, colPrice, colCurrency, colExchangeName, colChosen, colManualTicker}
	finalHeader    = []string{colISIN, colName, colFinalTicker, colLastPrice, colCurrency, colExchangeName}
)

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

// GenerateReview writes the review workbook. The multiple sheet gets one extra row per ISIN
// with an empty Symbol where the operator may type a ticker nobody proposed.
func (g *XSLSXGenerator) GenerateReview(ctx context.Context, review model.Review) (fileBytes []byte, fileExtension string, err error) {
	runID := utils.GetRunIDFromCtx(ctx)
	op := "XSLSXGenerator.GenerateReview"

	slog.Debug("GenerateReview start", slog.String("runID", runID), slog.String("op", op))

	return g.generate(ctx, op, func(f *excelize.File) error {
		if err := g.fillSingleSheet(f, review.Single); err != nil {
			return err
		}
		return g.fillMultipleSheet(f, review.Multiple)
	})
}

// GenerateFinal writes the terminal price table. Symbols without a quote get an empty price.
func (g *XSLSXGenerator) GenerateFinal(ctx context.Context, quotes []model.FinalQuote) (fileBytes []byte, fileExtension string, err error) {
	runID := utils.GetRunIDFromCtx(ctx)
	op := "XSLSXGenerator.GenerateFinal"

	if len(quotes) == 0 {
		return nil, "", errors.New("empty final quotes")
	}

	slog.Debug("GenerateFinal start", slog.String("runID", runID), slog.String("op", op))

	return g.generate(ctx, op, func(f *excelize.File) error {
		if err := g.newSheetWithHeader(f, SheetFinal, finalHeader, "#d9ead3"); err != nil {
			return err
		}

		for i, q := range quotes {
			row := i + 2
			_ = f.SetCellStr(SheetFinal, cell("A", row), q.ISIN)
			_ = f.SetCellStr(SheetFinal, cell("B", row), q.Name)
			_ = f.SetCellStr(SheetFinal, cell("C", row), q.Symbol)
			if q.Found {
				_ = f.SetCellValue(SheetFinal, cell("D", row), q.Price.InexactFloat64())
			}
			_ = f.SetCellStr(SheetFinal, cell("E", row), q.Currency)
			_ = f.SetCellStr(SheetFinal, cell("F", row), q.ExchangeName)
		}

		return nil
	})
}

func (g *XSLSXGenerator) generate(ctx context.Context, op string, fill func(f *excelize.File) error) ([]byte, string, error) {
	runID := utils.GetRunIDFromCtx(ctx)

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if err := fill(f); err != nil {
		slog.Error("got error while filling workbook", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	// default sheet created by excelize.NewFile
	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("workbook generated", slog.String("runID", runID), slog.String("op", op), slog.Int("bytes", buf.Len()))

	return buf.Bytes(), xlsxExtension, nil
}

func (g *XSLSXGenerator) fillSingleSheet(f *excelize.File, rows []model.QuotedRow) error {
	if err := g.newSheetWithHeader(f, SheetSingle, singleHeader, "#cfe2f3"); err != nil {
		return err
	}

	for i, r := range rows {
		row := i + 2
		_ = f.SetCellStr(SheetSingle, cell("A", row), r.ISIN)
		_ = f.SetCellStr(SheetSingle, cell("B", row), r.Name)
		_ = f.SetCellStr(SheetSingle, cell("C", row), r.Symbol)
		_ = f.SetCellValue(SheetSingle, cell("D", row), r.Price.InexactFloat64())
		_ = f.SetCellStr(SheetSingle, cell("E", row), r.Currency)
		_ = f.SetCellStr(SheetSingle, cell("F", row), r.ExchangeName)
	}

	return nil
}

func (g *XSLSXGenerator) fillMultipleSheet(f *excelize.File, rows []model.QuotedRow) error {
	if err := g.newSheetWithHeader(f, SheetMultiple, multipleHeader, "#f9cb9c"); err != nil {
		return err
	}

	blankStyleID, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#f3f3f3"},
		},
	})
	if err != nil {
		return err
	}

	row := 2
	for i, r := range rows {
		_ = f.SetCellStr(SheetMultiple, cell("A", row), r.ISIN)
		_ = f.SetCellStr(SheetMultiple, cell("B", row), r.Name)
		_ = f.SetCellStr(SheetMultiple, cell("C", row), r.Ticker)
		_ = f.SetCellStr(SheetMultiple, cell("D", row), r.ExchangeCode)
		_ = f.SetCellStr(SheetMultiple, cell("E", row), r.MappingID)
		_ = f.SetCellStr(SheetMultiple, cell("F", row), r.Symbol)
		_ = f.SetCellValue(SheetMultiple, cell("G", row), r.Price.InexactFloat64())
		_ = f.SetCellStr(SheetMultiple, cell("H", row), r.Currency)
		_ = f.SetCellStr(SheetMultiple, cell("I", row), r.ExchangeName)
		_ = f.SetCellBool(SheetMultiple, cell("J", row), false)
		row++

		if i+1 < len(rows) && rows[i+1].ISIN == r.ISIN {
			continue
		}

		// free-text row closing the ISIN group
		_ = f.SetCellStr(SheetMultiple, cell("A", row), r.ISIN)
		_ = f.SetCellStr(SheetMultiple, cell("B", row), groupName(rows, r.ISIN))
		_ = f.SetCellBool(SheetMultiple, cell("J", row), false)
		if err := f.SetCellStyle(SheetMultiple, cell("A", row), cell("K", row), blankStyleID); err != nil {
			return fmt.Errorf("apply blank row style: %w", err)
		}
		row++
	}

	if row > 2 {
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("J2:J%d", row-1)
		if err := dv.SetDropList([]string{"TRUE", "FALSE"}); err != nil {
			return err
		}
		if err := f.AddDataValidation(SheetMultiple, dv); err != nil {
			return fmt.Errorf("add chosen validation: %w", err)
		}
	}

	return nil
}

func groupName(rows []model.QuotedRow, isin string) string {
	for _, r := range rows {
		if r.ISIN == isin && strings.TrimSpace(r.Name) != "" {
			return r.Name
		}
	}
	return ""
}

func (g *XSLSXGenerator) newSheetWithHeader(f *excelize.File, sheetName string, header []string, color string) error {
	_, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	styleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", styleID); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	return f.SetColWidth(sheetName, "A", lastCol, 16)
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// ReadSelections parses a reviewed workbook back into selections.
// Both sheets are optional but each present sheet must carry the ISIN and Symbol columns.
func (g *XSLSXGenerator) ReadSelections(ctx context.Context, r io.Reader) ([]model.Selection, error) {
	runID := utils.GetRunIDFromCtx(ctx)
	op := "XSLSXGenerator.ReadSelections"

	slog.Debug("ReadSelections start", slog.String("runID", runID), slog.String("op", op))

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open review workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	found := false
	selections := make([]model.Selection, 0)
	for _, sheet := range []struct {
		name        string
		cardinality model.Cardinality
	}{
		{name: SheetSingle, cardinality: model.CardinalitySingle},
		{name: SheetMultiple, cardinality: model.CardinalityMultiple},
	} {
		if idx, err := f.GetSheetIndex(sheet.name); err != nil || idx == -1 {
			continue
		}
		found = true

		rows, err := f.GetRows(sheet.name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet.name, err)
		}

		sheetSelections, err := parseSheet(sheet.name, sheet.cardinality, rows)
		if err != nil {
			return nil, err
		}
		selections = append(selections, sheetSelections...)
	}

	if !found {
		return nil, fmt.Errorf("%w: review workbook needs a %q or %q sheet, found %q", service.ErrInputSchema, SheetSingle, SheetMultiple, f.GetSheetList())
	}

	slog.Debug("ReadSelections finished", slog.String("runID", runID), slog.String("op", op), slog.Int("selections", len(selections)))

	return selections, nil
}

func parseSheet(sheetName string, cardinality model.Cardinality, rows [][]string) ([]model.Selection, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colISIN, colSymbol} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: sheet %s: column %q required, found %q", service.ErrInputSchema, sheetName, required, rows[0])
		}
	}

	value := func(row []string, column string) string {
		idx, ok := columns[column]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	selections := make([]model.Selection, 0, len(rows)-1)
	for _, row := range rows[1:] {
		isin := value(row, colISIN)
		if isin == "" {
			continue
		}

		s := model.Selection{
			ISIN:         isin,
			Name:         value(row, colName),
			Symbol:       value(row, colSymbol),
			Cardinality:  cardinality,
			ManualTicker: value(row, colManualTicker),
		}
		if cardinality == model.CardinalityMultiple {
			s.Blank = s.Symbol == ""
			s.Chosen = parseChosen(value(row, colChosen))
		}

		selections = append(selections, s)
	}

	return selections, nil
}

func parseChosen(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "x", "yes":
		return true
	default:
		return false
	}
}
