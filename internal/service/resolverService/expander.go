package resolverService

import (
	"context"

	"github.com/KotFed0t/isin_resolver/internal/model"
)

// ExpandCandidates probes every synthesized symbol and emits one row per symbol with a live price.
// Symbols without a quote are dropped; fetch failures come back as warnings.
// A cancelled ctx stops probing; the rows built so far are returned.
func ExpandCandidates(ctx context.Context, prober *Prober, candidates []model.SymbolCandidate) ([]model.QuotedRow, []model.Warning) {
	rows := make([]model.QuotedRow, 0)
	warnings := make([]model.Warning, 0)

loop:
	for _, c := range candidates {
		for _, symbol := range c.SymbolList() {
			if ctx.Err() != nil {
				break loop
			}

			quote, warning := prober.Probe(ctx, symbol)
			if warning != nil {
				warning.ISIN = c.ISIN
				warnings = append(warnings, *warning)
			}
			if !quote.Found {
				continue
			}

			rows = append(rows, model.QuotedRow{
				ISIN:         c.ISIN,
				Name:         c.Name,
				Ticker:       c.Ticker,
				ExchangeCode: c.ExchangeCode,
				MappingID:    c.MappingID,
				Symbol:       symbol,
				Price:        quote.Price,
				Currency:     quote.Currency,
				ExchangeName: quote.ExchangeName,
			})
		}
	}

	AssignCardinality(rows)

	return rows, warnings
}

// AssignCardinality sets single or multiple on each row from the number of rows sharing its ISIN.
func AssignCardinality(rows []model.QuotedRow) {
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.ISIN]++
	}

	for i := range rows {
		if counts[rows[i].ISIN] == 1 {
			rows[i].Cardinality = model.CardinalitySingle
		} else {
			rows[i].Cardinality = model.CardinalityMultiple
		}
	}
}
