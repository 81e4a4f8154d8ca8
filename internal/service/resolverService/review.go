package resolverService

import (
	"sort"

	"github.com/KotFed0t/isin_resolver/internal/model"
)

// BuildReview splits quoted rows by cardinality and orders them for the operator.
func BuildReview(rows []model.QuotedRow) model.Review {
	review := model.Review{
		Single:   make([]model.QuotedRow, 0),
		Multiple: make([]model.QuotedRow, 0),
	}

	seenSingle := make(map[string]struct{})
	for _, r := range rows {
		switch r.Cardinality {
		case model.CardinalitySingle:
			if _, ok := seenSingle[r.ISIN]; ok {
				continue
			}
			seenSingle[r.ISIN] = struct{}{}
			review.Single = append(review.Single, r)
		case model.CardinalityMultiple:
			review.Multiple = append(review.Multiple, r)
		}
	}

	sort.SliceStable(review.Single, func(i, j int) bool {
		return review.Single[i].ISIN < review.Single[j].ISIN
	})
	sort.SliceStable(review.Multiple, func(i, j int) bool {
		a, b := review.Multiple[i], review.Multiple[j]
		if a.ISIN != b.ISIN {
			return a.ISIN < b.ISIN
		}
		return a.Symbol < b.Symbol
	})

	return review
}

// DefaultSelections is the review returned untouched: nothing chosen, no manual tickers.
func DefaultSelections(review model.Review) []model.Selection {
	selections := make([]model.Selection, 0, len(review.Single)+len(review.Multiple))

	for _, r := range review.Single {
		selections = append(selections, model.Selection{
			ISIN:        r.ISIN,
			Name:        r.Name,
			Symbol:      r.Symbol,
			Cardinality: model.CardinalitySingle,
		})
	}
	for _, r := range review.Multiple {
		selections = append(selections, model.Selection{
			ISIN:        r.ISIN,
			Name:        r.Name,
			Symbol:      r.Symbol,
			Cardinality: model.CardinalityMultiple,
		})
	}

	return selections
}
