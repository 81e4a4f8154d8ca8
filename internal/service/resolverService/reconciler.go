package resolverService

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/KotFed0t/isin_resolver/internal/model"
	"github.com/KotFed0t/isin_resolver/internal/service"
)

// selectionGroup is every reviewed row of one ISIN, in review order.
type selectionGroup struct {
	isin   string
	rows   []model.Selection
	chosen []model.Selection
}

func (g selectionGroup) cardinality() model.Cardinality {
	for _, r := range g.rows {
		if r.Cardinality == model.CardinalityMultiple || r.Blank {
			return model.CardinalityMultiple
		}
	}
	return model.CardinalitySingle
}

func (g selectionGroup) name() string {
	for _, r := range g.rows {
		if name := strings.TrimSpace(r.Name); name != "" {
			return name
		}
	}
	return ""
}

// reconcileRule returns a final symbol or "" when it does not apply.
type reconcileRule struct {
	name string
	pick func(g selectionGroup) string
}

var singleRules = []reconcileRule{
	{name: "manual ticker", pick: firstManual},
	{name: "quoted symbol", pick: firstSymbol},
}

var multipleRules = []reconcileRule{
	{name: "manual ticker on chosen row", pick: func(g selectionGroup) string {
		if len(g.chosen) != 1 {
			return ""
		}
		return strings.TrimSpace(g.chosen[0].ManualTicker)
	}},
	{name: "chosen symbol", pick: func(g selectionGroup) string {
		if len(g.chosen) != 1 {
			return ""
		}
		return strings.TrimSpace(g.chosen[0].Symbol)
	}},
	{name: "first quoted symbol", pick: firstSymbol},
	{name: "manual ticker", pick: firstManual},
}

func firstManual(g selectionGroup) string {
	for _, r := range g.rows {
		if manual := strings.TrimSpace(r.ManualTicker); manual != "" {
			return manual
		}
	}
	return ""
}

func firstSymbol(g selectionGroup) string {
	symbols := make([]string, 0, len(g.rows))
	for _, r := range g.rows {
		if r.Blank {
			continue
		}
		if symbol := strings.TrimSpace(r.Symbol); symbol != "" {
			symbols = append(symbols, symbol)
		}
	}
	if len(symbols) == 0 {
		return ""
	}
	sort.Strings(symbols)
	return symbols[0]
}

func groupSelections(selections []model.Selection) []selectionGroup {
	index := make(map[string]int)
	groups := make([]selectionGroup, 0)

	for _, s := range selections {
		isin := strings.TrimSpace(s.ISIN)
		if isin == "" {
			continue
		}

		i, ok := index[isin]
		if !ok {
			i = len(groups)
			index[isin] = i
			groups = append(groups, selectionGroup{isin: isin})
		}

		groups[i].rows = append(groups[i].rows, s)
		if s.Chosen {
			groups[i].chosen = append(groups[i].chosen, s)
		}
	}

	return groups
}

// Reconcile decides one final ticker per ISIN from the reviewed rows.
// An ISIN with more than one chosen row is rejected with a selection_conflict warning;
// an ISIN no rule can decide is left out.
func Reconcile(selections []model.Selection) ([]model.FinalTicker, []model.Warning) {
	finals := make([]model.FinalTicker, 0)
	warnings := make([]model.Warning, 0)

	for _, g := range groupSelections(selections) {
		rules := singleRules
		if g.cardinality() == model.CardinalityMultiple {
			rules = multipleRules

			if len(g.chosen) > 1 {
				symbols := make([]string, 0, len(g.chosen))
				for _, c := range g.chosen {
					symbols = append(symbols, strings.TrimSpace(c.Symbol))
				}
				warnings = append(warnings, model.Warning{
					Code:    model.WarnSelectionConflict,
					ISIN:    g.isin,
					Message: fmt.Errorf("%w: %s", service.ErrSelectionConflict, strings.Join(symbols, ", ")).Error(),
				})
				continue
			}
		}

		symbol, decidedBy := "", ""
		for _, rule := range rules {
			if symbol = rule.pick(g); symbol != "" {
				decidedBy = rule.name
				break
			}
		}
		if symbol == "" {
			slog.Debug("no final ticker for isin", slog.String("isin", g.isin))
			continue
		}

		slog.Debug("final ticker decided", slog.String("isin", g.isin), slog.String("symbol", symbol), slog.String("rule", decidedBy))

		finals = append(finals, model.FinalTicker{
			ISIN:   g.isin,
			Name:   g.name(),
			Symbol: symbol,
		})
	}

	return finals, warnings
}
