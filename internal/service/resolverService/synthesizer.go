package resolverService

import (
	"strings"

	"github.com/KotFed0t/isin_resolver/internal/model"
)

// Listings of issuers outside these countries are also tried on Amsterdam and Xetra,
// where broker holdings often clear without being the primary mapping.
var (
	domesticCountries = codeSet("US", "ES")
	fallbackSuffixes  = []string{".AS", ".DE"}
)

// SynthesizeSymbols builds the ordered market-data symbols of every candidate.
// A candidate without a ticker gets an empty symbol list.
func SynthesizeSymbols(candidates []model.MappingCandidate, table ExchangeTable) []model.SymbolCandidate {
	res := make([]model.SymbolCandidate, 0, len(candidates))

	for _, c := range candidates {
		ticker := strings.TrimSpace(c.Ticker)
		if ticker == "" {
			res = append(res, model.SymbolCandidate{MappingCandidate: c})
			continue
		}

		suffixes := table.Suffixes(exchangeCode(c))
		if len(suffixes) == 0 {
			suffixes = []string{""}
		}
		if _, ok := domesticCountries[c.Country()]; !ok {
			suffixes = appendUnique(suffixes, fallbackSuffixes...)
		}

		symbols := make([]string, 0, len(suffixes))
		for _, suffix := range suffixes {
			suffix = strings.TrimSpace(suffix)
			if suffix == "" || strings.EqualFold(suffix, "nan") {
				symbols = append(symbols, ticker)
			} else {
				symbols = append(symbols, ticker+suffix)
			}
		}

		res = append(res, model.SymbolCandidate{
			MappingCandidate: c,
			Symbols:          strings.Join(symbols, model.SymbolDelimiter),
		})
	}

	return res
}

func appendUnique(base []string, extra ...string) []string {
	res := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]struct{}, len(base)+len(extra))
	for _, s := range append(append([]string{}, base...), extra...) {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		res = append(res, s)
	}
	return res
}
