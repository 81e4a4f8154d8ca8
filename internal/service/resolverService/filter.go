package resolverService

import (
	"strings"

	"github.com/KotFed0t/isin_resolver/internal/model"
)

// countryRule narrows broker-supported candidates of one issuer country to its home markets.
type countryRule struct {
	country string
	allowed map[string]struct{}
}

var countryRules = []countryRule{
	{country: "US", allowed: codeSet("US", "NYS", "NSQ", "NAS", "NMS", "ARCA", "BATS")},
	{country: "ES", allowed: codeSet("SM", "BM")},
}

func codeSet(codes ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

func exchangeCode(c model.MappingCandidate) string {
	return strings.ToUpper(strings.TrimSpace(c.ExchangeCode))
}

// FilterCandidates keeps candidates listed on an exchange the broker supports, then prefers
// the issuer's home markets. When no home-market candidate exists the broker-supported set is kept.
func FilterCandidates(isin string, candidates []model.MappingCandidate, table ExchangeTable) []model.MappingCandidate {
	supported := make([]model.MappingCandidate, 0, len(candidates))
	for _, c := range candidates {
		code := exchangeCode(c)
		if code != "" && table.Has(code) {
			supported = append(supported, c)
		}
	}
	if len(supported) == 0 {
		return supported
	}

	country := model.IsinCountry(isin)
	for _, rule := range countryRules {
		if rule.country != country {
			continue
		}

		preferred := make([]model.MappingCandidate, 0, len(supported))
		for _, c := range supported {
			if _, ok := rule.allowed[exchangeCode(c)]; ok {
				preferred = append(preferred, c)
			}
		}
		if len(preferred) > 0 {
			return preferred
		}
		return supported
	}

	return supported
}
