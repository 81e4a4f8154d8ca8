package model

import "strings"

// SymbolDelimiter joins synthesized market-data symbols of one candidate.
const SymbolDelimiter = "|"

type MappingCandidate struct {
	ISIN         string
	Ticker       string
	Name         string
	ExchangeCode string
	MappingID    string
}

// Country is the ISO country prefix of the candidate's ISIN.
func (c MappingCandidate) Country() string {
	return IsinCountry(c.ISIN)
}

type SymbolCandidate struct {
	MappingCandidate
	// Symbols is the SymbolDelimiter-joined list, empty when the candidate has no ticker.
	Symbols string
}

func (c SymbolCandidate) SymbolList() []string {
	if c.Symbols == "" {
		return nil
	}

	parts := strings.Split(c.Symbols, SymbolDelimiter)
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}

func IsinCountry(isin string) string {
	isin = strings.ToUpper(strings.TrimSpace(isin))
	if len(isin) < 2 {
		return ""
	}
	return isin[:2]
}
