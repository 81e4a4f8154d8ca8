package resolverService

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KotFed0t/isin_resolver/internal/exchangeTable"
	"github.com/KotFed0t/isin_resolver/internal/model"
)

func candidate(isin, ticker, exch string) model.MappingCandidate {
	return model.MappingCandidate{ISIN: isin, Ticker: ticker, ExchangeCode: exch}
}

func exchanges(t *testing.T) *exchangeTable.Table {
	t.Helper()
	return exchangeTable.New(map[string][]string{
		"NMS": {""},
		"US":  {""},
		"SM":  {".MC"},
		"GR":  {".DE"},
		"NA":  {".AS"},
		"LN":  {".L"},
		"FP":  {".PA"},
	})
}

func TestFilterCandidates(t *testing.T) {
	table := exchanges(t)

	tests := []struct {
		name       string
		isin       string
		candidates []model.MappingCandidate
		want       []string
	}{
		{
			name: "us issuer keeps home markets",
			isin: "US0378331005",
			candidates: []model.MappingCandidate{
				candidate("US0378331005", "AAPL", "NMS"),
				candidate("US0378331005", "AAPL", "SM"),
				candidate("US0378331005", "APC", "GR"),
				candidate("US0378331005", "AAPL", "UW"),
			},
			want: []string{"NMS"},
		},
		{
			name: "us issuer falls back to broker set",
			isin: "US0378331005",
			candidates: []model.MappingCandidate{
				candidate("US0378331005", "APC", "GR"),
				candidate("US0378331005", "AAPL", "XX"),
			},
			want: []string{"GR"},
		},
		{
			name: "es issuer keeps madrid",
			isin: "ES0113900J37",
			candidates: []model.MappingCandidate{
				candidate("ES0113900J37", "SAN", "sm"),
				candidate("ES0113900J37", "BSD2", "GR"),
				candidate("ES0113900J37", "SAN", "LN"),
			},
			want: []string{"sm"},
		},
		{
			name: "es issuer falls back",
			isin: "ES0113900J37",
			candidates: []model.MappingCandidate{
				candidate("ES0113900J37", "BSD2", "GR"),
				candidate("ES0113900J37", "SAN", "LN"),
			},
			want: []string{"GR", "LN"},
		},
		{
			name: "other country keeps broker set in order",
			isin: "NL0010273215",
			candidates: []model.MappingCandidate{
				candidate("NL0010273215", "ASML", "NA"),
				candidate("NL0010273215", "ASML", "NMS"),
				candidate("NL0010273215", "ASME", "ZZ"),
				candidate("NL0010273215", "ASME", "GR"),
			},
			want: []string{"NA", "NMS", "GR"},
		},
		{
			name: "no broker exchange",
			isin: "US0378331005",
			candidates: []model.MappingCandidate{
				candidate("US0378331005", "AAPL", "UW"),
				candidate("US0378331005", "AAPL", ""),
			},
			want: []string{},
		},
		{
			name:       "no candidates",
			isin:       "XS0000000000",
			candidates: nil,
			want:       []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterCandidates(tt.isin, tt.candidates, table)

			codes := make([]string, 0, len(got))
			for _, c := range got {
				codes = append(codes, c.ExchangeCode)
			}
			assert.Equal(t, tt.want, codes)
		})
	}
}
