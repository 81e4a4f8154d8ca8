package model

import "github.com/shopspring/decimal"

type Cardinality string

const (
	CardinalitySingle   Cardinality = "single"
	CardinalityMultiple Cardinality = "multiple"
)

// Quote is the result of probing one market-data symbol. Found is false for NoQuote.
type Quote struct {
	Symbol       string          `json:"symbol"`
	Found        bool            `json:"found"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency,omitempty"`
	ExchangeName string          `json:"exchangeName,omitempty"`
}

type QuotedRow struct {
	ISIN         string
	Name         string
	Ticker       string
	ExchangeCode string
	MappingID    string
	Symbol       string
	Price        decimal.Decimal
	Currency     string
	ExchangeName string
	Cardinality  Cardinality
}

// RawQuote is what a market-data source reports for one symbol before price selection.
// Nil fields were absent from the payload.
type RawQuote struct {
	Symbol             string
	LastPrice          *float64
	RegularMarketPrice *float64
	PreviousClose      *float64
	Currency           *string
	ExchangeName       *string
}

// Review is what the operator is shown between the two phases.
type Review struct {
	// Single holds one row per ISIN, sorted by ISIN.
	Single []QuotedRow
	// Multiple is sorted by ISIN then Symbol.
	Multiple []QuotedRow
}
