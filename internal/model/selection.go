package model

import "github.com/shopspring/decimal"

// Selection is one reviewed row handed back by the operator.
// Blank marks the synthetic row offered per multiple-cardinality ISIN for free-text entry.
type Selection struct {
	ISIN         string
	Name         string
	Symbol       string
	Cardinality  Cardinality
	Blank        bool
	Chosen       bool
	ManualTicker string
}

type FinalTicker struct {
	ISIN   string
	Name   string
	Symbol string
}

type FinalQuote struct {
	FinalTicker
	Found        bool
	Price        decimal.Decimal
	Currency     string
	ExchangeName string
}
