package yahooModel

type ChartResponse struct {
	Chart Chart `json:"chart"`
}

type Chart struct {
	Result []ChartResult `json:"result"`
	Error  *ChartError   `json:"error"`
}

type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type ChartResult struct {
	Meta       ChartMeta  `json:"meta"`
	Indicators Indicators `json:"indicators"`
}

type Indicators struct {
	Quote []IndicatorQuote `json:"quote"`
}

// IndicatorQuote closes are nullable: Yahoo emits null for intervals without trades.
type IndicatorQuote struct {
	Close []*float64 `json:"close"`
}

// ChartMeta holds the quote fields of the chart endpoint. Every field may be absent.
type ChartMeta struct {
	Symbol             string   `json:"symbol"`
	Currency           *string  `json:"currency"`
	ExchangeName       *string  `json:"exchangeName"`
	FullExchangeName   *string  `json:"fullExchangeName"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
	PreviousClose      *float64 `json:"previousClose"`
	ChartPreviousClose *float64 `json:"chartPreviousClose"`
}

// YFinanceSnapshot collects what the go-yfinance ticker reports for one symbol.
// Zero values mean the field was missing or the call failed.
type YFinanceSnapshot struct {
	FastLastPrice      float64
	FastCurrency       string
	FastExchange       string
	RegularMarketPrice float64
	QuoteCurrency      string
	QuoteExchangeName  string
	CurrentPrice       float64
	PreviousClose      float64
	InfoCurrency       string
	InfoExchange       string
}
