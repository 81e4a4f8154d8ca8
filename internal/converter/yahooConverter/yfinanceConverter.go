package yahooConverter

import (
	"strings"

	"github.com/KotFed0t/isin_resolver/internal/model"
	"github.com/KotFed0t/isin_resolver/internal/model/yahooModel"
)

func ConvertYFinanceSnapshot(symbol string, snap yahooModel.YFinanceSnapshot) model.RawQuote {
	raw := model.RawQuote{
		Symbol:             symbol,
		LastPrice:          positive(snap.FastLastPrice),
		RegularMarketPrice: positive(snap.RegularMarketPrice),
		PreviousClose:      positive(snap.PreviousClose),
		Currency:           firstNonBlank(snap.FastCurrency, snap.QuoteCurrency, snap.InfoCurrency),
		ExchangeName:       firstNonBlank(snap.QuoteExchangeName, snap.InfoExchange, snap.FastExchange),
	}

	if raw.RegularMarketPrice == nil {
		raw.RegularMarketPrice = positive(snap.CurrentPrice)
	}

	return raw
}

func positive(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}

func firstNonBlank(values ...string) *string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return &v
		}
	}
	return nil
}
