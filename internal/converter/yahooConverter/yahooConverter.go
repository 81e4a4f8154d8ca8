package yahooConverter

import (
	"github.com/KotFed0t/isin_resolver/internal/model"
	"github.com/KotFed0t/isin_resolver/internal/model/yahooModel"
)

func ConvertChartResult(symbol string, res yahooModel.ChartResult) model.RawQuote {
	raw := model.RawQuote{
		Symbol:             symbol,
		LastPrice:          lastClose(res.Indicators),
		RegularMarketPrice: res.Meta.RegularMarketPrice,
		PreviousClose:      res.Meta.PreviousClose,
		Currency:           nonEmpty(res.Meta.Currency),
		ExchangeName:       nonEmpty(res.Meta.FullExchangeName),
	}

	if raw.PreviousClose == nil {
		raw.PreviousClose = res.Meta.ChartPreviousClose
	}
	if raw.ExchangeName == nil {
		raw.ExchangeName = nonEmpty(res.Meta.ExchangeName)
	}

	return raw
}

// lastClose returns the most recent non-null close of the intraday series.
func lastClose(ind yahooModel.Indicators) *float64 {
	if len(ind.Quote) == 0 {
		return nil
	}
	closes := ind.Quote[0].Close
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] != nil {
			return closes[i]
		}
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
