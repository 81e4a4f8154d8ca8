package yahooConverter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KotFed0t/isin_resolver/internal/model/yahooModel"
)

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }

func TestConvertChartResult_AllFields(t *testing.T) {
	res := yahooModel.ChartResult{
		Meta: yahooModel.ChartMeta{
			Currency:           s("USD"),
			ExchangeName:       s("NMS"),
			FullExchangeName:   s("NasdaqGS"),
			RegularMarketPrice: f(190.5),
			PreviousClose:      f(189),
			ChartPreviousClose: f(180),
		},
		Indicators: yahooModel.Indicators{
			Quote: []yahooModel.IndicatorQuote{{Close: []*float64{f(190.1), f(190.3), nil}}},
		},
	}

	raw := ConvertChartResult("AAPL", res)

	assert.Equal(t, "AAPL", raw.Symbol)
	require.NotNil(t, raw.LastPrice)
	assert.Equal(t, 190.3, *raw.LastPrice)
	assert.Equal(t, 190.5, *raw.RegularMarketPrice)
	assert.Equal(t, 189.0, *raw.PreviousClose)
	assert.Equal(t, "USD", *raw.Currency)
	assert.Equal(t, "NasdaqGS", *raw.ExchangeName)
}

func TestConvertChartResult_Fallbacks(t *testing.T) {
	res := yahooModel.ChartResult{
		Meta: yahooModel.ChartMeta{
			Currency:           s(""),
			ExchangeName:       s("MCE"),
			ChartPreviousClose: f(4.2),
		},
	}

	raw := ConvertChartResult("SAN.MC", res)

	assert.Nil(t, raw.LastPrice)
	assert.Nil(t, raw.RegularMarketPrice)
	require.NotNil(t, raw.PreviousClose)
	assert.Equal(t, 4.2, *raw.PreviousClose)
	assert.Nil(t, raw.Currency)
	assert.Equal(t, "MCE", *raw.ExchangeName)
}
