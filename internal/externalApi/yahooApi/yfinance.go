package yahooApi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/isin_resolver/internal/converter/yahooConverter"
	"github.com/KotFed0t/isin_resolver/internal/externalApi"
	"github.com/KotFed0t/isin_resolver/internal/model"
	"github.com/KotFed0t/isin_resolver/internal/model/yahooModel"
	"github.com/KotFed0t/isin_resolver/utils"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

// YFinance reads quotes through the go-yfinance client.
// The client takes no context, so ctx is checked between its calls.
type YFinance struct{}

func NewYFinance() *YFinance {
	return &YFinance{}
}

func (y *YFinance) GetRawQuote(ctx context.Context, symbol string) (model.RawQuote, error) {
	runID := utils.GetRunIDFromCtx(ctx)
	op := "YFinance.GetRawQuote"

	if err := ctx.Err(); err != nil {
		return model.RawQuote{}, err
	}

	t, err := ticker.New(symbol)
	if err != nil {
		slog.Error("failed to create ticker", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
		return model.RawQuote{}, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	var snap yahooModel.YFinanceSnapshot

	fast, fastErr := t.FastInfo()
	if fastErr == nil {
		snap.FastLastPrice = fast.LastPrice
		snap.FastCurrency = fast.Currency
		snap.FastExchange = fast.Exchange
	}

	if err := ctx.Err(); err != nil {
		return model.RawQuote{}, err
	}

	quote, quoteErr := t.Quote()
	if quoteErr == nil && quote != nil {
		snap.RegularMarketPrice = quote.RegularMarketPrice
		snap.QuoteCurrency = quote.Currency
		snap.QuoteExchangeName = quote.ExchangeName
	}

	if err := ctx.Err(); err != nil {
		return model.RawQuote{}, err
	}

	info, infoErr := t.Info()
	if infoErr == nil && info != nil {
		snap.CurrentPrice = info.CurrentPrice
		snap.PreviousClose = info.RegularMarketPreviousClose
		snap.InfoCurrency = info.Currency
		snap.InfoExchange = info.Exchange
	}

	if fastErr != nil && quoteErr != nil && infoErr != nil {
		slog.Debug("all yfinance lookups failed", slog.String("runID", runID), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", quoteErr.Error()))
		return model.RawQuote{}, fmt.Errorf("failed to get quote: %w", quoteErr)
	}

	raw := yahooConverter.ConvertYFinanceSnapshot(symbol, snap)
	if raw.LastPrice == nil && raw.RegularMarketPrice == nil && raw.PreviousClose == nil {
		return model.RawQuote{}, externalApi.ErrNotFound
	}

	return raw, nil
}
