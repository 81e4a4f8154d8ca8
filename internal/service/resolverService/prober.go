package resolverService

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/KotFed0t/isin_resolver/internal/externalApi"
	"github.com/KotFed0t/isin_resolver/internal/model"
	"github.com/KotFed0t/isin_resolver/utils"
	"github.com/shopspring/decimal"
)

const pricePrecision = 2

// priceRules are tried in order; the first usable price wins.
var priceRules = []struct {
	field string
	pick  func(model.RawQuote) *float64
}{
	{field: "lastPrice", pick: func(q model.RawQuote) *float64 { return q.LastPrice }},
	{field: "regularMarketPrice", pick: func(q model.RawQuote) *float64 { return q.RegularMarketPrice }},
	{field: "previousClose", pick: func(q model.RawQuote) *float64 { return q.PreviousClose }},
}

func usablePrice(p *float64) bool {
	return p != nil && !math.IsNaN(*p) && !math.IsInf(*p, 0) && *p > 0
}

// Prober probes market-data symbols, memoizing every outcome (found or not) in the run cache.
type Prober struct {
	source QuoteSource
	cache  QuoteCache
}

func NewProber(source QuoteSource, cache QuoteCache) *Prober {
	return &Prober{source: source, cache: cache}
}

// Probe never fails: a fetch error yields a NoQuote result and a warning,
// a clean "no data" answer or an interrupted fetch yields a NoQuote result alone.
func (p *Prober) Probe(ctx context.Context, symbol string) (model.Quote, *model.Warning) {
	runID := utils.GetRunIDFromCtx(ctx)
	op := "Prober.Probe"

	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return model.Quote{}, nil
	}

	if quote, ok := p.cache.GetQuote(ctx, symbol); ok {
		slog.Debug("quote taken from cache", slog.String("runID", runID), slog.String("op", op), slog.String("symbol", symbol))
		return quote, nil
	}

	var warning *model.Warning

	raw, err := p.source.GetRawQuote(ctx, symbol)
	quote := model.Quote{Symbol: symbol}
	switch {
	case err == nil:
		quote = SelectQuote(symbol, raw)
	case errors.Is(err, externalApi.ErrNotFound):
		slog.Debug("no quote for symbol", slog.String("runID", runID), slog.String("op", op), slog.String("symbol", symbol))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		slog.Debug("quote fetch interrupted", slog.String("runID", runID), slog.String("op", op), slog.String("symbol", symbol))
		return quote, nil
	default:
		slog.Warn("quote fetch failed", slog.String("runID", runID), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", err.Error()))
		warning = &model.Warning{
			Code:    model.WarnQuoteFetch,
			Symbol:  symbol,
			Message: err.Error(),
		}
	}

	if ctx.Err() == nil {
		p.cache.SetQuote(ctx, symbol, quote)
	}

	return quote, warning
}

// SelectQuote applies the price fallback chain to a raw quote and rounds the winner to cents.
func SelectQuote(symbol string, raw model.RawQuote) model.Quote {
	quote := model.Quote{Symbol: symbol}

	for _, rule := range priceRules {
		price := rule.pick(raw)
		if !usablePrice(price) {
			continue
		}

		quote.Found = true
		quote.Price = decimal.NewFromFloat(*price).Round(pricePrecision)
		break
	}
	if !quote.Found {
		return quote
	}

	if raw.Currency != nil {
		quote.Currency = strings.TrimSpace(*raw.Currency)
	}
	if raw.ExchangeName != nil {
		quote.ExchangeName = strings.TrimSpace(*raw.ExchangeName)
	}

	return quote
}
