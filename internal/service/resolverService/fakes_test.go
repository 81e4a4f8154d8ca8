package resolverService

import (
	"context"

	"github.com/KotFed0t/isin_resolver/internal/externalApi"
	"github.com/KotFed0t/isin_resolver/internal/model"
)

type fakeMappingApi struct {
	mappings map[string][]model.MappingCandidate
	errs     map[string]error
	calls    map[string]int
}

func newFakeMappingApi() *fakeMappingApi {
	return &fakeMappingApi{
		mappings: make(map[string][]model.MappingCandidate),
		errs:     make(map[string]error),
		calls:    make(map[string]int),
	}
}

func (f *fakeMappingApi) add(isin string, listings ...[2]string) {
	for _, l := range listings {
		f.mappings[isin] = append(f.mappings[isin], model.MappingCandidate{
			ISIN:         isin,
			Ticker:       l[0],
			Name:         "NAME " + isin,
			ExchangeCode: l[1],
			MappingID:    "BBG" + l[0] + l[1],
		})
	}
}

func (f *fakeMappingApi) MapISIN(_ context.Context, isin string) ([]model.MappingCandidate, error) {
	f.calls[isin]++
	if err := f.errs[isin]; err != nil {
		return nil, err
	}
	return append([]model.MappingCandidate{}, f.mappings[isin]...), nil
}

type fakeQuoteSource struct {
	quotes map[string]model.RawQuote
	errs   map[string]error
	calls  map[string]int
	// onCall runs before every lookup.
	onCall func(symbol string)
}

func newFakeQuoteSource() *fakeQuoteSource {
	return &fakeQuoteSource{
		quotes: make(map[string]model.RawQuote),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (f *fakeQuoteSource) price(symbol string, last float64, currency string) {
	f.quotes[symbol] = model.RawQuote{Symbol: symbol, LastPrice: &last, Currency: &currency}
}

func (f *fakeQuoteSource) GetRawQuote(_ context.Context, symbol string) (model.RawQuote, error) {
	f.calls[symbol]++
	if f.onCall != nil {
		f.onCall(symbol)
	}
	if err := f.errs[symbol]; err != nil {
		return model.RawQuote{}, err
	}
	raw, ok := f.quotes[symbol]
	if !ok {
		return model.RawQuote{}, externalApi.ErrNotFound
	}
	return raw, nil
}

func ptr[T any](v T) *T {
	return &v
}
