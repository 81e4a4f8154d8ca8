package cache

import (
	"context"
	"sync"

	"github.com/KotFed0t/isin_resolver/internal/model"
)

// MemoryCache keeps lookups for the lifetime of one process.
type MemoryCache struct {
	mu       sync.RWMutex
	mappings map[string][]model.MappingCandidate
	quotes   map[string]model.Quote
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		mappings: make(map[string][]model.MappingCandidate),
		quotes:   make(map[string]model.Quote),
	}
}

func (m *MemoryCache) GetMappings(_ context.Context, isin string) ([]model.MappingCandidate, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	candidates, ok := m.mappings[isin]
	if !ok {
		return nil, false
	}
	return append([]model.MappingCandidate{}, candidates...), true
}

func (m *MemoryCache) SetMappings(_ context.Context, isin string, candidates []model.MappingCandidate) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.mappings[isin] = append([]model.MappingCandidate{}, candidates...)
}

func (m *MemoryCache) GetQuote(_ context.Context, symbol string) (model.Quote, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	quote, ok := m.quotes[symbol]
	return quote, ok
}

func (m *MemoryCache) SetQuote(_ context.Context, symbol string, quote model.Quote) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.quotes[symbol] = quote
}
