package main

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/isin_resolver/config"
	"github.com/KotFed0t/isin_resolver/data"
	"github.com/KotFed0t/isin_resolver/data/cache"
	"github.com/KotFed0t/isin_resolver/internal/exchangeTable"
	"github.com/KotFed0t/isin_resolver/internal/externalApi/openFigiApi"
	"github.com/KotFed0t/isin_resolver/internal/externalApi/yahooApi"
	"github.com/KotFed0t/isin_resolver/internal/service/resolverService"
)

// newResolver wires the pipeline. The returned cleanup releases the Redis connection when one was opened.
func newResolver(ctx context.Context, cfg *config.Config) (*resolverService.ResolverService, func(), error) {
	table, err := exchangeTable.LoadFile(cfg.Exchanges.File)
	if err != nil {
		return nil, nil, err
	}

	quoteSource, err := yahooApi.NewQuoteSource(cfg)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var runCache resolverService.Cache = cache.NewMemoryCache()

	if cfg.Redis.Host != "" {
		redisClient, err := data.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		runCache = cache.NewRedisCache(redisClient, cfg)
		cleanup = func() {
			if err := redisClient.Close(); err != nil {
				slog.Error("failed to close redis client", slog.String("err", err.Error()))
			}
		}
	}

	svc := resolverService.New(openFigiApi.New(cfg), quoteSource, table, runCache)

	return svc, cleanup, nil
}
