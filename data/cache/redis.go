package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/isin_resolver/config"
	"github.com/KotFed0t/isin_resolver/internal/model"
	"github.com/KotFed0t/isin_resolver/utils"
	"github.com/redis/go-redis/v9"
)

// RedisCache scopes every key by the run ID found in ctx, so separate runs never share entries.
// Failures are logged and reported as misses.
type RedisCache struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisCache(redisClient *redis.Client, cfg *config.Config) *RedisCache {
	return &RedisCache{redis: redisClient, cfg: cfg}
}

func mappingKey(runID, isin string) string {
	return fmt.Sprintf("%s:figi:%s", runID, isin)
}

func quoteKey(runID, symbol string) string {
	return fmt.Sprintf("%s:quote:%s", runID, symbol)
}

func (r *RedisCache) GetMappings(ctx context.Context, isin string) ([]model.MappingCandidate, bool) {
	runID := utils.GetRunIDFromCtx(ctx)

	candidates := []model.MappingCandidate{}
	if !r.get(ctx, mappingKey(runID, isin), &candidates) {
		return nil, false
	}

	return candidates, true
}

func (r *RedisCache) SetMappings(ctx context.Context, isin string, candidates []model.MappingCandidate) {
	if candidates == nil {
		candidates = []model.MappingCandidate{}
	}
	r.set(ctx, mappingKey(utils.GetRunIDFromCtx(ctx), isin), candidates)
}

func (r *RedisCache) GetQuote(ctx context.Context, symbol string) (model.Quote, bool) {
	quote := model.Quote{}
	if !r.get(ctx, quoteKey(utils.GetRunIDFromCtx(ctx), symbol), &quote) {
		return model.Quote{}, false
	}

	return quote, true
}

func (r *RedisCache) SetQuote(ctx context.Context, symbol string, quote model.Quote) {
	r.set(ctx, quoteKey(utils.GetRunIDFromCtx(ctx), symbol), quote)
}

func (r *RedisCache) get(ctx context.Context, key string, dst any) bool {
	runID := utils.GetRunIDFromCtx(ctx)

	res, err := r.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("failed on redis.Get", slog.String("runID", runID), slog.String("err", err.Error()), slog.String("key", key))
		}
		return false
	}

	err = json.Unmarshal([]byte(res), dst)
	if err != nil {
		slog.Error(
			"can't unmarshall cached value",
			slog.String("runID", runID),
			slog.String("err", err.Error()),
			slog.String("resultFromRedis", res),
		)
		return false
	}

	return true
}

func (r *RedisCache) set(ctx context.Context, key string, value any) {
	runID := utils.GetRunIDFromCtx(ctx)

	valueJson, err := json.Marshal(value)
	if err != nil {
		slog.Error("can't marshall value for cache", slog.String("runID", runID), slog.String("err", err.Error()), slog.String("key", key))
		return
	}

	err = r.redis.Set(ctx, key, string(valueJson), r.cfg.Cache.Expiration).Err()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("runID", runID), slog.String("err", err.Error()), slog.String("key", key))
	}
}
