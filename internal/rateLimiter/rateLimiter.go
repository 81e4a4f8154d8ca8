package rateLimiter

import (
	"context"
	"log/slog"
	"time"
)

// RateLimiter allows at most limit calls per interval, resetting on a fixed window.
type RateLimiter struct {
	limit     int
	interval  time.Duration
	count     int
	lastReset time.Time
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

func New(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

// Wait blocks until one more call fits into the current window. A non-positive limit disables limiting.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.limit <= 0 {
		return nil
	}

	now := rl.now()
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count <= rl.limit {
		return nil
	}

	if d := rl.interval - now.Sub(rl.lastReset); d > 0 {
		slog.Info("rate limit hit, sleeping", slog.Int("limit", rl.limit), slog.Duration("sleep", d))
		if err := rl.sleep(ctx, d); err != nil {
			return err
		}
	}

	rl.count = 1
	rl.lastReset = rl.now()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
