package rateLimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func newTestLimiter(limit int, interval time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := New(limit, interval)
	rl.now = clock.Now
	rl.sleep = clock.Sleep
	rl.lastReset = clock.now
	return rl, clock
}

func TestRateLimiter_UnderLimit(t *testing.T) {
	rl, clock := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		require.NoError(t, rl.Wait(context.Background()))
	}
	assert.Empty(t, clock.slept)
}

func TestRateLimiter_SleepsUntilWindowEnds(t *testing.T) {
	rl, clock := newTestLimiter(2, time.Minute)

	require.NoError(t, rl.Wait(context.Background()))
	clock.now = clock.now.Add(20 * time.Second)
	require.NoError(t, rl.Wait(context.Background()))
	require.NoError(t, rl.Wait(context.Background()))

	require.Len(t, clock.slept, 1)
	assert.Equal(t, 40*time.Second, clock.slept[0])
	assert.Equal(t, 1, rl.count)
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl, clock := newTestLimiter(1, time.Minute)

	require.NoError(t, rl.Wait(context.Background()))
	clock.now = clock.now.Add(time.Minute)
	require.NoError(t, rl.Wait(context.Background()))

	assert.Empty(t, clock.slept)
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl, clock := newTestLimiter(0, time.Minute)

	for i := 0; i < 10; i++ {
		require.NoError(t, rl.Wait(context.Background()))
	}
	assert.Empty(t, clock.slept)
}

func TestRateLimiter_ContextCancelled(t *testing.T) {
	rl := New(1, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, rl.Wait(ctx))
	assert.ErrorIs(t, rl.Wait(ctx), context.Canceled)
}
