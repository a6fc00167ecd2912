package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/brjatoba92/loja-materiais-utilidades/internal/clock"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterFixedWindow(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	limiter, err := NewMemoryLimiter(Policy{Max: 2, Window: 15 * time.Minute}, 100, fake.Now)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}

	res, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 15*time.Minute, res.RetryAfter)

	other, err := limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	fake.Advance(15 * time.Minute)
	res, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)
}

func TestMemoryLimiterRejectsInvalidInput(t *testing.T) {
	_, err := NewMemoryLimiter(Policy{Max: 0, Window: time.Minute}, 10, nil)
	assert.Error(t, err)

	limiter, err := NewMemoryLimiter(Policy{Max: 1, Window: time.Minute}, 10, nil)
	require.NoError(t, err)
	_, err = limiter.Allow(context.Background(), "")
	assert.Error(t, err)
}

func TestBucketTTL(t *testing.T) {
	assert.Equal(t, 30*time.Minute, bucketTTL(Policy{Max: 100, Window: 15 * time.Minute}))
	assert.Equal(t, time.Second, bucketTTL(Policy{Max: 5, Window: 100 * time.Millisecond}))
}

func TestNewRedisLimiterValidates(t *testing.T) {
	_, err := NewRedisLimiter(nil, Policy{Max: 1, Window: time.Minute})
	assert.Error(t, err)

	l, err := NewRedisLimiter(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), Policy{Max: 0, Window: time.Minute})
	assert.Error(t, err)
	assert.Nil(t, l)

	l, err = NewRedisLimiter(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), Policy{Max: 60, Window: time.Minute})
	require.NoError(t, err)
	assert.InDelta(t, 0.001, l.perMs, 1e-9)
	_, err = l.Allow(context.Background(), "")
	assert.Error(t, err)
}
