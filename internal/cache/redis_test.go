package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizsolver/internal/match"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(mr.Addr(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestRedisCacheRoundTrip(t *testing.T) {
	_, c := newTestCache(t)
	ctx := context.Background()

	stored := &Result{
		Answer:     "paris",
		Text:       "Paris",
		Confidence: 0.75,
		Action:     match.Action{Kind: match.KindSelectOption, Option: 1},
	}
	require.NoError(t, c.SetResult(ctx, "k1", stored, time.Minute))

	got, err := c.GetResult(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, stored, got)
}

func TestRedisCacheMiss(t *testing.T) {
	_, c := newTestCache(t)

	got, err := c.GetResult(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCacheExpiry(t *testing.T) {
	mr, c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetResult(ctx, "k1", &Result{Answer: "42"}, time.Second))
	mr.FastForward(2 * time.Second)

	got, err := c.GetResult(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, got, "expired entry should read as a miss")
}

func TestNoOpCache(t *testing.T) {
	c := NewNoOpCache()
	ctx := context.Background()

	require.NoError(t, c.SetResult(ctx, "k1", &Result{Answer: "42"}, time.Minute))
	got, err := c.GetResult(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, got, "noop cache always misses")
	assert.NoError(t, c.Close())
}
