package cache_test

import (
	"context"
	"errors"
	"fmt"
	"jumuia/infras/otel/mocks"
	"jumuia/shared/cache"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stats struct {
	Total     int     `json:"total"`
	Occupancy float64 `json:"occupancy"`
}

func newCache(t *testing.T) (cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCache(client, mocks.NewOtel()), server
}

func TestRedisCache_SaveAndGet(t *testing.T) {
	redisCache, server := newCache(t)
	ctx := context.Background()

	require.NoError(t, redisCache.Save(ctx, "calendar:stats:all", stats{Total: 4, Occupancy: 50}, 60))

	var got stats
	require.NoError(t, redisCache.Get(ctx, "calendar:stats:all", &got))
	assert.Equal(t, stats{Total: 4, Occupancy: 50}, got)

	server.FastForward(61 * time.Second)

	err := redisCache.Get(ctx, "calendar:stats:all", &got)
	assert.True(t, errors.Is(err, cache.Nil))
}

func TestRedisCache_StringValues(t *testing.T) {
	redisCache, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, redisCache.Save(ctx, "daraja:token", "abc123", 3599))

	var token string
	require.NoError(t, redisCache.Get(ctx, "daraja:token", &token))
	assert.Equal(t, "abc123", token)
}

func TestRedisCache_DeleteAndClear(t *testing.T) {
	redisCache, server := newCache(t)
	ctx := context.Background()

	_ = server.Set("booking:get:1", "{}")
	_ = server.Set("booking:gets:a", "{}")
	_ = server.Set("booking:gets:b", "{}")

	require.NoError(t, redisCache.Delete(ctx, "booking:get:1"))
	assert.False(t, server.Exists("booking:get:1"))

	require.NoError(t, redisCache.Clear(ctx, "booking:gets*"))
	assert.False(t, server.Exists("booking:gets:a"))
	assert.False(t, server.Exists("booking:gets:b"))
}

func TestRedisCache_Increment(t *testing.T) {
	redisCache, server := newCache(t)
	ctx := context.Background()

	first, err := redisCache.Increment(ctx, "limiter:1.2.3.4", 60)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := redisCache.Increment(ctx, "limiter:1.2.3.4", 60)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second)

	assert.Equal(t, 60*time.Second, server.TTL("limiter:1.2.3.4"))

	server.FastForward(61 * time.Second)

	reset, err := redisCache.Increment(ctx, "limiter:1.2.3.4", 60)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reset)
}

func TestRedisCache_ClearSpansScanPages(t *testing.T) {
	redisCache, server := newCache(t)
	ctx := context.Background()

	for i := range 250 {
		_ = server.Set(fmt.Sprintf("calendar:month:%03d", i), "{}")
	}
	_ = server.Set("offer:get:1", "{}")

	require.NoError(t, redisCache.Clear(ctx, "calendar:*"))

	assert.Equal(t, []string{"offer:get:1"}, server.Keys())
}

func TestRedisCache_Errors(t *testing.T) {
	redisCache, server := newCache(t)
	ctx := context.Background()

	_ = server.Set("user:get:1", "not json")

	var got stats
	err := redisCache.Get(ctx, "user:get:1", &got)
	require.Error(t, err)
	assert.False(t, errors.Is(err, cache.Nil))

	assert.Error(t, redisCache.Save(ctx, "user:get:2", func() {}, 60))
	assert.False(t, server.Exists("user:get:2"))

	server.Close()

	_, err = redisCache.Increment(ctx, "limiter:9.9.9.9", 60)
	assert.Error(t, err)
}
