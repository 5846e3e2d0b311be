package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"jumuia/infras/metrics"
	"jumuia/infras/otel"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Nil is returned (wrapped) by Get on a miss.
const Nil = redis.Nil

const (
	scopeName   = "cache"
	keyAttr     = "cache.key"
	metricsName = "redis"
	scanBatch   = 100
)

type RedisCache interface {
	// Save stores value for ttlSeconds. Strings are stored raw, everything else as JSON.
	Save(ctx context.Context, key string, value any, ttlSeconds int) error
	// Get loads key into value, which must be a pointer.
	Get(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	// Clear removes every key matching the glob pattern.
	Clear(ctx context.Context, pattern string) error
	// Increment bumps a counter and starts its expiry window on first use.
	Increment(ctx context.Context, key string, windowSeconds int) (int64, error)
}

type redisCache struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisCache(client *redis.Client, ot otel.Otel) RedisCache {
	return &redisCache{client: client, otel: ot}
}

func (c *redisCache) scope(ctx context.Context, op, key string) (context.Context, otel.Scope) {
	ctx, scope := c.otel.NewScope(ctx, scopeName, scopeName+"."+op)
	scope.SetAttribute(keyAttr, key)

	return ctx, scope
}

func encode(value any) ([]byte, error) {
	if s, ok := value.(string); ok {
		return []byte(s), nil
	}

	return json.Marshal(value) //nolint:wrapcheck
}

func decode(raw string, value any) error {
	if s, ok := value.(*string); ok {
		*s = raw

		return nil
	}

	return json.Unmarshal([]byte(raw), value) //nolint:wrapcheck
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func (c *redisCache) Save(ctx context.Context, key string, value any, ttlSeconds int) (err error) {
	ctx, scope := c.scope(ctx, "Save", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	raw, err := encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value %s: %w", key, err)
	}

	if err = c.client.Set(ctx, key, raw, seconds(ttlSeconds)).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("cache set failed")

		return fmt.Errorf("failed to set cache value %s: %w", key, err)
	}

	metrics.ObserveCache(metricsName, metrics.CacheEventSet)

	return nil
}

func (c *redisCache) Get(ctx context.Context, key string, value any) error {
	ctx, scope := c.scope(ctx, "Get", key)
	defer scope.End()

	raw, err := c.client.Get(ctx, key).Result()

	switch {
	case errors.Is(err, Nil):
		metrics.ObserveCache(metricsName, metrics.CacheEventMiss)

		return fmt.Errorf("cache miss %s: %w", key, err)
	case err != nil:
		scope.TraceError(err)

		return fmt.Errorf("failed to get cache value %s: %w", key, err)
	}

	metrics.ObserveCache(metricsName, metrics.CacheEventHit)

	if err := decode(raw, value); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Msg("cache entry is not decodable")

		return fmt.Errorf("failed to decode cache value %s: %w", key, err)
	}

	return nil
}

func (c *redisCache) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := c.scope(ctx, "Delete", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache value %s: %w", key, err)
	}

	metrics.ObserveCache(metricsName, metrics.CacheEventDelete)

	return nil
}

func (c *redisCache) Clear(ctx context.Context, pattern string) (err error) {
	ctx, scope := c.scope(ctx, "Clear", pattern)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var (
		cursor  uint64
		matched []string
	)

	// Deleting between pages shifts the keyspace under the cursor, so the scan completes first.
	for {
		var keys []string

		keys, cursor, err = c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys %s: %w", pattern, err)
		}

		matched = append(matched, keys...)

		if cursor == 0 {
			break
		}
	}

	for start := 0; start < len(matched); start += scanBatch {
		batch := matched[start:min(start+scanBatch, len(matched))]

		if err = c.client.Del(ctx, batch...).Err(); err != nil {
			log.Error().Err(err).Str("pattern", pattern).Int("keys", len(batch)).Msg("cache clear failed")

			return fmt.Errorf("failed to delete cache keys %s: %w", pattern, err)
		}

		for range batch {
			metrics.ObserveCache(metricsName, metrics.CacheEventDelete)
		}
	}

	return nil
}

func (c *redisCache) Increment(ctx context.Context, key string, windowSeconds int) (count int64, err error) {
	ctx, scope := c.scope(ctx, "Increment", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if count, err = c.client.Incr(ctx, key).Result(); err != nil {
		return 0, fmt.Errorf("failed to increment counter %s: %w", key, err)
	}

	if count > 1 {
		return count, nil
	}

	if err = c.client.Expire(ctx, key, seconds(windowSeconds)).Err(); err != nil {
		return count, fmt.Errorf("failed to start counter window %s: %w", key, err)
	}

	return count, nil
}
