package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"typoteka/internal/middleware"
	"typoteka/internal/observability"

	"github.com/golang/snappy"
	"github.com/redis/go-redis/v9"
)

// Cache stores snappy-compressed JSON values in Redis. A nil Cache or a Cache
// without a client is valid and always misses.
type Cache struct {
	rdb *redis.Client
}

// New wraps rdb, which may be nil.
func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func (c *Cache) enabled() bool {
	return c != nil && c.rdb != nil
}

// Aside returns the cached value for key, or calls load and caches its result.
// Redis failures degrade to calling load; they are never returned.
func Aside[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if !c.enabled() {
		return load(ctx)
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var out T
		if decodeErr := decode(raw, &out); decodeErr == nil {
			observability.CacheLookups.WithLabelValues(family(key), "hit").Inc()
			return out, nil
		}
		middleware.Logger.WarnContext(ctx, "discarding undecodable cache entry", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	observability.CacheLookups.WithLabelValues(family(key), "miss").Inc()

	val, err := load(ctx)
	if err != nil {
		return val, err
	}

	if data, encErr := encode(val); encErr == nil {
		if setErr := c.rdb.Set(ctx, key, data, ttl).Err(); setErr != nil {
			middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", setErr.Error()))
		}
	}
	return val, nil
}

// Invalidate removes keys. Failures are logged only.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed", slog.Any("keys", keys), slog.String("error", err.Error()))
	}
}

func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, data), nil
}

func decode(raw []byte, v any) error {
	data, err := snappy.Decode(nil, raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// family trims the ID suffix so metric labels stay bounded.
func family(key string) string {
	prefix, _, _ := strings.Cut(key, ":")
	return prefix
}

// InvalidatePrefix removes every key starting with prefix.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if !c.enabled() {
		return
	}
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache scan failed", slog.String("prefix", prefix), slog.String("error", err.Error()))
		return
	}
	c.Invalidate(ctx, keys...)
}
