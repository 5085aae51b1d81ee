// Package bootstrap wires the process-wide storage dependencies.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"typoteka/internal/cache"
	"typoteka/internal/config"
	"typoteka/internal/database"
	"typoteka/internal/middleware"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const redisDialTimeout = 5 * time.Second

// Options control runtime initialization behavior.
type Options struct {
	// SkipRedis leaves the Redis client nil, for commands that only touch the database.
	SkipRedis bool
}

// InitRuntime connects to the database and, unless skipped, Redis. An
// unreachable Redis is not fatal: the returned client is nil and callers run
// without cache, rate limits and cross-instance events.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.SkipRedis || cfg.RedisURL == "" {
		return db, nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	rdb, err := cache.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		middleware.Logger.Warn("redis unavailable, continuing without it",
			slog.String("addr", cfg.RedisURL),
			slog.String("error", err.Error()))
		return db, nil, nil
	}
	return db, rdb, nil
}
