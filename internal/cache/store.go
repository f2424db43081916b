// Package cache is a small key/value store with TTLs. Enrichment uses it to
// remember source attributions across runs.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"marketevents/internal/config"
)

type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// New returns a redis store when an address is configured, else memory.
func New(cfg config.CacheConfig, logger *zap.Logger) Store {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		if logger != nil {
			logger.Info("cache backend: memory")
		}
		return NewMemoryStore()
	}
	if logger != nil {
		logger.Info("cache backend: redis", zap.String("addr", addr), zap.Int("db", cfg.RedisDB))
	}
	return NewRedisStore(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, "mev:")
}
