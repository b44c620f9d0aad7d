// Package cache stores serialized calculation results keyed by operation and
// input. Results are deterministic, so a hit is always safe to return.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/iwvelando/ratewise/internal/config"
	"github.com/iwvelando/ratewise/pkg/constants"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a byte store with a fixed expiry per entry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Key derives a cache key from the operation name and a hash of the JSON
// encoding of input.
func Key(prefix, op string, input interface{}) (string, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key input: %w", err)
	}
	return fmt.Sprintf("%s%s:%016x", prefix, op, xxhash.Sum64(data)), nil
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte) error         { return nil }
func (Nop) Close() error                                      { return nil }

// New builds the backend selected by cfg. Unknown backends and a redis
// backend without an address disable caching.
func New(cfg config.CacheConfig, logger *zap.Logger) Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := time.Duration(cfg.TTL) * time.Second

	switch strings.ToLower(cfg.Backend) {
	case "", constants.CacheBackendNone:
		return Nop{}
	case constants.CacheBackendMemory:
		logger.Info("using in-memory result cache",
			zap.String("op", "cache.New"),
			zap.Duration("ttl", ttl),
			zap.Int("max_entries", cfg.MaxEntries),
		)
		return NewMemory(cfg.MaxEntries, ttl)
	case constants.CacheBackendRedis:
		if cfg.Redis.Address == "" {
			logger.Warn("redis cache selected without an address; caching disabled",
				zap.String("op", "cache.New"),
			)
			return Nop{}
		}
		logger.Info("using redis result cache",
			zap.String("op", "cache.New"),
			zap.String("address", cfg.Redis.Address),
			zap.Int("db", cfg.Redis.DB),
			zap.Duration("ttl", ttl),
		)
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewRedis(client, ttl)
	default:
		logger.Warn(fmt.Sprintf("unknown cache backend %q; caching disabled", cfg.Backend),
			zap.String("op", "cache.New"),
		)
		return Nop{}
	}
}
