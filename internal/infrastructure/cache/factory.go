package cache

import (
	"context"
	"fmt"

	"github.com/loro/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory builds the shared cache from configuration
type Factory struct {
	cacheConfig           config.CacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to memory.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Result is what Create returns: the cache plus the Redis client when one is in use,
// so other components (token blacklist) can share the connection.
type Result struct {
	Cache  Cache
	Redis  *redis.Client
	closer func() error
}

// Close releases the cache resources
func (r *Result) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}

// Create returns a Redis cache when configured and reachable, otherwise memory
func (f *Factory) Create(ctx context.Context) (*Result, error) {
	if f.cacheConfig.Provider != "redis" || !f.redisConfig.Enabled {
		f.logger.Info("using in-memory cache",
			zap.Duration("ttl", f.cacheConfig.TTL),
			zap.Int("max_size", f.cacheConfig.MaxSize),
		)
		mem := NewMemoryCache(f.cacheConfig.TTL, f.cacheConfig.MaxSize)
		return &Result{Cache: mem, closer: mem.Close}, nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis cache", zap.String("addr", f.redisConfig.Addr()))
		return &Result{Cache: NewRedisCache(client, f.cacheConfig.TTL), Redis: client, closer: client.Close}, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis cache required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cache. "+
		"Instances will not share cached routes.",
		zap.Error(err),
	)
	mem := NewMemoryCache(f.cacheConfig.TTL, f.cacheConfig.MaxSize)
	return &Result{Cache: mem, closer: mem.Close}, nil
}
