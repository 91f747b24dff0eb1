package cache

import (
	"time"

	"github.com/loro/backend/internal/infrastructure/config"
)

func cfgCache(provider string) config.CacheConfig {
	return config.CacheConfig{Provider: provider, TTL: time.Hour, MaxSize: 100}
}

func cfgRedis(enabled bool) config.RedisConfig {
	return config.RedisConfig{Enabled: enabled, Host: "localhost", Port: 6379}
}
