package cache

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-catalog-cache/internal/cacheinfra"
)

// Backend names a value store implementation.
type Backend = cacheinfra.Backend

const (
	BackendLRU     = cacheinfra.BackendLRU
	BackendSturdyc = cacheinfra.BackendSturdyc
	BackendRedis   = cacheinfra.BackendRedis
)

// Config exposes value store configuration for consumers of the cache package.
type Config struct {
	Backend            Backend
	Capacity           int
	TTL                time.Duration
	NumShards          int
	EvictionPercentage int
	EvictionInterval   time.Duration
	Redis              *RedisConfig
}

// RedisConfig mirrors the redis backend settings.
type RedisConfig struct {
	Addr      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
	Client    redis.UniversalClient
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewStore constructs the value store selected by cfg.Backend.
func NewStore[V any](cfg Config) (Store[V], error) {
	return cacheinfra.NewStore[V](cfg.toInternal())
}

func (c Config) toInternal() cacheinfra.Config {
	var rc *cacheinfra.RedisConfig
	if c.Redis != nil {
		rc = &cacheinfra.RedisConfig{
			Addr:      c.Redis.Addr,
			Username:  c.Redis.Username,
			Password:  c.Redis.Password,
			DB:        c.Redis.DB,
			KeyPrefix: c.Redis.KeyPrefix,
			Client:    c.Redis.Client,
		}
	}

	return cacheinfra.Config{
		Backend:            c.Backend,
		Capacity:           c.Capacity,
		TTL:                c.TTL,
		NumShards:          c.NumShards,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
		Redis:              rc,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	var rc *RedisConfig
	if cfg.Redis != nil {
		rc = &RedisConfig{
			Addr:      cfg.Redis.Addr,
			Username:  cfg.Redis.Username,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
			Client:    cfg.Redis.Client,
		}
	}

	return Config{
		Backend:            cfg.Backend,
		Capacity:           cfg.Capacity,
		TTL:                cfg.TTL,
		NumShards:          cfg.NumShards,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
		Redis:              rc,
	}
}
