package cacheinfra

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend names a value store implementation.
type Backend string

const (
	// BackendLRU is an in-process expirable LRU. Eviction is by recency and
	// deterministic, which makes it the default.
	BackendLRU Backend = "lru"
	// BackendSturdyc is an in-process sharded cache that evicts a percentage of
	// a shard when it fills up.
	BackendSturdyc Backend = "sturdyc"
	// BackendRedis stores msgpack encoded values in redis with a TTL per entry.
	// Capacity is governed by the server's maxmemory policy.
	BackendRedis Backend = "redis"
)

// Config holds the settings of one value store.
type Config struct {
	// Backend selects the implementation. Empty means BackendLRU.
	Backend Backend

	// Capacity is the maximum number of entries held in process. Ignored by
	// the redis backend.
	Capacity int

	// TTL is the lifetime of an entry. Must be greater than 0.
	TTL time.Duration

	// NumShards and EvictionPercentage only apply to the sturdyc backend.
	NumShards          int
	EvictionPercentage int

	// EvictionInterval sets how often sturdyc sweeps expired entries. Zero
	// keeps the library default.
	EvictionInterval time.Duration

	// Redis is required by the redis backend.
	Redis *RedisConfig
}

// RedisConfig points the redis backend at a server.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int

	// KeyPrefix namespaces every key written by the store.
	KeyPrefix string

	// Client, when set, is used instead of dialing Addr.
	Client redis.UniversalClient
}

// DefaultConfig returns an LRU configuration suitable for a single process.
func DefaultConfig() Config {
	return Config{
		Backend:            BackendLRU,
		Capacity:           10000,
		TTL:                5 * time.Minute,
		NumShards:          64,
		EvictionPercentage: 10,
	}
}

// Validate checks the settings relevant to the selected backend.
func (c Config) Validate() error {
	switch c.backend() {
	case BackendLRU, BackendSturdyc, BackendRedis:
	default:
		return &ConfigError{Field: "Backend", Message: "must be one of lru, sturdyc, redis"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.backend() != BackendRedis && c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.backend() == BackendSturdyc {
		if c.NumShards <= 0 {
			return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
		}
		if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
			return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
		}
		if c.EvictionInterval < 0 {
			return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
		}
	}

	if c.backend() == BackendRedis {
		if c.Redis == nil {
			return &ConfigError{Field: "Redis", Message: "is required for the redis backend"}
		}
		if c.Redis.Client == nil && c.Redis.Addr == "" {
			return &ConfigError{Field: "Redis.Addr", Message: "cannot be empty"}
		}
		if c.Redis.DB < 0 {
			return &ConfigError{Field: "Redis.DB", Message: "must be non-negative"}
		}
	}

	return nil
}

func (c Config) backend() Backend {
	if c.Backend == "" {
		return BackendLRU
	}
	return c.Backend
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
