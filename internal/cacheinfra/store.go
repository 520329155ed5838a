package cacheinfra

import (
	"context"
	"fmt"
)

// Store is a keyed value store without loading logic. Implementations are safe
// for concurrent use.
type Store[V any] interface {
	Get(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, value V) error
	Delete(ctx context.Context, key string) error
	Len(ctx context.Context) (int, error)
}

// NewStore builds the store selected by cfg.Backend.
func NewStore[V any](cfg Config) (Store[V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.backend() {
	case BackendSturdyc:
		return newSturdycStore[V](cfg), nil
	case BackendRedis:
		return newRedisStore[V](cfg), nil
	case BackendLRU:
		return newLRUStore[V](cfg), nil
	}
	return nil, fmt.Errorf("cacheinfra: unhandled backend %q", cfg.Backend)
}
