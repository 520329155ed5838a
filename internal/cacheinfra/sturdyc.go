package cacheinfra

import (
	"context"

	"github.com/viccon/sturdyc"
)

// sturdycStore uses a sturdyc client purely as a sharded value map. Loading
// and coalescing happen in the cache package, so none of the client's fetch
// helpers are used.
type sturdycStore[V any] struct {
	client *sturdyc.Client[V]
}

// sturdycOptions maps the optional settings onto client options. Capacity,
// NumShards, TTL and EvictionPercentage are constructor arguments.
func sturdycOptions(cfg Config) []sturdyc.Option {
	var opts []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		opts = append(opts, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}
	return opts
}

func newSturdycStore[V any](cfg Config) *sturdycStore[V] {
	client := sturdyc.New[V](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		sturdycOptions(cfg)...,
	)
	return &sturdycStore[V]{client: client}
}

func (s *sturdycStore[V]) Get(_ context.Context, key string) (V, bool, error) {
	v, ok := s.client.Get(key)
	return v, ok, nil
}

func (s *sturdycStore[V]) Set(_ context.Context, key string, value V) error {
	s.client.Set(key, value)
	return nil
}

func (s *sturdycStore[V]) Delete(_ context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

func (s *sturdycStore[V]) Len(context.Context) (int, error) {
	return s.client.Size(), nil
}
