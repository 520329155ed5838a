package cacheinfra

import (
	"context"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// lruStore wraps an expirable LRU. Adding beyond Capacity drops the least
// recently used entry.
type lruStore[V any] struct {
	lru *expirable.LRU[string, V]
}

func newLRUStore[V any](cfg Config) *lruStore[V] {
	return &lruStore[V]{lru: expirable.NewLRU[string, V](cfg.Capacity, nil, cfg.TTL)}
}

func (s *lruStore[V]) Get(_ context.Context, key string) (V, bool, error) {
	v, ok := s.lru.Get(key)
	return v, ok, nil
}

func (s *lruStore[V]) Set(_ context.Context, key string, value V) error {
	s.lru.Add(key, value)
	return nil
}

func (s *lruStore[V]) Delete(_ context.Context, key string) error {
	s.lru.Remove(key)
	return nil
}

func (s *lruStore[V]) Len(context.Context) (int, error) {
	return s.lru.Len(), nil
}
