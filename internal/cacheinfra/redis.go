package cacheinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// redisStore keeps msgpack encoded values under KeyPrefix. msgpack ignores
// json tags, so fields hidden from JSON (such as internal keys) survive the
// round trip.
type redisStore[V any] struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func newRedisStore[V any](cfg Config) *redisStore[V] {
	client := cfg.Redis.Client
	if client == nil {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return &redisStore[V]{client: client, prefix: cfg.Redis.KeyPrefix, ttl: cfg.TTL}
}

func (s *redisStore[V]) key(k string) string { return s.prefix + k }

func (s *redisStore[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	v, err := decode[V](data)
	if err != nil {
		return zero, false, fmt.Errorf("redis decode %s: %w", key, err)
	}
	return v, true, nil
}

func (s *redisStore[V]) Set(ctx context.Context, key string, value V) error {
	data, err := encode(value)
	if err != nil {
		return fmt.Errorf("redis encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.key(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *redisStore[V]) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Len counts the keys under the store prefix with SCAN.
func (s *redisStore[V]) Len(ctx context.Context) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan: %w", err)
	}
	return n, nil
}

func encode[V any](v V) ([]byte, error) {
	return msgpack.Marshal(v)
}

func decode[V any](data []byte) (V, error) {
	var v V
	err := msgpack.Unmarshal(data, &v)
	return v, err
}
