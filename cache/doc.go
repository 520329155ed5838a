// Package cache provides a read-through cache with single-flight fills and
// explicit invalidation.
//
// # Overview
//
// A Cache[V] sits in front of a Store[V] (the value store) and a Loader[V]
// (the source of truth). Each key is in one of three states:
//
//   - EMPTY: nothing stored and no load running
//   - LOADING: a load is running; further callers join it
//   - POPULATED: a value is stored and served without calling the loader
//
// At most one load per key runs at a time. A failed load is returned to every
// caller waiting on it and leaves the key EMPTY.
//
// # Basic Usage
//
//	store, err := cache.NewStore[catalog.Item](cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	items := cache.New("byPublicID", store, cache.WithCopy(catalog.Item.Clone))
//
//	key := cache.NewDefaultKeySerializer().SerializeKey("byPublicID", id)
//	item, err := items.GetOrLoad(ctx, key, func(ctx context.Context) (catalog.Item, error) {
//		return repo.GetByPublicID(ctx, id)
//	})
//
// After a mutation, call Invalidate for every key whose value may have
// changed. An Invalidate that lands while a load is running makes that load
// skip its store write, so a value read before the mutation is never cached
// after it.
//
// # Backends
//
// NewStore builds one of three value stores:
//
//   - lru: in-process LRU with per-entry TTL (hashicorp/golang-lru)
//   - sturdyc: sharded in-process cache (viccon/sturdyc)
//   - redis: shared store using msgpack values (redis/go-redis)
//
// # Metrics
//
// Every Cache keeps hit, miss, load, join and eviction counters. Collector
// exports them to prometheus.
package cache
