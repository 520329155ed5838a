package cache

import (
	"context"
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
)

// Store is the value store behind a Cache. See NewStore for the built-in
// backends.
type Store[V any] interface {
	Get(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, value V) error
	Delete(ctx context.Context, key string) error
	Len(ctx context.Context) (int, error)
}

// Loader produces the value for a key from the source of truth.
type Loader[V any] func(ctx context.Context) (V, error)

// State is the lifecycle state of a single key.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "EMPTY"
	case StateLoading:
		return "LOADING"
	case StatePopulated:
		return "POPULATED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// call is one in-flight load. done is closed once value and err are final.
type call[V any] struct {
	done  chan struct{}
	value V
	err   error
}

// Cache is a read-through cache with at most one concurrent load per key.
//
// A key with a stored value is POPULATED. A key with an entry in the in-flight
// map is LOADING and every GetOrLoad caller joins that load instead of starting
// another. Any other key is EMPTY. Failed loads are handed to every waiting
// caller and are never stored.
//
// Invalidate removes the stored value and detaches any in-flight load for the
// key, whose result is then returned to its waiters but not stored.
type Cache[V any] struct {
	name     string
	store    Store[V]
	inflight *xsync.MapOf[string, *call[V]]
	copyFn   func(V) V
	stats    *counters
	logger   zerolog.Logger
}

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithLogger sets the cache logger.
func WithLogger[V any](logger zerolog.Logger) Option[V] {
	return func(c *Cache[V]) {
		c.logger = logger
	}
}

// WithCopy sets a function applied to every value handed to a caller, so
// callers cannot modify what the cache holds.
func WithCopy[V any](fn func(V) V) Option[V] {
	return func(c *Cache[V]) {
		c.copyFn = fn
	}
}

// New returns a Cache named name over store.
func New[V any](name string, store Store[V], opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		name:     name,
		store:    store,
		inflight: xsync.NewMapOf[string, *call[V]](),
		stats:    &counters{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("cache", name).Logger()
	return c
}

// Name returns the cache name.
func (c *Cache[V]) Name() string { return c.name }

// GetOrLoad returns the value for key, calling load when the key is EMPTY.
//
// load runs detached from the caller's cancellation, so a caller whose ctx ends
// stops waiting and gets ctx.Err() while the load carries on for the others.
func (c *Cache[V]) GetOrLoad(ctx context.Context, key string, load Loader[V]) (V, error) {
	if v, ok := c.lookup(ctx, key); ok {
		c.stats.hits.Add(1)
		return c.copy(v), nil
	}
	c.stats.misses.Add(1)

	cl := &call[V]{done: make(chan struct{})}
	actual, loaded := c.inflight.LoadOrStore(key, cl)
	if loaded {
		c.stats.joins.Add(1)
		c.logger.Debug().Str("key", key).Msg("joining in-flight load")
	} else {
		go c.fill(context.WithoutCancel(ctx), key, cl, load)
	}
	return c.wait(ctx, actual)
}

// Get returns the stored value for key without loading.
func (c *Cache[V]) Get(ctx context.Context, key string) (V, bool) {
	v, ok := c.lookup(ctx, key)
	if !ok {
		var zero V
		return zero, false
	}
	return c.copy(v), true
}

// Invalidate moves key to EMPTY. The stored value is deleted and an in-flight
// load for key, if any, will not store its result. The returned error comes
// from the store delete.
func (c *Cache[V]) Invalidate(ctx context.Context, key string) error {
	c.inflight.Compute(key, func(*call[V], bool) (*call[V], bool) {
		return nil, true
	})

	c.stats.evictions.Add(1)
	if err := c.store.Delete(ctx, key); err != nil {
		c.stats.evictionFailures.Add(1)
		return fmt.Errorf("cache %s: evict %s: %w", c.name, key, err)
	}
	return nil
}

// State reports the current state of key.
func (c *Cache[V]) State(ctx context.Context, key string) State {
	if _, ok := c.inflight.Load(key); ok {
		return StateLoading
	}
	if _, ok := c.lookup(ctx, key); ok {
		return StatePopulated
	}
	return StateEmpty
}

// Len returns the number of stored values.
func (c *Cache[V]) Len(ctx context.Context) (int, error) {
	return c.store.Len(ctx)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[V]) Stats() Stats {
	return c.stats.snapshot(c.name)
}

func (c *Cache[V]) lookup(ctx context.Context, key string) (V, bool) {
	v, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.stats.storeErrors.Add(1)
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed, treating as miss")
		var zero V
		return zero, false
	}
	return v, ok
}

// fill runs load for the call owner and publishes the outcome. The result is
// stored only while cl is still the key's in-flight call; the check and the
// write happen inside Compute so an Invalidate cannot interleave.
func (c *Cache[V]) fill(ctx context.Context, key string, cl *call[V], load Loader[V]) {
	defer close(cl.done)

	if v, ok := c.lookup(ctx, key); ok {
		cl.value = v
		c.inflight.Compute(key, func(cur *call[V], loaded bool) (*call[V], bool) {
			return cur, !loaded || cur == cl
		})
		return
	}

	c.stats.loads.Add(1)
	cl.value, cl.err = c.safeLoad(ctx, load)
	if cl.err != nil {
		c.stats.loadFailures.Add(1)
		c.logger.Debug().Err(cl.err).Str("key", key).Msg("cache load failed")
	}

	c.inflight.Compute(key, func(cur *call[V], loaded bool) (*call[V], bool) {
		if !loaded || cur != cl {
			// invalidated while loading
			return cur, !loaded
		}
		if cl.err == nil {
			if err := c.store.Set(ctx, key, cl.value); err != nil {
				c.stats.storeErrors.Add(1)
				c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
			}
		}
		return nil, true
	})
}

func (c *Cache[V]) safeLoad(ctx context.Context, load Loader[V]) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cache %s: loader panic: %v", c.name, r)
		}
	}()
	return load(ctx)
}

func (c *Cache[V]) wait(ctx context.Context, cl *call[V]) (V, error) {
	select {
	case <-cl.done:
		if cl.err != nil {
			var zero V
			return zero, cl.err
		}
		return c.copy(cl.value), nil
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

func (c *Cache[V]) copy(v V) V {
	if c.copyFn == nil {
		return v
	}
	return c.copyFn(v)
}
