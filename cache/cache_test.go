package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestCache[V any](t *testing.T, opts ...Option[V]) *Cache[V] {
	t.Helper()
	store, err := NewStore[V](DefaultConfig())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return New("test", store, opts...)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

type failingStore[V any] struct {
	getErr    error
	deleteErr error
}

func (s failingStore[V]) Get(context.Context, string) (V, bool, error) {
	var zero V
	return zero, false, s.getErr
}

func (s failingStore[V]) Set(context.Context, string, V) error { return nil }

func (s failingStore[V]) Delete(context.Context, string) error { return s.deleteErr }

func (s failingStore[V]) Len(context.Context) (int, error) { return 0, nil }

func TestCache_GetOrLoadPopulates(t *testing.T) {
	ctx := context.Background()
	c := newTestCache[string](t)

	var calls atomic.Int32
	load := func(context.Context) (string, error) {
		calls.Add(1)
		return "value", nil
	}

	if got := c.State(ctx, "k"); got != StateEmpty {
		t.Fatalf("initial state = %s, want EMPTY", got)
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad(ctx, "k", load)
		if err != nil {
			t.Fatalf("GetOrLoad() error = %v", err)
		}
		if v != "value" {
			t.Fatalf("GetOrLoad() = %q, want value", v)
		}
	}

	if calls.Load() != 1 {
		t.Errorf("loader called %d times, want 1", calls.Load())
	}
	if got := c.State(ctx, "k"); got != StatePopulated {
		t.Errorf("state = %s, want POPULATED", got)
	}

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Loads != 1 {
		t.Errorf("stats = %+v, want 2 hits, 1 miss, 1 load", stats)
	}
	if r := stats.HitRatio(); r < 0.66 || r > 0.67 {
		t.Errorf("HitRatio() = %v", r)
	}
}

func TestCache_ConcurrentCallersShareOneLoad(t *testing.T) {
	ctx := context.Background()
	c := newTestCache[int](t)

	const callers = 16
	release := make(chan struct{})
	var calls atomic.Int32
	load := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetOrLoad(ctx, "shared", load)
		}(i)
	}

	waitFor(t, "callers to join", func() bool { return c.Stats().Joins == callers-1 })
	if got := c.State(ctx, "shared"); got != StateLoading {
		t.Errorf("state during load = %s, want LOADING", got)
	}
	close(release)
	wg.Wait()

	for i := range results {
		if errs[i] != nil || results[i] != 42 {
			t.Errorf("caller %d got (%d, %v), want (42, nil)", i, results[i], errs[i])
		}
	}
	if calls.Load() != 1 {
		t.Errorf("loader called %d times, want 1", calls.Load())
	}
}

func TestCache_FailureIsNotCached(t *testing.T) {
	ctx := context.Background()
	c := newTestCache[string](t)
	boom := errors.New("boom")

	_, err := c.GetOrLoad(ctx, "k", func(context.Context) (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("GetOrLoad() error = %v, want boom", err)
	}
	if got := c.State(ctx, "k"); got != StateEmpty {
		t.Fatalf("state after failure = %s, want EMPTY", got)
	}

	v, err := c.GetOrLoad(ctx, "k", func(context.Context) (string, error) {
		return "recovered", nil
	})
	if err != nil || v != "recovered" {
		t.Fatalf("retry = (%q, %v), want (recovered, nil)", v, err)
	}
	if c.Stats().LoadFailures != 1 {
		t.Errorf("LoadFailures = %d, want 1", c.Stats().LoadFailures)
	}
}

func TestCache_FailureReachesEveryWaiter(t *testing.T) {
	ctx := context.Background()
	c := newTestCache[string](t)
	boom := errors.New("boom")
	release := make(chan struct{})

	load := func(context.Context) (string, error) {
		<-release
		return "", boom
	}

	const callers = 4
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			_, err := c.GetOrLoad(ctx, "k", load)
			errs <- err
		}()
	}
	waitFor(t, "callers to join", func() bool { return c.Stats().Joins == callers-1 })
	close(release)

	for i := 0; i < callers; i++ {
		if err := <-errs; !errors.Is(err, boom) {
			t.Errorf("waiter error = %v, want boom", err)
		}
	}
}

func TestCache_LoaderPanicBecomesError(t *testing.T) {
	c := newTestCache[string](t)

	_, err := c.GetOrLoad(context.Background(), "k", func(context.Context) (string, error) {
		panic("bad loader")
	})
	if err == nil || !strings.Contains(err.Error(), "bad loader") {
		t.Fatalf("GetOrLoad() error = %v, want loader panic", err)
	}
}

func TestCache_InvalidateDuringLoadDiscardsResult(t *testing.T) {
	ctx := context.Background()
	c := newTestCache[string](t)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan string)
	go func() {
		v, _ := c.GetOrLoad(ctx, "k", func(context.Context) (string, error) {
			close(started)
			<-release
			return "stale", nil
		})
		done <- v
	}()

	<-started
	if err := c.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	close(release)

	if v := <-done; v != "stale" {
		t.Errorf("in-flight caller got %q, want stale", v)
	}
	waitFor(t, "load to settle", func() bool { return c.State(ctx, "k") == StateEmpty })
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("stale value was stored after invalidation")
	}

	v, err := c.GetOrLoad(ctx, "k", func(context.Context) (string, error) {
		return "fresh", nil
	})
	if err != nil || v != "fresh" {
		t.Errorf("reload = (%q, %v), want (fresh, nil)", v, err)
	}
}

func TestCache_InvalidateEmptiesPopulatedKey(t *testing.T) {
	ctx := context.Background()
	c := newTestCache[string](t)

	if _, err := c.GetOrLoad(ctx, "k", func(context.Context) (string, error) { return "v", nil }); err != nil {
		t.Fatalf("GetOrLoad() error = %v", err)
	}
	if err := c.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if got := c.State(ctx, "k"); got != StateEmpty {
		t.Errorf("state = %s, want EMPTY", got)
	}
	// invalidating an empty key is a no-op
	if err := c.Invalidate(ctx, "missing"); err != nil {
		t.Errorf("Invalidate(missing) error = %v", err)
	}
	if c.Stats().Evictions != 2 {
		t.Errorf("Evictions = %d, want 2", c.Stats().Evictions)
	}
}

func TestCache_CallerCancellationDoesNotStopLoad(t *testing.T) {
	c := newTestCache[string](t)
	release := make(chan struct{})
	var calls atomic.Int32
	load := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "value", nil
	}

	ownerCtx, cancel := context.WithCancel(context.Background())
	ownerErr := make(chan error, 1)
	go func() {
		_, err := c.GetOrLoad(ownerCtx, "k", load)
		ownerErr <- err
	}()
	waitFor(t, "load to start", func() bool { return calls.Load() == 1 })

	joined := make(chan string, 1)
	go func() {
		v, _ := c.GetOrLoad(context.Background(), "k", load)
		joined <- v
	}()
	waitFor(t, "second caller to join", func() bool { return c.Stats().Joins == 1 })

	cancel()
	if err := <-ownerErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("owner error = %v, want context.Canceled", err)
	}
	close(release)

	if v := <-joined; v != "value" {
		t.Errorf("joined caller got %q, want value", v)
	}
	if calls.Load() != 1 {
		t.Errorf("loader called %d times, want 1", calls.Load())
	}
}

func TestCache_WithCopy(t *testing.T) {
	ctx := context.Background()
	clone := func(in []string) []string { return append([]string(nil), in...) }
	c := newTestCache[[]string](t, WithCopy(clone))

	v, err := c.GetOrLoad(ctx, "k", func(context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	if err != nil {
		t.Fatalf("GetOrLoad() error = %v", err)
	}
	v[0] = "mutated"

	again, ok := c.Get(ctx, "k")
	if !ok {
		t.Fatal("Get() missed after load")
	}
	if again[0] != "a" {
		t.Errorf("cached value was mutated through a returned copy: %v", again)
	}
}

func TestCache_StoreErrorsDegradeToMiss(t *testing.T) {
	ctx := context.Background()
	c := New[string]("broken", failingStore[string]{
		getErr:    errors.New("read failed"),
		deleteErr: errors.New("delete failed"),
	})

	v, err := c.GetOrLoad(ctx, "k", func(context.Context) (string, error) { return "v", nil })
	if err != nil || v != "v" {
		t.Fatalf("GetOrLoad() = (%q, %v), want (v, nil)", v, err)
	}
	if err := c.Invalidate(ctx, "k"); err == nil {
		t.Fatal("Invalidate() error = nil, want delete failure")
	}

	stats := c.Stats()
	if stats.StoreErrors == 0 {
		t.Error("StoreErrors = 0, want store read failures counted")
	}
	if stats.EvictionFailures != 1 {
		t.Errorf("EvictionFailures = %d, want 1", stats.EvictionFailures)
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		StateEmpty:     "EMPTY",
		StateLoading:   "LOADING",
		StatePopulated: "POPULATED",
		State(9):       "State(9)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}

func TestCollector(t *testing.T) {
	ctx := context.Background()
	a := newTestCache[string](t)
	store, err := NewStore[int](DefaultConfig())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	b := New("other", store)

	_, _ = a.GetOrLoad(ctx, "k", func(context.Context) (string, error) { return "v", nil })
	_, _ = a.GetOrLoad(ctx, "k", func(context.Context) (string, error) { return "v", nil })

	collector := NewCollector("catalog", a, b)

	registry := prometheus.NewPedanticRegistry()
	if err := registry.Register(collector); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := registry.Gather(); err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	if n := testutil.CollectAndCount(collector, "catalog_cache_hits_total"); n != 2 {
		t.Errorf("hits series = %d, want 2", n)
	}

	expected := `
# HELP catalog_cache_hits_total Lookups answered from the cache.
# TYPE catalog_cache_hits_total counter
catalog_cache_hits_total{cache="other"} 0
catalog_cache_hits_total{cache="test"} 1
`
	if err := testutil.CollectAndCompare(collector, strings.NewReader(expected), "catalog_cache_hits_total"); err != nil {
		t.Error(err)
	}
}

func TestCache_CapacityBoundsStoredValues(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Capacity = 2
	store, err := NewStore[string](cfg)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	c := New("bounded", store)

	var calls atomic.Int32
	load := func(context.Context) (string, error) {
		calls.Add(1)
		return "value", nil
	}

	for _, key := range []string{"a", "b", "c"} {
		if _, err := c.GetOrLoad(ctx, key, load); err != nil {
			t.Fatalf("GetOrLoad(%q) error = %v", key, err)
		}
		n, err := c.Len(ctx)
		if err != nil {
			t.Fatalf("Len() error = %v", err)
		}
		if n > 2 {
			t.Fatalf("Len() after %q = %d, want at most 2", key, n)
		}
	}

	if got := c.State(ctx, "a"); got != StateEmpty {
		t.Errorf("State(a) = %s, want EMPTY after capacity eviction", got)
	}
	if got := c.State(ctx, "c"); got != StatePopulated {
		t.Errorf("State(c) = %s, want POPULATED", got)
	}

	if _, err := c.GetOrLoad(ctx, "a", load); err != nil {
		t.Fatalf("GetOrLoad(a) error = %v", err)
	}
	if got := calls.Load(); got != 4 {
		t.Errorf("loads = %d, want 4", got)
	}
	if got := c.Stats().Loads; got != 4 {
		t.Errorf("Stats().Loads = %d, want 4", got)
	}
}
