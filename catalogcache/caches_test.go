package catalogcache

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/catalog"
)

func sampleItem(title string, industry uuid.UUID) catalog.Item {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return catalog.Item{
		ID:                 1,
		PublicID:           uuid.New(),
		Title:              title,
		Description:        "A sample item used in cache tests",
		IndustryID:         industry,
		IndustryName:       "Logistics",
		Categories:         []string{"equipment"},
		Tags:               []string{"heavy"},
		Price:              decimal.RequireFromString("10.00"),
		MerchantID:         uuid.New(),
		Rating:             4,
		ComplianceStatus:   catalog.Compliant,
		AvailabilityStatus: catalog.Available,
		CreatedOn:          now,
		UpdatedOn:          now,
	}
}

func newCaches(t *testing.T, opts ...Option) *Caches {
	t.Helper()
	c, err := New(DefaultConfig(), opts...)
	require.NoError(t, err)
	return c
}

func itemLoader(it catalog.Item) cache.Loader[catalog.Item] {
	return func(context.Context) (catalog.Item, error) { return it, nil }
}

func listLoader(items ...catalog.Item) cache.Loader[[]catalog.Item] {
	return func(context.Context) ([]catalog.Item, error) { return items, nil }
}

// populate fills every cache the item belongs to.
func populate(t *testing.T, c *Caches, it catalog.Item) {
	t.Helper()
	ctx := context.Background()
	_, err := c.ByPublicID(ctx, it.PublicID, itemLoader(it))
	require.NoError(t, err)
	_, err = c.ByIndustry(ctx, it.IndustryID, listLoader(it))
	require.NoError(t, err)
	_, err = c.All(ctx, listLoader(it))
	require.NoError(t, err)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.ByIndustry.Capacity = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), NameByIndustry)

	_, err = New(cfg)
	assert.Error(t, err)
}

func TestCaches_ReadThrough(t *testing.T) {
	ctx := context.Background()
	c := newCaches(t)
	industry := uuid.New()
	it := sampleItem("Pallet Jack", industry)

	calls := 0
	load := func(context.Context) ([]catalog.Item, error) {
		calls++
		return []catalog.Item{it}, nil
	}

	first, err := c.ByIndustry(ctx, industry, load)
	require.NoError(t, err)
	second, err := c.ByIndustry(ctx, industry, load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, cache.StatePopulated, c.IndustryState(ctx, industry))
	assert.Equal(t, cache.StateEmpty, c.IndustryState(ctx, uuid.New()))
}

func TestCaches_HandsOutCopies(t *testing.T) {
	ctx := context.Background()
	c := newCaches(t)
	it := sampleItem("Pallet Jack", uuid.New())

	got, err := c.ByPublicID(ctx, it.PublicID, itemLoader(it))
	require.NoError(t, err)
	got.Categories[0] = "mutated"
	got.Title = "mutated"

	again, err := c.ByPublicID(ctx, it.PublicID, itemLoader(catalog.Item{}))
	require.NoError(t, err)
	assert.Equal(t, "Pallet Jack", again.Title)
	assert.Equal(t, []string{"equipment"}, again.Categories)

	list, err := c.All(ctx, listLoader(it))
	require.NoError(t, err)
	list[0].Tags[0] = "mutated"

	list, err = c.All(ctx, listLoader())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"heavy"}, list[0].Tags)
}

func TestCaches_InvalidateAfterCreate(t *testing.T) {
	ctx := context.Background()
	c := newCaches(t)
	industry := uuid.New()
	existing := sampleItem("Existing", industry)
	populate(t, c, existing)

	created := sampleItem("Created", industry)
	c.InvalidateAfterCreate(ctx, created)

	assert.Equal(t, cache.StateEmpty, c.AllState(ctx))
	assert.Equal(t, cache.StateEmpty, c.IndustryState(ctx, industry))
	assert.Equal(t, cache.StatePopulated, c.PublicIDState(ctx, existing.PublicID))
}

func TestCaches_InvalidateAfterUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("same industry", func(t *testing.T) {
		c := newCaches(t)
		before := sampleItem("Before", uuid.New())
		other := sampleItem("Other", uuid.New())
		populate(t, c, before)
		populate(t, c, other)

		after := before
		after.Title = "After"
		c.InvalidateAfterUpdate(ctx, before, after)

		assert.Equal(t, cache.StateEmpty, c.PublicIDState(ctx, before.PublicID))
		assert.Equal(t, cache.StateEmpty, c.AllState(ctx))
		assert.Equal(t, cache.StateEmpty, c.IndustryState(ctx, before.IndustryID))
		assert.Equal(t, cache.StatePopulated, c.IndustryState(ctx, other.IndustryID))
		assert.Equal(t, cache.StatePopulated, c.PublicIDState(ctx, other.PublicID))
	})

	t.Run("industry changed", func(t *testing.T) {
		c := newCaches(t)
		before := sampleItem("Before", uuid.New())
		target := sampleItem("Target", uuid.New())
		populate(t, c, before)
		populate(t, c, target)

		after := before
		after.IndustryID = target.IndustryID
		c.InvalidateAfterUpdate(ctx, before, after)

		assert.Equal(t, cache.StateEmpty, c.IndustryState(ctx, before.IndustryID))
		assert.Equal(t, cache.StateEmpty, c.IndustryState(ctx, target.IndustryID))
	})
}

func TestCaches_InvalidateAfterDelete(t *testing.T) {
	ctx := context.Background()
	c := newCaches(t)
	it := sampleItem("Doomed", uuid.New())
	populate(t, c, it)

	c.InvalidateAfterDelete(ctx, it)

	assert.Equal(t, cache.StateEmpty, c.PublicIDState(ctx, it.PublicID))
	assert.Equal(t, cache.StateEmpty, c.AllState(ctx))
	assert.Equal(t, cache.StateEmpty, c.IndustryState(ctx, it.IndustryID))
}

type brokenStore[V any] struct {
	cache.Store[V]
}

func (brokenStore[V]) Delete(context.Context, string) error {
	return errors.New("backend down")
}

func TestCaches_EvictionFailureIsSoft(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	byPublicID, err := cache.NewStore[catalog.Item](cache.DefaultConfig())
	require.NoError(t, err)
	byIndustry, err := cache.NewStore[[]catalog.Item](cache.DefaultConfig())
	require.NoError(t, err)
	all, err := cache.NewStore[[]catalog.Item](cache.DefaultConfig())
	require.NoError(t, err)

	c := NewWithStores(byPublicID, byIndustry, brokenStore[[]catalog.Item]{all}, WithLogger(logger))

	it := sampleItem("Item", uuid.New())
	assert.NotPanics(t, func() { c.InvalidateAfterDelete(ctx, it) })

	assert.Contains(t, buf.String(), "evict all-items listing failed")
	assert.Contains(t, buf.String(), `"level":"warn"`)

	var allStats cache.Stats
	for _, s := range c.Stats() {
		if s.Name == NameAll {
			allStats = s
		}
	}
	assert.Equal(t, int64(1), allStats.EvictionFailures)
}

func TestCaches_StatsAndCollector(t *testing.T) {
	c := newCaches(t)
	populate(t, c, sampleItem("Item", uuid.New()))

	stats := c.Stats()
	require.Len(t, stats, 3)
	names := []string{stats[0].Name, stats[1].Name, stats[2].Name}
	assert.Equal(t, []string{NameByPublicID, NameByIndustry, NameAll}, names)
	for _, s := range stats {
		assert.Equal(t, int64(1), s.Loads, s.Name)
	}

	assert.NotNil(t, c.Collector("catalog"))
}

// ctxStore fails every call made with a finished context, like a network
// backend would.
type ctxStore[V any] struct {
	cache.Store[V]
}

func (s ctxStore[V]) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.Delete(ctx, key)
}

func newCtxCaches(t *testing.T) *Caches {
	t.Helper()
	byPublicID, err := cache.NewStore[catalog.Item](cache.DefaultConfig())
	require.NoError(t, err)
	byIndustry, err := cache.NewStore[[]catalog.Item](cache.DefaultConfig())
	require.NoError(t, err)
	all, err := cache.NewStore[[]catalog.Item](cache.DefaultConfig())
	require.NoError(t, err)

	c := NewWithStores(
		ctxStore[catalog.Item]{byPublicID},
		ctxStore[[]catalog.Item]{byIndustry},
		ctxStore[[]catalog.Item]{all},
	)
	return c
}

func TestCaches_EvictionIgnoresCallerCancellation(t *testing.T) {
	c := newCtxCaches(t)
	it := sampleItem("Item", uuid.New())
	populate(t, c, it)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	moved := it
	moved.IndustryID = uuid.New()
	c.InvalidateAfterUpdate(ctx, it, moved)

	bg := context.Background()
	assert.Equal(t, cache.StateEmpty, c.PublicIDState(bg, it.PublicID))
	assert.Equal(t, cache.StateEmpty, c.AllState(bg))
	assert.Equal(t, cache.StateEmpty, c.IndustryState(bg, it.IndustryID))
	for _, s := range c.Stats() {
		assert.Zero(t, s.EvictionFailures, s.Name)
	}

	populate(t, c, it)
	c.InvalidateAfterDelete(ctx, it)
	assert.Equal(t, cache.StateEmpty, c.PublicIDState(bg, it.PublicID))

	populate(t, c, it)
	c.InvalidateAfterCreate(ctx, it)
	assert.Equal(t, cache.StateEmpty, c.AllState(bg))
}

func TestCaches_ByPublicIDRespectsCapacity(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.ByPublicID.Capacity = 2
	c, err := New(cfg)
	require.NoError(t, err)

	industry := uuid.New()
	items := []catalog.Item{
		sampleItem("First", industry),
		sampleItem("Second", industry),
		sampleItem("Third", industry),
	}
	for _, it := range items {
		_, err := c.ByPublicID(ctx, it.PublicID, itemLoader(it))
		require.NoError(t, err)
	}

	assert.Equal(t, cache.StateEmpty, c.PublicIDState(ctx, items[0].PublicID))
	assert.Equal(t, cache.StatePopulated, c.PublicIDState(ctx, items[1].PublicID))
	assert.Equal(t, cache.StatePopulated, c.PublicIDState(ctx, items[2].PublicID))

	got, err := c.ByPublicID(ctx, items[0].PublicID, itemLoader(items[0]))
	require.NoError(t, err)
	assert.Equal(t, items[0].PublicID, got.PublicID)
	assert.Equal(t, int64(4), c.Stats()[0].Loads)
}
