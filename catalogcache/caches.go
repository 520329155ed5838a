package catalogcache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/catalog"
)

// Cache names, also used as key namespaces.
const (
	NameByPublicID = "byPublicID"
	NameByIndustry = "byIndustry"
	NameAll        = "all"
)

// Config holds one value store configuration per named cache.
type Config struct {
	ByPublicID cache.Config
	ByIndustry cache.Config
	All        cache.Config
}

// DefaultConfig returns LRU stores for every cache. The all-items cache holds a
// single slot.
func DefaultConfig() Config {
	all := cache.DefaultConfig()
	all.Capacity = 1

	byIndustry := cache.DefaultConfig()
	byIndustry.Capacity = 1000

	return Config{
		ByPublicID: cache.DefaultConfig(),
		ByIndustry: byIndustry,
		All:        all,
	}
}

// Validate checks every cache section.
func (c Config) Validate() error {
	sections := []struct {
		name string
		cfg  cache.Config
	}{
		{NameByPublicID, c.ByPublicID},
		{NameByIndustry, c.ByIndustry},
		{NameAll, c.All},
	}
	for _, s := range sections {
		if err := s.cfg.Validate(); err != nil {
			return fmt.Errorf("cache %s: %w", s.name, err)
		}
	}
	return nil
}

// Caches groups the named catalog caches and the eviction policy applied to
// them after each mutation.
type Caches struct {
	byPublicID *cache.Cache[catalog.Item]
	byIndustry *cache.Cache[[]catalog.Item]
	all        *cache.Cache[[]catalog.Item]
	keys       cache.KeySerializer
	logger     zerolog.Logger
}

// Option configures Caches.
type Option func(*Caches)

// WithLogger sets the logger used by Caches and every named cache.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Caches) {
		c.logger = logger
	}
}

// WithKeySerializer overrides the default key serializer.
func WithKeySerializer(keys cache.KeySerializer) Option {
	return func(c *Caches) {
		if keys != nil {
			c.keys = keys
		}
	}
}

// New builds the named caches from cfg.
func New(cfg Config, opts ...Option) (*Caches, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	byPublicID, err := cache.NewStore[catalog.Item](cfg.ByPublicID)
	if err != nil {
		return nil, fmt.Errorf("cache %s: %w", NameByPublicID, err)
	}
	byIndustry, err := cache.NewStore[[]catalog.Item](cfg.ByIndustry)
	if err != nil {
		return nil, fmt.Errorf("cache %s: %w", NameByIndustry, err)
	}
	all, err := cache.NewStore[[]catalog.Item](cfg.All)
	if err != nil {
		return nil, fmt.Errorf("cache %s: %w", NameAll, err)
	}
	return NewWithStores(byPublicID, byIndustry, all, opts...), nil
}

// NewWithStores builds the named caches over caller-provided value stores.
func NewWithStores(
	byPublicID cache.Store[catalog.Item],
	byIndustry cache.Store[[]catalog.Item],
	all cache.Store[[]catalog.Item],
	opts ...Option,
) *Caches {
	c := &Caches{
		keys:   cache.NewDefaultKeySerializer(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.byPublicID = cache.New(NameByPublicID, byPublicID,
		cache.WithCopy(catalog.Item.Clone),
		cache.WithLogger[catalog.Item](c.logger),
	)
	c.byIndustry = cache.New(NameByIndustry, byIndustry,
		cache.WithCopy(catalog.CloneItems),
		cache.WithLogger[[]catalog.Item](c.logger),
	)
	c.all = cache.New(NameAll, all,
		cache.WithCopy(catalog.CloneItems),
		cache.WithLogger[[]catalog.Item](c.logger),
	)
	return c
}

// ByPublicID returns the item for publicID, calling load on a miss.
func (c *Caches) ByPublicID(ctx context.Context, publicID uuid.UUID, load cache.Loader[catalog.Item]) (catalog.Item, error) {
	return c.byPublicID.GetOrLoad(ctx, c.publicIDKey(publicID), load)
}

// ByIndustry returns the items of industryID, calling load on a miss.
func (c *Caches) ByIndustry(ctx context.Context, industryID uuid.UUID, load cache.Loader[[]catalog.Item]) ([]catalog.Item, error) {
	return c.byIndustry.GetOrLoad(ctx, c.industryKey(industryID), load)
}

// All returns every item, calling load on a miss.
func (c *Caches) All(ctx context.Context, load cache.Loader[[]catalog.Item]) ([]catalog.Item, error) {
	return c.all.GetOrLoad(ctx, c.allKey(), load)
}

// PublicIDState reports the cache state of publicID.
func (c *Caches) PublicIDState(ctx context.Context, publicID uuid.UUID) cache.State {
	return c.byPublicID.State(ctx, c.publicIDKey(publicID))
}

// IndustryState reports the cache state of industryID.
func (c *Caches) IndustryState(ctx context.Context, industryID uuid.UUID) cache.State {
	return c.byIndustry.State(ctx, c.industryKey(industryID))
}

// AllState reports the cache state of the all-items slot.
func (c *Caches) AllState(ctx context.Context) cache.State {
	return c.all.State(ctx, c.allKey())
}

// Sources returns the named caches as stats sources.
func (c *Caches) Sources() []cache.StatsSource {
	return []cache.StatsSource{c.byPublicID, c.byIndustry, c.all}
}

// Stats returns a snapshot per named cache.
func (c *Caches) Stats() []cache.Stats {
	sources := c.Sources()
	out := make([]cache.Stats, len(sources))
	for i, s := range sources {
		out[i] = s.Stats()
	}
	return out
}

// Collector returns a prometheus collector over the named caches.
func (c *Caches) Collector(namespace string) *cache.Collector {
	return cache.NewCollector(namespace, c.Sources()...)
}

func (c *Caches) publicIDKey(id uuid.UUID) string {
	return c.keys.SerializeKey(NameByPublicID, id)
}

func (c *Caches) industryKey(id uuid.UUID) string {
	return c.keys.SerializeKey(NameByIndustry, id)
}

func (c *Caches) allKey() string {
	return c.keys.SerializeKey(NameAll)
}
