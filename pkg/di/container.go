package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/catalogcache"
	"github.com/goliatone/go-catalog-cache/internal/config"
	"github.com/goliatone/go-catalog-cache/internal/logging"
	"github.com/goliatone/go-catalog-cache/internal/seed"
	"github.com/goliatone/go-catalog-cache/query"
	"github.com/goliatone/go-catalog-cache/service"
	"github.com/goliatone/go-catalog-cache/store"
	"github.com/goliatone/go-catalog-cache/store/bunstore"
	"github.com/goliatone/go-catalog-cache/store/memory"
)

// Container wires the catalog components selected by a config.Config: the
// record store, the named caches and the service on top of them.
type Container struct {
	config  config.Config
	logger  zerolog.Logger
	db      *bun.DB
	store   store.Store
	caches  *catalogcache.Caches
	service *service.Service
}

// Option configures a Container.
type Option func(*Container)

// WithLogger replaces the logger built from the app section of the config.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

// NewContainer builds every component described by cfg. SQL stores are opened
// and, when cfg.Store.CreateSchema is set, their schema is created.
func NewContainer(ctx context.Context, cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		config: cfg,
		logger: logging.New(logging.Config{Level: cfg.App.LogLevel, Format: cfg.App.LogFormat}),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.openStore(ctx); err != nil {
		return nil, err
	}

	caches, err := catalogcache.New(cfg.Cache.Catalog(),
		catalogcache.WithLogger(c.logger.With().Str("component", "cache").Logger()),
	)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.caches = caches

	c.service = service.New(c.store, c.caches,
		service.WithLogger(c.logger.With().Str("component", "service").Logger()),
		service.WithBatchLimit(cfg.Service.BatchConcurrency),
		service.WithBuilder(query.NewBuilder(
			query.WithShortTextThreshold(cfg.Service.ShortTextThreshold),
			query.WithBuilderLogger(c.logger),
		)),
	)
	return c, nil
}

// NewContainerWithDefaults builds an in-memory container from the default
// configuration, ignoring config files and the environment.
func NewContainerWithDefaults(ctx context.Context) (*Container, error) {
	return NewContainer(ctx, DefaultConfig())
}

// DefaultConfig mirrors the defaults applied by config.Load.
func DefaultConfig() config.Config {
	section := func(capacity int) config.CacheSection {
		d := cache.DefaultConfig()
		return config.CacheSection{
			Backend:            string(d.Backend),
			Capacity:           capacity,
			TTL:                d.TTL,
			Shards:             d.NumShards,
			EvictionPercentage: d.EvictionPercentage,
		}
	}
	defaults := catalogcache.DefaultConfig()
	return config.Config{
		App:   config.AppConfig{Env: "development", LogLevel: "info", LogFormat: "console"},
		Store: config.StoreConfig{Driver: config.DriverMemory, CreateSchema: true},
		Cache: config.CacheConfig{
			Redis:      config.RedisConfig{KeyPrefix: "catalog:"},
			ByPublicID: section(defaults.ByPublicID.Capacity),
			ByIndustry: section(defaults.ByIndustry.Capacity),
			All:        section(defaults.All.Capacity),
		},
		Service: config.ServiceConfig{
			BatchConcurrency:   service.DefaultBatchLimit,
			ShortTextThreshold: query.DefaultShortTextThreshold,
		},
		Seed: config.SeedConfig{Count: seed.DefaultCount},
	}
}

func (c *Container) openStore(ctx context.Context) error {
	storeLogger := c.logger.With().Str("component", "store").Logger()

	if c.config.Store.Driver == config.DriverMemory {
		c.store = memory.New()
		return nil
	}

	db, err := bunstore.Open(c.config.Store.Driver, c.config.Store.DSN)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping %s store: %w", c.config.Store.Driver, err)
	}
	if c.config.Store.CreateSchema {
		if err := bunstore.CreateSchema(ctx, db); err != nil {
			db.Close()
			return err
		}
	}

	c.db = db
	c.store = bunstore.New(db, bunstore.WithLogger(storeLogger))
	return nil
}

// Seed runs the sample data initializer when the seed section enables it.
func (c *Container) Seed(ctx context.Context) (int, error) {
	if !c.config.Seed.Enabled {
		return 0, nil
	}
	s := seed.New(c.store, c.service,
		seed.WithCount(c.config.Seed.Count),
		seed.WithLogger(c.logger.With().Str("component", "seed").Logger()),
	)
	return s.Run(ctx)
}

// Close releases the database connection, if any.
func (c *Container) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Service returns the catalog service.
func (c *Container) Service() *service.Service { return c.service }

// Store returns the backing store selected by the configured driver.
func (c *Container) Store() store.Store { return c.store }

// Caches returns the read-through caches shared with the service.
func (c *Container) Caches() *catalogcache.Caches { return c.caches }

// Logger returns the root logger.
func (c *Container) Logger() zerolog.Logger { return c.logger }

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() config.Config { return c.config }

// Collector exports the cache statistics under namespace.
func (c *Container) Collector(namespace string) *cache.Collector {
	return c.caches.Collector(namespace)
}
