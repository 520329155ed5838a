package di

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-catalog-cache/internal/config"
	"github.com/goliatone/go-catalog-cache/pkg/testsupport"
	"github.com/goliatone/go-catalog-cache/store/bunstore"
	"github.com/goliatone/go-catalog-cache/store/memory"
)

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults(context.Background())
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}
	defer container.Close()

	if container.Service() == nil {
		t.Error("Container should have a non-nil service")
	}
	if container.Caches() == nil {
		t.Error("Container should have non-nil caches")
	}
	if _, ok := container.Store().(*memory.Store); !ok {
		t.Errorf("expected memory store, got %T", container.Store())
	}

	cfg := container.Config()
	if cfg.Store.Driver != config.DriverMemory {
		t.Errorf("Expected driver %q, got %q", config.DriverMemory, cfg.Store.Driver)
	}
	if cfg.Cache.All.Capacity != 1 {
		t.Errorf("Expected all-items capacity 1, got %d", cfg.Cache.All.Capacity)
	}
}

func TestNewContainer_SQLite(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Driver = config.DriverSQLite
	cfg.Store.DSN = testsupport.SQLiteDSN(t)

	container, err := NewContainer(context.Background(), cfg, WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	defer container.Close()

	if _, ok := container.Store().(*bunstore.Store); !ok {
		t.Errorf("expected bun store, got %T", container.Store())
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "unknown driver", mutate: func(c *config.Config) { c.Store.Driver = "oracle" }},
		{name: "missing dsn", mutate: func(c *config.Config) { c.Store.Driver = config.DriverPostgres }},
		{name: "zero ttl", mutate: func(c *config.Config) { c.Cache.ByPublicID.TTL = 0 }},
		{name: "unknown backend", mutate: func(c *config.Config) { c.Cache.All.Backend = "memcached" }},
		{name: "batch concurrency", mutate: func(c *config.Config) { c.Service.BatchConcurrency = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := NewContainer(context.Background(), cfg); err == nil {
				t.Error("NewContainer() should fail")
			}
		})
	}
}

func TestNewContainer_UnreachableDatabase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Driver = config.DriverSQLite
	cfg.Store.DSN = "file:" + t.TempDir() + "/missing/dir/catalog.db?mode=ro"

	if _, err := NewContainer(context.Background(), cfg); err == nil {
		t.Error("NewContainer() should fail when the database cannot be opened")
	}
}

func TestContainer_Seed(t *testing.T) {
	ctx := context.Background()

	cfg := DefaultConfig()
	container, err := NewContainer(ctx, cfg, WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	n, err := container.Seed(ctx)
	if err != nil || n != 0 {
		t.Fatalf("Seed() with seeding disabled = (%d, %v), want (0, nil)", n, err)
	}

	cfg.Seed.Enabled = true
	cfg.Seed.Count = 5
	var logs bytes.Buffer
	container, err = NewContainer(ctx, cfg, WithLogger(zerolog.New(&logs)))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	n, err = container.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}
	if n != 5 {
		t.Errorf("Seed() created %d items, want 5", n)
	}
	if !bytes.Contains(logs.Bytes(), []byte(`"component":"seed"`)) {
		t.Error("seed logs should carry the component field")
	}
}

func TestContainer_Collector(t *testing.T) {
	container, err := NewContainerWithDefaults(context.Background())
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}
	if container.Collector("catalog") == nil {
		t.Error("Collector() returned nil")
	}
}

func TestDefaultConfig_MatchesLoad(t *testing.T) {
	loaded, err := config.Load(config.WithEnvFiles())
	if err != nil {
		t.Fatalf("config.Load() failed: %v", err)
	}
	defaults := DefaultConfig()

	if loaded.Cache.ByPublicID != defaults.Cache.ByPublicID {
		t.Errorf("by_public_id defaults differ: %+v vs %+v", loaded.Cache.ByPublicID, defaults.Cache.ByPublicID)
	}
	if loaded.Cache.All.TTL != 5*time.Minute || defaults.Cache.All.TTL != 5*time.Minute {
		t.Error("all-items TTL default should be 5m")
	}
	if loaded.Service != defaults.Service {
		t.Errorf("service defaults differ: %+v vs %+v", loaded.Service, defaults.Service)
	}
}
