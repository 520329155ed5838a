package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/catalogcache"
)

// EnvPrefix is prepended to every environment variable, e.g. CATALOG_STORE_DSN.
const EnvPrefix = "CATALOG"

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Store   StoreConfig   `mapstructure:"store"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Service ServiceConfig `mapstructure:"service"`
	Seed    SeedConfig    `mapstructure:"seed"`
}

type AppConfig struct {
	Env       string `mapstructure:"env"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

type StoreConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	CreateSchema bool   `mapstructure:"create_schema"`
}

type CacheConfig struct {
	Redis      RedisConfig  `mapstructure:"redis"`
	ByPublicID CacheSection `mapstructure:"by_public_id"`
	ByIndustry CacheSection `mapstructure:"by_industry"`
	All        CacheSection `mapstructure:"all"`
}

// CacheSection configures one named cache.
type CacheSection struct {
	Backend            string        `mapstructure:"backend"`
	Capacity           int           `mapstructure:"capacity"`
	TTL                time.Duration `mapstructure:"ttl"`
	Shards             int           `mapstructure:"shards"`
	EvictionPercentage int           `mapstructure:"eviction_percentage"`
}

// RedisConfig is shared by every cache using the redis backend.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type ServiceConfig struct {
	BatchConcurrency   int `mapstructure:"batch_concurrency"`
	ShortTextThreshold int `mapstructure:"short_text_threshold"`
}

type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Count   int  `mapstructure:"count"`
}

type loadOptions struct {
	configFile string
	envFiles   []string
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithConfigFile reads settings from path instead of searching for
// catalog.yaml in ./config and the working directory.
func WithConfigFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.configFile = path
	}
}

// WithEnvFiles replaces the default ".env" file list. Missing files are
// skipped.
func WithEnvFiles(paths ...string) LoadOption {
	return func(o *loadOptions) {
		o.envFiles = paths
	}
}

// Load reads configuration from defaults, an optional YAML file and CATALOG_*
// environment variables, in increasing precedence. Variables from .env files
// are loaded first and never override the real environment.
func Load(opts ...LoadOption) (*Config, error) {
	o := loadOptions{envFiles: []string{".env"}}
	for _, opt := range opts {
		opt(&o)
	}

	for _, f := range o.envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
	} else {
		v.SetConfigName("catalog")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional unless named explicitly
		var notFound viper.ConfigFileNotFoundError
		if o.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "console")

	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.create_schema", true)

	v.SetDefault("cache.redis.addr", "")
	v.SetDefault("cache.redis.username", "")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.key_prefix", "catalog:")

	sections := map[string]int{
		"by_public_id": 10000,
		"by_industry":  1000,
		"all":          1,
	}
	for name, capacity := range sections {
		prefix := "cache." + name + "."
		v.SetDefault(prefix+"backend", string(cache.BackendLRU))
		v.SetDefault(prefix+"capacity", capacity)
		v.SetDefault(prefix+"ttl", "5m")
		v.SetDefault(prefix+"shards", 64)
		v.SetDefault(prefix+"eviction_percentage", 10)
	}

	v.SetDefault("service.batch_concurrency", 8)
	v.SetDefault("service.short_text_threshold", 3)

	v.SetDefault("seed.enabled", false)
	v.SetDefault("seed.count", 50)
}

// Validate checks every section.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.App),
		validation.Field(&c.Store),
		validation.Field(&c.Cache),
		validation.Field(&c.Service),
		validation.Field(&c.Seed),
	)
}

func (c AppConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.LogFormat, validation.In("json", "console")),
	)
}

func (c StoreConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverMemory, DriverSQLite, DriverPostgres, DriverPgx)),
		validation.Field(&c.DSN, validation.When(c.Driver != DriverMemory, validation.Required)),
	)
}

func (c CacheConfig) Validate() error {
	return c.Catalog().Validate()
}

func (c ServiceConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BatchConcurrency, validation.Required, validation.Min(1)),
		validation.Field(&c.ShortTextThreshold, validation.Min(0)),
	)
}

func (c SeedConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Count, validation.Min(0)),
	)
}

// Catalog converts the cache sections to the named cache configuration.
func (c CacheConfig) Catalog() catalogcache.Config {
	return catalogcache.Config{
		ByPublicID: c.section(c.ByPublicID),
		ByIndustry: c.section(c.ByIndustry),
		All:        c.section(c.All),
	}
}

func (c CacheConfig) section(s CacheSection) cache.Config {
	cfg := cache.Config{
		Backend:            cache.Backend(s.Backend),
		Capacity:           s.Capacity,
		TTL:                s.TTL,
		NumShards:          s.Shards,
		EvictionPercentage: s.EvictionPercentage,
	}
	if cfg.Backend == cache.BackendRedis {
		cfg.Redis = &cache.RedisConfig{
			Addr:      c.Redis.Addr,
			Username:  c.Redis.Username,
			Password:  c.Redis.Password,
			DB:        c.Redis.DB,
			KeyPrefix: c.Redis.KeyPrefix,
		}
	}
	return cfg
}
