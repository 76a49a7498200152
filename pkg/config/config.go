package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App     AppConfig
	Redis   RedisConfig
	Catalog CatalogConfig
	Cache   CacheConfig
	Cart    CartConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.Cart.ParsedTaxRate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DUKAPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"DUKAPOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DUKAPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DUKAPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"DUKAPOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DUKAPOS_REDIS_ADDR"`
	Password     string        `envconfig:"DUKAPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"DUKAPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DUKAPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DUKAPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DUKAPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DUKAPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DUKAPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CatalogConfig points at the upstream commerce REST API.
type CatalogConfig struct {
	BaseURL        string        `envconfig:"DUKAPOS_CATALOG_BASE_URL" required:"true"`
	ConsumerKey    string        `envconfig:"DUKAPOS_CATALOG_CONSUMER_KEY" required:"true"`
	ConsumerSecret string        `envconfig:"DUKAPOS_CATALOG_CONSUMER_SECRET" required:"true"`
	Timeout        time.Duration `envconfig:"DUKAPOS_CATALOG_TIMEOUT" default:"10s"`
}

type CacheConfig struct {
	TTL time.Duration `envconfig:"DUKAPOS_CACHE_TTL" default:"5m"`
}

type CartConfig struct {
	StorageKey string `envconfig:"DUKAPOS_CART_STORAGE_KEY" default:"cart"`
	TaxRate    string `envconfig:"DUKAPOS_CART_TAX_RATE" default:"0.15"`
}

// ParsedTaxRate returns the presentation-layer tax rate as a decimal.
func (c CartConfig) ParsedTaxRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.TaxRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s: %w", EnvCartTaxRate, err)
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must be non-negative", EnvCartTaxRate)
	}
	return rate, nil
}
