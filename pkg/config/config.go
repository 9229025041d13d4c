package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Store   StoreConfig
	Receipt ReceiptConfig
	Catalog CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TALLYPOS_APP_ENV" default:"development"`
	Port         string `envconfig:"TALLYPOS_APP_PORT" default:"8321"`
	LogLevel     string `envconfig:"TALLYPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TALLYPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type BackendConfig struct {
	BaseURL        string `envconfig:"TALLYPOS_BACKEND_URL" default:"http://localhost:3000"`
	TimeoutSeconds int    `envconfig:"TALLYPOS_BACKEND_TIMEOUT_SECONDS" default:"15"`
}

func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

func (b BackendConfig) validate() error {
	parsed, err := url.Parse(b.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid backend url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("backend url must be http or https, got %q", b.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("backend url must include a host")
	}
	return nil
}

type StoreConfig struct {
	Path string `envconfig:"TALLYPOS_STORE_PATH" default:"tallypos-terminal.db"`
}

type ReceiptConfig struct {
	StoreName string `envconfig:"TALLYPOS_RECEIPT_STORE_NAME" default:"TALLY POS"`
	TagLine   string `envconfig:"TALLYPOS_RECEIPT_TAGLINE" default:"Point of Sale System"`
}

type CatalogConfig struct {
	DebounceMillis int `envconfig:"TALLYPOS_CATALOG_DEBOUNCE_MS" default:"300"`
}

func (c CatalogConfig) Debounce() time.Duration {
	if c.DebounceMillis <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(c.DebounceMillis) * time.Millisecond
}
