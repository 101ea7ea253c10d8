package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/utafrali/storefront/pkg/config"
	"github.com/utafrali/storefront/pkg/middleware"
)

// Local review store backends.
const (
	LocalStoreRedis  = "redis"
	LocalStoreMemory = "memory"
)

// Product catalog backends.
const (
	ProductSourceMemory   = "memory"
	ProductSourcePostgres = "postgres"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Remote review document
	RemoteURL        string        `env:"REMOTE_URL" envDefault:"https://zzzmini.github.io/js/shoesReview.json"`
	RemoteTimeout    time.Duration `env:"REMOTE_TIMEOUT" envDefault:"30s"`
	RemoteRenderWait time.Duration `env:"REMOTE_RENDER_WAIT" envDefault:"3s"`
	RemoteMaxRetries int           `env:"REMOTE_MAX_RETRIES" envDefault:"0"`

	// Local review store
	LocalStore string `env:"LOCAL_STORE" envDefault:"redis"`
	RedisAddr  string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass  string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB    int    `env:"REDIS_DB" envDefault:"0"`

	// Review submissions per client IP; 0 disables the limit.
	SubmitRateLimit float64 `env:"SUBMIT_RATE_LIMIT" envDefault:"0.2"`
	SubmitRateBurst int     `env:"SUBMIT_RATE_BURST" envDefault:"5"`

	// Proxies allowed to name the client in X-Forwarded-For / X-Real-IP.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Product catalog
	ProductSource string `env:"PRODUCT_SOURCE" envDefault:"memory"`
	CatalogFile   string `env:"CATALOG_FILE" envDefault:""`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"storefront"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"storefront_secret"`
	PostgresDB   string `env:"STOREFRONT_DB_NAME" envDefault:"storefront_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	u, err := url.Parse(c.RemoteURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("REMOTE_URL must be an absolute http(s) URL, got %q", c.RemoteURL)
	}
	if c.RemoteTimeout < 0 {
		return fmt.Errorf("REMOTE_TIMEOUT must not be negative, got %s", c.RemoteTimeout)
	}
	if c.RemoteRenderWait <= 0 {
		return fmt.Errorf("REMOTE_RENDER_WAIT must be positive, got %s", c.RemoteRenderWait)
	}
	if c.RemoteMaxRetries < 0 {
		return fmt.Errorf("REMOTE_MAX_RETRIES must not be negative, got %d", c.RemoteMaxRetries)
	}

	if c.SubmitRateLimit < 0 {
		return fmt.Errorf("SUBMIT_RATE_LIMIT must not be negative, got %f", c.SubmitRateLimit)
	}
	if c.SubmitRateLimit > 0 && c.SubmitRateBurst < 1 {
		return fmt.Errorf("SUBMIT_RATE_BURST must be at least 1, got %d", c.SubmitRateBurst)
	}
	if _, err := middleware.ParseTrustedProxies(c.TrustedProxies); err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	switch c.LocalStore {
	case LocalStoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when LOCAL_STORE=redis")
		}
	case LocalStoreMemory:
	default:
		return fmt.Errorf("LOCAL_STORE must be %q or %q, got %q", LocalStoreRedis, LocalStoreMemory, c.LocalStore)
	}

	switch c.ProductSource {
	case ProductSourcePostgres:
		if c.PostgresHost == "" {
			return fmt.Errorf("POSTGRES_HOST is required when PRODUCT_SOURCE=postgres")
		}
		if c.PostgresUser == "" {
			return fmt.Errorf("POSTGRES_USER is required when PRODUCT_SOURCE=postgres")
		}
	case ProductSourceMemory:
	default:
		return fmt.Errorf("PRODUCT_SOURCE must be %q or %q, got %q", ProductSourceMemory, ProductSourcePostgres, c.ProductSource)
	}

	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}
