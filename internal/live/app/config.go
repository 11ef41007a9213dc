package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Token store drivers.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// DefaultCatalogURL is the production events API.
const DefaultCatalogURL = "https://bndy.live"

type Config struct {
	// Environment (dev, staging, prod)
	Env string `env:"ENV" envDefault:"dev"`
	// Log level (debug, info, warn, error)
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// Log format (json, text)
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	AuthURL  string `env:"LIVE_AUTH_URL" envDefault:"https://bndy.co.uk"`
	TokenKey string `env:"LIVE_AUTH_TOKEN_KEY" envDefault:"bndy_auth_token"`

	// Loopback listener the hub redirects back to
	CallbackAddr string        `env:"LIVE_CALLBACK_ADDR" envDefault:"127.0.0.1:8976"`
	LoginTimeout time.Duration `env:"LIVE_LOGIN_TIMEOUT" envDefault:"5m"`

	// Token store driver (sqlite, redis, memory)
	Store        string      `env:"LIVE_STORE" envDefault:"sqlite"`
	DatabaseFile string      `env:"LIVE_DATABASE_FILE" envDefault:"live.db"`
	Redis        RedisConfig `envPrefix:"LIVE_REDIS_"`
	// Optional: seal the stored token with a key derived from this file
	MasterKeyPath string `env:"LIVE_MASTER_KEY_PATH"`

	CatalogURL string       `env:"LIVE_CATALOG_URL" envDefault:"https://bndy.live"`
	Places     PlacesConfig `envPrefix:"LIVE_PLACES_"`

	HTTPTimeout         time.Duration `env:"LIVE_HTTP_TIMEOUT" envDefault:"10s"`
	RefreshLead         time.Duration `env:"LIVE_REFRESH_LEAD" envDefault:"5m"`
	KeepaliveInterval   time.Duration `env:"LIVE_KEEPALIVE_INTERVAL" envDefault:"1m"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"5s"`
}

type RedisConfig struct {
	Addrs    []string `env:"ADDRS" envSeparator:"," envDefault:"localhost:6379"`
	Password string   `env:"PASSWORD"`
	DB       int      `env:"DB" envDefault:"0"`
	Prefix   string   `env:"PREFIX" envDefault:"bndylive:"`
}

type PlacesConfig struct {
	APIKey  string `env:"API_KEY"`
	Country string `env:"COUNTRY" envDefault:"gb"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	return parseConfig(env.Options{})
}

// ParseConfig builds a Config from environ alone, ignoring the process
// environment.
func ParseConfig(environ map[string]string) (Config, error) {
	return parseConfig(env.Options{Environment: environ})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Sanitize applies guardrails to values loaded from env.
func (c *Config) Sanitize() {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	c.AuthURL = strings.TrimSuffix(strings.TrimSpace(c.AuthURL), "/")
	c.CatalogURL = strings.TrimSuffix(strings.TrimSpace(c.CatalogURL), "/")
	c.Places.Country = strings.ToLower(strings.TrimSpace(c.Places.Country))

	if c.TokenKey == "" {
		c.TokenKey = "bndy_auth_token"
	}
	if c.CatalogURL == "" {
		c.CatalogURL = DefaultCatalogURL
	}
	if c.Places.Country == "" {
		c.Places.Country = "gb"
	}

	c.LoginTimeout = atLeast(c.LoginTimeout, 5*time.Minute)
	c.HTTPTimeout = atLeast(c.HTTPTimeout, 10*time.Second)
	c.RefreshLead = atLeast(c.RefreshLead, 5*time.Minute)
	c.KeepaliveInterval = atLeast(c.KeepaliveInterval, time.Minute)
	c.ShutdownGracePeriod = atLeast(c.ShutdownGracePeriod, 5*time.Second)

	addrs := c.Redis.Addrs[:0]
	for _, a := range c.Redis.Addrs {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	c.Redis.Addrs = addrs
}

// Validate reports settings the application cannot start with.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite:
		if c.DatabaseFile == "" {
			return errors.New("LIVE_DATABASE_FILE is required for the sqlite store")
		}
	case StoreRedis:
		if len(c.Redis.Addrs) == 0 {
			return errors.New("LIVE_REDIS_ADDRS is required for the redis store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown LIVE_STORE %q", c.Store)
	}

	for name, raw := range map[string]string{"LIVE_AUTH_URL": c.AuthURL, "LIVE_CATALOG_URL": c.CatalogURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	return nil
}

// non-positive durations fall back to def
func atLeast(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
