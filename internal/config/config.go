package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDev  = "dev"
	EnvProd = "production"

	StoreSQLite = "sqlite"
	StoreRedis  = "redis"

	// DevSessionSecret signs admin cookies when no secret is configured outside production.
	DevSessionSecret = "dev-only-secret-change-me"
)

type Config struct {
	Env      string `envconfig:"KALAUR_ENV" default:"dev"`
	Port     string `envconfig:"KALAUR_PORT" default:"8081"`
	DBDSN    string `envconfig:"KALAUR_DB_DSN" default:"kalaur.db"`
	LogFile  string `envconfig:"KALAUR_LOG_FILE"`
	LogLevel string `envconfig:"KALAUR_LOG_LEVEL" default:"info"`
	// json or console
	LogFormat string `envconfig:"KALAUR_LOG_FORMAT" default:"json"`
	BodyLimit int    `envconfig:"KALAUR_BODY_LIMIT" default:"1048576"`

	AdminUsername     string `envconfig:"KALAUR_ADMIN_USERNAME" default:"admi"`
	AdminPassword     string `envconfig:"KALAUR_ADMIN_PASSWORD" default:"admin"`
	AdminPasswordHash string `envconfig:"KALAUR_ADMIN_PASSWORD_HASH"`
	SessionSecret     string `envconfig:"KALAUR_ADMIN_SESSION_SECRET"`

	StripeSecretKey string `envconfig:"KALAUR_STRIPE_SECRET_KEY"`
	Currency        string `envconfig:"KALAUR_CURRENCY" default:"uah"`
	PublicOrigin    string `envconfig:"KALAUR_PUBLIC_ORIGIN" default:"http://localhost:5173"`

	NovaPoshtaAPIKey string        `envconfig:"KALAUR_NOVA_POSHTA_API_KEY"`
	NovaPoshtaURL    string        `envconfig:"KALAUR_NOVA_POSHTA_URL" default:"https://api.novaposhta.ua/v2.0/json/"`
	UpstreamTimeout  time.Duration `envconfig:"KALAUR_UPSTREAM_TIMEOUT" default:"10s"`

	OverrideStore string `envconfig:"KALAUR_OVERRIDE_STORE" default:"sqlite"`
	RedisURL      string `envconfig:"KALAUR_REDIS_URL"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded: %v", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.OverrideStore = strings.ToLower(strings.TrimSpace(cfg.OverrideStore))
	if cfg.Env == "" {
		cfg.Env = EnvDev
	}
	if cfg.OverrideStore == "" {
		cfg.OverrideStore = StoreSQLite
	}
	cfg.PublicOrigin = strings.TrimRight(strings.TrimSpace(cfg.PublicOrigin), "/")
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	log.Printf("[config] ENV=%s PORT=%s DB_DSN=%s OVERRIDE_STORE=%s stripe=%t nova_poshta=%t",
		cfg.Env, cfg.Port, cfg.DBDSN, cfg.OverrideStore, cfg.StripeSecretKey != "", cfg.NovaPoshtaAPIKey != "")
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.OverrideStore {
	case StoreSQLite:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("KALAUR_REDIS_URL is required when KALAUR_OVERRIDE_STORE=%s", StoreRedis)
		}
	default:
		return fmt.Errorf("unknown override store %q", c.OverrideStore)
	}
	return nil
}

func (c Config) IsProd() bool {
	return strings.EqualFold(c.Env, EnvProd)
}

// SigningSecret returns the admin session secret. Outside production an
// empty secret falls back to DevSessionSecret; in production it stays empty
// and admin login reports "not configured".
func (c Config) SigningSecret() string {
	if c.SessionSecret != "" || c.IsProd() {
		return c.SessionSecret
	}
	return DevSessionSecret
}
