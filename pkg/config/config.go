// Package config loads showcase-engine configuration from config.yaml with
// environment variable overrides. Secrets only come from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for showcase-engine.
// Environment variables always override YAML values for fields that support
// both. Secrets (database password, token secret, session secret) must only
// come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Uploads configuration (project files and resumes)
	Uploads UploadsConfig `yaml:"uploads"`

	// RateLimit configuration for write-heavy public endpoints
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// MigrationsPath is the directory containing SQL migration files.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// TokenSecret signs access tokens (HS256). Server refuses to start
	// without it outside local environments.
	TokenSecret string `yaml:"-" env:"AUTH_TOKEN_SECRET"` // Secret - not in YAML

	// SessionSecret signs the browser session cookie.
	SessionSecret string `yaml:"-" env:"AUTH_SESSION_SECRET"` // Secret - not in YAML

	// TokenTTL is how long issued access tokens remain valid.
	TokenTTL time.Duration `yaml:"token_ttl" env:"AUTH_TOKEN_TTL" env-default:"24h"`

	// CookieSecure marks the session cookie HTTPS-only.
	CookieSecure bool `yaml:"cookie_secure" env:"AUTH_COOKIE_SECURE" env-default:"false"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"showcase"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"showcase_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`

	// MaxConnLifetime recycles connections so long-lived pools pick up
	// failovers; MaxConnIdleTime trims the pool between traffic bursts.
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"PGMAX_CONN_LIFETIME" env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"PGMAX_CONN_IDLE_TIME" env-default:"30m"`
}

// UploadsConfig holds file upload settings.
type UploadsConfig struct {
	// Dir is where uploaded project files and resumes are stored.
	Dir string `yaml:"dir" env:"UPLOADS_DIR" env-default:"uploads"`

	// MaxFiles caps the number of files accepted per project submission.
	MaxFiles int `yaml:"max_files" env:"UPLOADS_MAX_FILES" env-default:"10"`

	// MaxBytes caps the in-memory multipart parse size per request.
	MaxBytes int64 `yaml:"max_bytes" env:"UPLOADS_MAX_BYTES" env-default:"33554432"`
}

// RateLimitConfig holds per-client rate limit settings for vote, comment and
// auth endpoints.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained per-client rate.
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"RATE_LIMIT_RPS" env-default:"5"`

	// Burst is the per-client burst allowance.
	Burst int `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"10"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on the
// returned Config. If config.yaml does not exist, configuration comes from
// the environment alone.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces settings that must hold outside local development.
func (c *Config) validate() error {
	if c.Env != "local" {
		if c.Auth.TokenSecret == "" {
			return fmt.Errorf("AUTH_TOKEN_SECRET must be set when environment is %q", c.Env)
		}
		if c.Auth.SessionSecret == "" {
			return fmt.Errorf("AUTH_SESSION_SECRET must be set when environment is %q", c.Env)
		}
	}

	if c.Uploads.MaxFiles <= 0 {
		return fmt.Errorf("uploads.max_files must be positive, got %d", c.Uploads.MaxFiles)
	}

	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// URL returns a PostgreSQL connection URL for pool construction.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}
