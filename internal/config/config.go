// Package config loads the service configuration from TOML files and
// REDLINE_ environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/redline/pkg/audit"
	"github.com/JaimeStill/redline/pkg/auth"
	"github.com/JaimeStill/redline/pkg/database"
	"github.com/JaimeStill/redline/pkg/inference"
	"github.com/JaimeStill/redline/pkg/ratelimit"
	"github.com/JaimeStill/redline/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvRedlineEnv             = "REDLINE_ENV"
	EnvRedlineShutdownTimeout = "REDLINE_SHUTDOWN_TIMEOUT"
	EnvRedlineVersion         = "REDLINE_VERSION"
)

var databaseEnv = &database.Env{
	URL:             "REDLINE_DB_URL",
	Host:            "REDLINE_DB_HOST",
	Port:            "REDLINE_DB_PORT",
	Name:            "REDLINE_DB_NAME",
	User:            "REDLINE_DB_USER",
	Password:        "REDLINE_DB_PASSWORD",
	SSLMode:         "REDLINE_DB_SSL_MODE",
	MaxOpenConns:    "REDLINE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "REDLINE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "REDLINE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "REDLINE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "REDLINE_STORAGE_PROVIDER",
	Path:             "REDLINE_STORAGE_PATH",
	ContainerName:    "REDLINE_STORAGE_CONTAINER_NAME",
	ConnectionString: "REDLINE_STORAGE_CONNECTION_STRING",
	ServiceURL:       "REDLINE_STORAGE_SERVICE_URL",
}

var authEnv = &auth.Env{
	Issuer:    "REDLINE_AUTH_ISSUER",
	Audience:  "REDLINE_AUTH_AUDIENCE",
	JWKSURL:   "REDLINE_AUTH_JWKS_URL",
	ProjectID: "REDLINE_AUTH_PROJECT_ID",
}

var auditEnv = &audit.Env{
	Path: "REDLINE_AUDIT_PATH",
}

var modelEnv = &inference.Env{
	Provider:       "REDLINE_MODEL_PROVIDER",
	APIKey:         "REDLINE_MODEL_API_KEY",
	APIKeyFallback: "GEMINI_API_KEY",
	Name:           "REDLINE_MODEL_NAME",
	BaseURL:        "REDLINE_MODEL_BASE_URL",
	Timeout:        "REDLINE_MODEL_TIMEOUT",
	MaxConcurrent:  "REDLINE_MODEL_MAX_CONCURRENT",
}

var rateLimitEnv = &ratelimit.Env{
	Enabled:        "REDLINE_RATELIMIT_ENABLED",
	Addr:           "REDLINE_REDIS_ADDR",
	Password:       "REDLINE_REDIS_PASSWORD",
	DB:             "REDLINE_REDIS_DB",
	Prefix:         "REDLINE_RATELIMIT_PREFIX",
	Capacity:       "REDLINE_RATELIMIT_CAPACITY",
	RefillTokens:   "REDLINE_RATELIMIT_REFILL_TOKENS",
	RefillInterval: "REDLINE_RATELIMIT_REFILL_INTERVAL",
	TTL:            "REDLINE_RATELIMIT_TTL",
}

// Config is the root configuration for the Redline service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	API             APIConfig        `toml:"api"`
	Auth            auth.Config      `toml:"auth"`
	Audit           audit.Config     `toml:"audit"`
	Model           inference.Config `toml:"model"`
	RateLimit       ratelimit.Config `toml:"ratelimit"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the REDLINE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvRedlineEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Auth.Merge(&overlay.Auth)
	c.Audit.Merge(&overlay.Audit)
	c.Model.Merge(&overlay.Model)
	c.RateLimit.Merge(&overlay.RateLimit)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	for _, section := range []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"auth", func() error { return c.Auth.Finalize(authEnv) }},
		{"audit", func() error { return c.Audit.Finalize(auditEnv) }},
		{"model", func() error { return c.Model.Finalize(modelEnv) }},
		{"ratelimit", func() error { return c.RateLimit.Finalize(rateLimitEnv) }},
	} {
		if err := section.finalize(); err != nil {
			return fmt.Errorf("%s: %w", section.name, err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvRedlineShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvRedlineVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvRedlineEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
