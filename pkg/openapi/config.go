package openapi

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config holds OpenAPI metadata for spec generation.
//
// PublicURL is the externally reachable origin of the service, for
// deployments behind a proxy that rewrites the host. When empty the
// document advertises the API base path relative to whatever host served it.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	PublicURL   string `toml:"public_url"`
}

// ConfigEnv maps config fields to environment variable names for override injection.
type ConfigEnv struct {
	Title       string
	Description string
	PublicURL   string
}

// Finalize applies defaults and environment variable overrides, then
// validates PublicURL.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.PublicURL != "" {
		c.PublicURL = overlay.PublicURL
	}
}

// ServerURL returns the server entry advertised for an API mounted at basePath.
func (c *Config) ServerURL(basePath string) string {
	if c.PublicURL == "" {
		return basePath
	}
	return strings.TrimSuffix(c.PublicURL, "/") + basePath
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Redline API"
	}
	if c.Description == "" {
		c.Description = "Contract review service comparing a candidate contract against a master agreement."
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	if env.Title != "" {
		if v := os.Getenv(env.Title); v != "" {
			c.Title = v
		}
	}
	if env.Description != "" {
		if v := os.Getenv(env.Description); v != "" {
			c.Description = v
		}
	}
	if env.PublicURL != "" {
		if v := os.Getenv(env.PublicURL); v != "" {
			c.PublicURL = v
		}
	}
}

func (c *Config) validate() error {
	if c.PublicURL == "" {
		return nil
	}
	u, err := url.Parse(c.PublicURL)
	if err != nil {
		return fmt.Errorf("invalid public_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("public_url %q must be an absolute http or https URL", c.PublicURL)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("public_url %q must not carry a query or fragment", c.PublicURL)
	}
	return nil
}
