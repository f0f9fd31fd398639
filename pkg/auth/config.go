package auth

import (
	"fmt"
	"os"
)

const (
	firebaseIssuerBase = "https://securetoken.google.com/"
	firebaseJWKSURL    = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
)

// Config identifies the token issuer and where its signing keys are published.
// Setting ProjectID derives Issuer, Audience, and JWKSURL for a Firebase
// Authentication project when they are not given explicitly.
type Config struct {
	Issuer    string `toml:"issuer"`
	Audience  string `toml:"audience"`
	JWKSURL   string `toml:"jwks_url"`
	ProjectID string `toml:"project_id"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Issuer    string
	Audience  string
	JWKSURL   string
	ProjectID string
}

// Finalize applies environment variable overrides, derives provider defaults, and validates.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	c.loadDefaults()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.Audience != "" {
		c.Audience = overlay.Audience
	}
	if overlay.JWKSURL != "" {
		c.JWKSURL = overlay.JWKSURL
	}
	if overlay.ProjectID != "" {
		c.ProjectID = overlay.ProjectID
	}
}

func (c *Config) loadDefaults() {
	if c.ProjectID == "" {
		return
	}
	if c.Issuer == "" {
		c.Issuer = firebaseIssuerBase + c.ProjectID
	}
	if c.Audience == "" {
		c.Audience = c.ProjectID
	}
	if c.JWKSURL == "" {
		c.JWKSURL = firebaseJWKSURL
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.Audience != "" {
		if v := os.Getenv(env.Audience); v != "" {
			c.Audience = v
		}
	}
	if env.JWKSURL != "" {
		if v := os.Getenv(env.JWKSURL); v != "" {
			c.JWKSURL = v
		}
	}
	if env.ProjectID != "" {
		if v := os.Getenv(env.ProjectID); v != "" {
			c.ProjectID = v
		}
	}
}

func (c *Config) validate() error {
	if c.Issuer == "" {
		return fmt.Errorf("issuer required (or project_id)")
	}
	if c.Audience == "" {
		return fmt.Errorf("audience required (or project_id)")
	}
	return nil
}
