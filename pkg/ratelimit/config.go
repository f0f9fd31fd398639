package ratelimit

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the Redis connection and token bucket parameters.
// A bucket holds Capacity tokens and regains RefillTokens every RefillInterval.
type Config struct {
	Enabled        bool   `toml:"enabled"`
	Addr           string `toml:"addr"`
	Password       string `toml:"password"`
	DB             int    `toml:"db"`
	Prefix         string `toml:"prefix"`
	Capacity       int    `toml:"capacity"`
	RefillTokens   int    `toml:"refill_tokens"`
	RefillInterval string `toml:"refill_interval"`
	TTL            string `toml:"ttl"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled        string
	Addr           string
	Password       string
	DB             string
	Prefix         string
	Capacity       string
	RefillTokens   string
	RefillInterval string
	TTL            string
}

// RefillIntervalDuration returns RefillInterval as a time.Duration.
func (c *Config) RefillIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.RefillInterval)
	return d
}

// TTLDuration returns TTL as a time.Duration.
func (c *Config) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields from overlay. Enabled always applies; other fields
// only apply when non-zero.
func (c *Config) Merge(overlay *Config) {
	c.Enabled = overlay.Enabled
	if overlay.Addr != "" {
		c.Addr = overlay.Addr
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.DB != 0 {
		c.DB = overlay.DB
	}
	if overlay.Prefix != "" {
		c.Prefix = overlay.Prefix
	}
	if overlay.Capacity != 0 {
		c.Capacity = overlay.Capacity
	}
	if overlay.RefillTokens != 0 {
		c.RefillTokens = overlay.RefillTokens
	}
	if overlay.RefillInterval != "" {
		c.RefillInterval = overlay.RefillInterval
	}
	if overlay.TTL != "" {
		c.TTL = overlay.TTL
	}
}

func (c *Config) loadDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.Prefix == "" {
		c.Prefix = "redline:rl"
	}
	if c.Capacity == 0 {
		c.Capacity = 10
	}
	if c.RefillTokens == 0 {
		c.RefillTokens = 1
	}
	if c.RefillInterval == "" {
		c.RefillInterval = "30s"
	}
	if c.TTL == "" {
		c.TTL = "10m"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.Enabled = b
			}
		}
	}
	if env.Addr != "" {
		if v := os.Getenv(env.Addr); v != "" {
			c.Addr = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.DB != "" {
		if v := os.Getenv(env.DB); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.DB = n
			}
		}
	}
	if env.Prefix != "" {
		if v := os.Getenv(env.Prefix); v != "" {
			c.Prefix = v
		}
	}
	if env.Capacity != "" {
		if v := os.Getenv(env.Capacity); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Capacity = n
			}
		}
	}
	if env.RefillTokens != "" {
		if v := os.Getenv(env.RefillTokens); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.RefillTokens = n
			}
		}
	}
	if env.RefillInterval != "" {
		if v := os.Getenv(env.RefillInterval); v != "" {
			c.RefillInterval = v
		}
	}
	if env.TTL != "" {
		if v := os.Getenv(env.TTL); v != "" {
			c.TTL = v
		}
	}
}

func (c *Config) validate() error {
	if c.Capacity < 1 {
		return fmt.Errorf("capacity must be at least 1")
	}
	if c.RefillTokens < 1 {
		return fmt.Errorf("refill_tokens must be at least 1")
	}
	interval, err := time.ParseDuration(c.RefillInterval)
	if err != nil || interval <= 0 {
		return fmt.Errorf("invalid refill_interval: %s", c.RefillInterval)
	}
	ttl, err := time.ParseDuration(c.TTL)
	if err != nil {
		return fmt.Errorf("invalid ttl: %w", err)
	}
	if ttl < 5*interval {
		c.TTL = (5 * interval).String()
	}
	return nil
}
