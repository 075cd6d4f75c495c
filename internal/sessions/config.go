package sessions

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"
)

// Config holds session binding and retention settings.
type Config struct {
	CookieName   string `toml:"cookie_name"`
	IdleTimeout  string `toml:"idle_timeout"`
	SecureCookie bool   `toml:"secure_cookie"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	CookieName   string
	IdleTimeout  string
	SecureCookie string
}

// IdleTimeoutDuration returns IdleTimeout as a time.Duration.
func (c *Config) IdleTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.IdleTimeout)
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

// Merge overwrites non-zero fields from overlay. SecureCookie always applies.
func (c *Config) Merge(overlay *Config) {
	if overlay.CookieName != "" {
		c.CookieName = overlay.CookieName
	}
	if overlay.IdleTimeout != "" {
		c.IdleTimeout = overlay.IdleTimeout
	}
	c.SecureCookie = overlay.SecureCookie
}

func (c *Config) loadDefaults() {
	if c.CookieName == "" {
		c.CookieName = "stagehand_session"
	}
	if c.IdleTimeout == "" {
		c.IdleTimeout = "2h"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.CookieName != "" {
		if v := os.Getenv(env.CookieName); v != "" {
			c.CookieName = v
		}
	}
	if env.IdleTimeout != "" {
		if v := os.Getenv(env.IdleTimeout); v != "" {
			c.IdleTimeout = v
		}
	}
	if env.SecureCookie != "" {
		if v := os.Getenv(env.SecureCookie); v != "" {
			if secure, err := strconv.ParseBool(v); err == nil {
				c.SecureCookie = secure
			}
		}
	}
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.IdleTimeout)
	if err != nil {
		return fmt.Errorf("invalid idle_timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("idle_timeout must be positive: %s", c.IdleTimeout)
	}
	if !validCookieName(c.CookieName) {
		return fmt.Errorf("invalid cookie_name: %q", c.CookieName)
	}
	return nil
}

func validCookieName(name string) bool {
	return (&http.Cookie{Name: name, Value: "x"}).Valid() == nil
}
