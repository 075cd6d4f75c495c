package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Output formats for the terminal handler.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds logger settings.
type Config struct {
	Level   string `toml:"level"`
	Format  string `toml:"format"`
	File    string `toml:"file"`
	Journal bool   `toml:"journal"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Level   string
	Format  string
	File    string
	Journal string
}

// SlogLevel returns the configured level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
	if overlay.File != "" {
		c.File = overlay.File
	}
	if overlay.Journal {
		c.Journal = true
	}
}

func (c *Config) loadDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatText
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Level != "" {
		if v := os.Getenv(env.Level); v != "" {
			c.Level = v
		}
	}
	if env.Format != "" {
		if v := os.Getenv(env.Format); v != "" {
			c.Format = v
		}
	}
	if env.File != "" {
		if v := os.Getenv(env.File); v != "" {
			c.File = v
		}
	}
	if env.Journal != "" {
		if v := os.Getenv(env.Journal); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				c.Journal = enabled
			}
		}
	}
}

func (c *Config) validate() error {
	c.Format = strings.ToLower(c.Format)
	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("invalid format %q: must be text or json", c.Format)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return fmt.Errorf("invalid level %q: %w", c.Level, err)
	}
	return nil
}
