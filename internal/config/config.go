// Package config loads Stagehand configuration from TOML files and
// STAGEHAND_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/stagehand/internal/sessions"
	"github.com/JaimeStill/stagehand/pkg/logging"
	"github.com/JaimeStill/stagehand/pkg/storage"
	"github.com/JaimeStill/stagehand/pkg/tracing"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvStagehandEnv             = "STAGEHAND_ENV"
	EnvStagehandShutdownTimeout = "STAGEHAND_SHUTDOWN_TIMEOUT"
	EnvStagehandVersion         = "STAGEHAND_VERSION"
)

var storageEnv = &storage.Env{
	ContainerName:    "STAGEHAND_STORAGE_CONTAINER_NAME",
	ConnectionString: "STAGEHAND_STORAGE_CONNECTION_STRING",
	Prefix:           "STAGEHAND_STORAGE_PREFIX",
}

var sessionsEnv = &sessions.Env{
	CookieName:   "STAGEHAND_SESSIONS_COOKIE_NAME",
	IdleTimeout:  "STAGEHAND_SESSIONS_IDLE_TIMEOUT",
	SecureCookie: "STAGEHAND_SESSIONS_SECURE_COOKIE",
}

var loggingEnv = &logging.Env{
	Level:   "STAGEHAND_LOG_LEVEL",
	Format:  "STAGEHAND_LOG_FORMAT",
	File:    "STAGEHAND_LOG_FILE",
	Journal: "STAGEHAND_LOG_JOURNAL",
}

var tracingEnv = &tracing.Env{
	Enabled:     "STAGEHAND_TRACING_ENABLED",
	ServiceName: "STAGEHAND_TRACING_SERVICE_NAME",
	Endpoint:    "STAGEHAND_TRACING_ENDPOINT",
	Insecure:    "STAGEHAND_TRACING_INSECURE",
}

// Config is the root configuration for the Stagehand service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	API             APIConfig        `toml:"api"`
	Agent           AgentConfig      `toml:"agent"`
	Generation      GenerationConfig `toml:"generation"`
	Sessions        sessions.Config  `toml:"sessions"`
	Storage         storage.Config   `toml:"storage"`
	Logging         logging.Config   `toml:"logging"`
	Tracing         tracing.Config   `toml:"tracing"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the STAGEHAND_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvStagehandEnv); env != "" {
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

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Parse decodes TOML data into a Config without finalizing it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
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
	c.API.Merge(&overlay.API)
	c.Agent.Merge(&overlay.Agent)
	c.Generation.Merge(&overlay.Generation)
	c.Sessions.Merge(&overlay.Sessions)
	c.Storage.Merge(&overlay.Storage)
	c.Logging.Merge(&overlay.Logging)
	c.Tracing.Merge(&overlay.Tracing)
}

// Finalize applies defaults, environment overrides, and validation to every section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Agent.Finalize(); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Generation.Finalize(); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	if err := c.Sessions.Finalize(sessionsEnv); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Tracing.Finalize(tracingEnv); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	return c.validateGenerationBudget()
}

// validateGenerationBudget rejects a server write timeout that would cut off a
// response while its stage is still generating. A zero write timeout is
// unbounded.
func (c *Config) validateGenerationBudget() error {
	write := c.Server.WriteTimeoutDuration()
	if write > 0 && write <= c.Agent.TimeoutDuration() {
		return fmt.Errorf(
			"server: write_timeout %s must exceed agent timeout %s",
			write, c.Agent.TimeoutDuration(),
		)
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
	if v := os.Getenv(EnvStagehandShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvStagehandVersion); v != "" {
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
	return Parse(data)
}

func overlayPath() string {
	if env := os.Getenv(EnvStagehandEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
