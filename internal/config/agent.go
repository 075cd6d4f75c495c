package config

import (
	"fmt"
	"maps"
	"os"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentName         = "STAGEHAND_AGENT_NAME"
	EnvAgentProviderName = "STAGEHAND_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "STAGEHAND_AGENT_BASE_URL"
	EnvAgentDeployment   = "STAGEHAND_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "STAGEHAND_AGENT_API_VERSION"
	EnvAgentAuthType     = "STAGEHAND_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "STAGEHAND_AGENT_MODEL_NAME"
	EnvAgentTimeout      = "STAGEHAND_AGENT_TIMEOUT"
)

// AgentConfig selects the completion provider and model. The provider token
// is not configured here: every session supplies its own credential.
type AgentConfig struct {
	Name     string         `toml:"name"`
	Provider string         `toml:"provider"`
	BaseURL  string         `toml:"base_url"`
	Model    string         `toml:"model"`
	Timeout  string         `toml:"timeout"`
	Options  map[string]any `toml:"options"`
}

// TimeoutDuration returns Timeout as a time.Duration: the limit on one
// completion call.
func (c *AgentConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AgentConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Options merge key by key.
func (c *AgentConfig) Merge(overlay *AgentConfig) {
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if len(overlay.Options) > 0 {
		if c.Options == nil {
			c.Options = make(map[string]any, len(overlay.Options))
		}
		maps.Copy(c.Options, overlay.Options)
	}
}

// AgentConfig returns the go-agents configuration, layered over the go-agents
// defaults.
func (c *AgentConfig) AgentConfig() gaconfig.AgentConfig {
	cfg := gaconfig.AgentConfig{
		Name: c.Name,
		Provider: &gaconfig.ProviderConfig{
			Name:    c.Provider,
			BaseURL: c.BaseURL,
			Options: maps.Clone(c.Options),
		},
		Model: &gaconfig.ModelConfig{
			Name: c.Model,
		},
	}

	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(&cfg)
	if d := c.TimeoutDuration(); d > 0 {
		defaults.Client.Timeout = gaconfig.Duration(d)
	}
	return defaults
}

func (c *AgentConfig) loadDefaults() {
	if c.Name == "" {
		c.Name = "stagehand"
	}
	if c.Provider == "" {
		c.Provider = "ollama"
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://api.groq.com/openai"
	}
	if c.Model == "" {
		c.Model = "llama3-70b-8192"
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
	if c.Options == nil {
		c.Options = make(map[string]any)
	}
	if _, ok := c.Options["auth_type"]; !ok {
		c.Options["auth_type"] = "bearer"
	}
}

func (c *AgentConfig) loadEnv() {
	if v := os.Getenv(EnvAgentName); v != "" {
		c.Name = v
	}
	if v := os.Getenv(EnvAgentProviderName); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvAgentTimeout); v != "" {
		c.Timeout = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			c.Options[key] = v
		}
	}

	setOption(EnvAgentDeployment, "deployment")
	setOption(EnvAgentAPIVersion, "api_version")
	setOption(EnvAgentAuthType, "auth_type")
}

func (c *AgentConfig) validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider required")
	}
	if c.Model == "" {
		return fmt.Errorf("model required")
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	if _, ok := c.Options["token"]; ok {
		return fmt.Errorf("options.token is not allowed: the credential comes from each session")
	}
	return nil
}
