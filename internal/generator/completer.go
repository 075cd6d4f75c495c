package generator

import (
	"context"
	"maps"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Request is a single completion call.
type Request struct {
	Credential        string
	SystemInstruction string
	UserMessage       string
	Model             string
	Temperature       float64
	MaxOutputTokens   int
}

// Completer is the boundary to the external text-completion service.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// DefaultAuthType is the provider auth scheme applied when the base
// configuration does not name one. The credential travels as a bearer token.
const DefaultAuthType = "bearer"

// AgentCompleter completes requests through a go-agents agent built per call
// from a base configuration.
type AgentCompleter struct {
	base gaconfig.AgentConfig
}

// NewAgentCompleter creates a completer for the provider and model in base.
// The base configuration is copied; the caller may reuse it.
func NewAgentCompleter(base gaconfig.AgentConfig) *AgentCompleter {
	return &AgentCompleter{base: base}
}

// Complete creates an agent carrying the request credential and system
// instruction, then performs one chat call. Client retries are disabled.
func (c *AgentCompleter) Complete(ctx context.Context, req Request) (string, error) {
	cfg := c.agentConfig(req)

	a, err := agent.New(&cfg)
	if err != nil {
		return "", err
	}

	resp, err := a.Chat(ctx, req.UserMessage, map[string]any{
		"temperature": req.Temperature,
		"max_tokens":  req.MaxOutputTokens,
	})
	if err != nil {
		return "", err
	}

	return resp.Content(), nil
}

func (c *AgentCompleter) agentConfig(req Request) gaconfig.AgentConfig {
	cfg := c.base
	cfg.SystemPrompt = req.SystemInstruction

	client := *gaconfig.DefaultClientConfig()
	if c.base.Client != nil {
		client = *c.base.Client
	}
	client.Retry.MaxRetries = 0
	cfg.Client = &client

	provider := gaconfig.ProviderConfig{}
	if c.base.Provider != nil {
		provider = *c.base.Provider
	}
	provider.Options = maps.Clone(provider.Options)
	if provider.Options == nil {
		provider.Options = make(map[string]any)
	}
	if _, ok := provider.Options["auth_type"]; !ok {
		provider.Options["auth_type"] = DefaultAuthType
	}
	provider.Options["token"] = req.Credential
	cfg.Provider = &provider

	model := gaconfig.ModelConfig{}
	if c.base.Model != nil {
		model = *c.base.Model
	}
	if req.Model != "" {
		model.Name = req.Model
	}
	cfg.Model = &model

	return cfg
}
