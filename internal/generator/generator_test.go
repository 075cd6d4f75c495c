package generator_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/stagehand/internal/generator"
)

type fakeCompleter struct {
	content  string
	err      error
	requests []generator.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req generator.Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.content, f.err
}

const secret = "gsk_live_secret_value"

func newGenerator(c generator.Completer, logs *bytes.Buffer) *generator.Generator {
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return generator.New(c, generator.Options{
		Model:           "llama3-70b-8192",
		Temperature:     0.3,
		MaxOutputTokens: 4000,
	}, logger, nil)
}

func TestGenerateSuccess(t *testing.T) {
	var logs bytes.Buffer
	fake := &fakeCompleter{content: "As a user, I want..."}
	gen := newGenerator(fake, &logs)

	got, err := gen.Generate(context.Background(), secret, "Generate user stories for: pen", "user_stories")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "As a user, I want..." {
		t.Errorf("content: got %q", got)
	}

	if len(fake.requests) != 1 {
		t.Fatalf("requests: got %d, want exactly 1", len(fake.requests))
	}
	req := fake.requests[0]
	if req.SystemInstruction != "Expert SDLC assistant. Provide detailed output for user_stories." {
		t.Errorf("system instruction: got %q", req.SystemInstruction)
	}
	if req.UserMessage != "Generate user stories for: pen" {
		t.Errorf("user message: got %q", req.UserMessage)
	}
	if req.Credential != secret {
		t.Error("credential not forwarded")
	}
	if req.Temperature != 0.3 || req.MaxOutputTokens != 4000 || req.Model != "llama3-70b-8192" {
		t.Errorf("sampling options: got %+v", req)
	}

	if strings.Contains(logs.String(), secret) {
		t.Error("credential leaked into logs")
	}
	if !strings.Contains(logs.String(), "stage=user_stories") {
		t.Errorf("log missing stage: %s", logs.String())
	}
}

func TestGenerateFailures(t *testing.T) {
	transport := errors.New("dial tcp: connection refused")

	tests := []struct {
		name       string
		credential string
		completer  *fakeCompleter
		cause      error
		requests   int
	}{
		{"transport", secret, &fakeCompleter{err: transport}, transport, 1},
		{"empty response", secret, &fakeCompleter{content: "  \n"}, generator.ErrEmptyResponse, 1},
		{"no credential", " ", &fakeCompleter{content: "x"}, generator.ErrNoCredential, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			gen := newGenerator(tt.completer, &logs)

			got, err := gen.Generate(context.Background(), tt.credential, "prompt", "design_docs")
			if got != "" {
				t.Errorf("content: got %q, want empty", got)
			}
			if !errors.Is(err, generator.ErrGeneration) {
				t.Errorf("error %v should match ErrGeneration", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("error %v should wrap %v", err, tt.cause)
			}

			var genErr *generator.GenerationError
			if !errors.As(err, &genErr) || genErr.StageID != "design_docs" {
				t.Errorf("expected GenerationError for design_docs, got %v", err)
			}
			if len(tt.completer.requests) != tt.requests {
				t.Errorf("requests: got %d, want %d", len(tt.completer.requests), tt.requests)
			}
			if !strings.Contains(logs.String(), "level=WARN") {
				t.Errorf("failure not logged: %s", logs.String())
			}
			if strings.Contains(logs.String(), secret) {
				t.Error("credential leaked into logs")
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	err := &generator.GenerationError{StageID: "x", Err: errors.New("quota")}
	if got := generator.MapHTTPStatus(err); got != 502 {
		t.Errorf("MapHTTPStatus(generation) = %d, want 502", got)
	}
	if got := generator.MapHTTPStatus(errors.New("other")); got != 500 {
		t.Errorf("MapHTTPStatus(other) = %d, want 500", got)
	}
}

func TestAgentConfigInjectsRequest(t *testing.T) {
	base := gaconfig.AgentConfig{
		Name: "stagehand",
		Provider: &gaconfig.ProviderConfig{
			Name:    "openai",
			BaseURL: "https://api.groq.com/openai/v1",
			Options: map[string]any{"deployment": "x"},
		},
		Model: &gaconfig.ModelConfig{Name: "base-model"},
	}
	c := generator.NewAgentCompleter(base)

	cfg := generator.AgentConfigFor(c, generator.Request{
		Credential:        secret,
		SystemInstruction: "Expert SDLC assistant. Provide detailed output for monitoring.",
		Model:             "llama3-70b-8192",
	})

	if cfg.Provider.Options["token"] != secret {
		t.Error("token not injected")
	}
	if cfg.Provider.Options["auth_type"] != generator.DefaultAuthType {
		t.Errorf("auth_type: got %v, want %s", cfg.Provider.Options["auth_type"], generator.DefaultAuthType)
	}
	if cfg.Client == nil || cfg.Client.Retry.MaxRetries != 0 {
		t.Error("client retries should be disabled")
	}
	if cfg.Provider.Options["deployment"] != "x" {
		t.Error("base provider options lost")
	}
	if _, ok := base.Provider.Options["token"]; ok {
		t.Error("base provider options mutated")
	}
	if cfg.Model.Name != "llama3-70b-8192" || base.Model.Name != "base-model" {
		t.Errorf("model override: got %s, base %s", cfg.Model.Name, base.Model.Name)
	}
	if cfg.SystemPrompt != "Expert SDLC assistant. Provide detailed output for monitoring." {
		t.Errorf("system prompt: got %q", cfg.SystemPrompt)
	}
}
