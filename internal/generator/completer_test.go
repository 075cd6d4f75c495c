package generator_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/JaimeStill/stagehand/internal/config"
	"github.com/JaimeStill/stagehand/internal/generator"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatBody struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type completionServer struct {
	status int

	mu       sync.Mutex
	calls    int
	path     string
	auth     string
	received chatBody
}

func (s *completionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	s.path = r.URL.Path
	s.auth = r.Header.Get("Authorization")
	_ = json.NewDecoder(r.Body).Decode(&s.received)

	if s.status != http.StatusOK {
		http.Error(w, `{"error":"rejected"}`, s.status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"model":"llama3-70b-8192","choices":[{"index":0,"message":{"role":"assistant","content":"generated stories"}}]}`))
}

func newAgentCompleter(t *testing.T, baseURL string) *generator.AgentCompleter {
	t.Helper()

	ac := &config.AgentConfig{BaseURL: baseURL}
	if err := ac.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	return generator.NewAgentCompleter(ac.AgentConfig())
}

func TestAgentCompleterSendsRequest(t *testing.T) {
	fake := &completionServer{status: http.StatusOK}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c := newAgentCompleter(t, srv.URL)

	got, err := c.Complete(context.Background(), generator.Request{
		Credential:        secret,
		SystemInstruction: "Expert SDLC assistant. Provide detailed output for user_stories.",
		UserMessage:       "Generate user stories for: pen",
		Model:             "llama3-70b-8192",
		Temperature:       0.3,
		MaxOutputTokens:   4000,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "generated stories" {
		t.Errorf("content: got %q", got)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()

	if fake.calls != 1 {
		t.Errorf("calls: got %d, want 1", fake.calls)
	}
	if fake.path != "/v1/chat/completions" {
		t.Errorf("path: got %s", fake.path)
	}
	if fake.auth != "Bearer "+secret {
		t.Errorf("authorization: got %q, want bearer credential", fake.auth)
	}

	body := fake.received
	if body.Model != "llama3-70b-8192" {
		t.Errorf("model: got %s", body.Model)
	}
	want := []chatMessage{
		{Role: "system", Content: "Expert SDLC assistant. Provide detailed output for user_stories."},
		{Role: "user", Content: "Generate user stories for: pen"},
	}
	if len(body.Messages) != len(want) {
		t.Fatalf("messages: got %+v", body.Messages)
	}
	for i := range want {
		if body.Messages[i] != want[i] {
			t.Errorf("message %d: got %+v, want %+v", i, body.Messages[i], want[i])
		}
	}
	if body.Temperature != 0.3 {
		t.Errorf("temperature: got %v, want 0.3", body.Temperature)
	}
	if body.MaxTokens != 4000 {
		t.Errorf("max_tokens: got %d, want 4000", body.MaxTokens)
	}
}

func TestAgentCompleterRejectedStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"unauthorized", http.StatusUnauthorized},
		{"rate limited", http.StatusTooManyRequests},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &completionServer{status: tt.status}
			srv := httptest.NewServer(fake)
			defer srv.Close()

			c := newAgentCompleter(t, srv.URL)

			got, err := c.Complete(context.Background(), generator.Request{
				Credential:      secret,
				UserMessage:     "prompt",
				Temperature:     0.3,
				MaxOutputTokens: 4000,
			})
			if err == nil {
				t.Fatalf("Complete() returned %q, want error", got)
			}

			fake.mu.Lock()
			defer fake.mu.Unlock()
			if fake.calls != 1 {
				t.Errorf("calls: got %d, want exactly 1", fake.calls)
			}
		})
	}
}
