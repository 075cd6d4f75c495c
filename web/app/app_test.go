package app_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/stagehand/internal/export"
	"github.com/JaimeStill/stagehand/internal/generator"
	"github.com/JaimeStill/stagehand/internal/sessions"
	"github.com/JaimeStill/stagehand/internal/stages"
	"github.com/JaimeStill/stagehand/internal/workflow"
	"github.com/JaimeStill/stagehand/pkg/module"
	"github.com/JaimeStill/stagehand/pkg/storage"
	"github.com/JaimeStill/stagehand/web/app"
)

type echoCompleter struct{}

func (echoCompleter) Complete(_ context.Context, req generator.Request) (string, error) {
	return "content for " + req.UserMessage, nil
}

type client struct {
	base string
	http *http.Client
}

func newClient(t *testing.T) *client {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	registry, err := stages.New(
		stages.Stage{ID: "intake", Label: "Project Intake"},
		stages.Stage{ID: "design", Label: "Design", Template: "Design for: {prompt}"},
		stages.Stage{ID: "build", Label: "Build", Template: "Build for: {prompt}"},
	)
	if err != nil {
		t.Fatal(err)
	}

	gen := generator.New(echoCompleter{}, generator.Options{Temperature: 0.3, MaxOutputTokens: 4000}, logger, nil)
	engine := workflow.NewEngine(registry, gen, logger)

	cfg := &sessions.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	store := sessions.NewStore(registry, cfg.IdleTimeoutDuration(), logger)
	sys := sessions.New(
		store,
		sessions.NewBinder(store, cfg),
		engine,
		export.NewArchive(storage.Disabled(), "exports", logger),
		logger,
		nil,
	)

	m, err := app.NewModule("/app", sys, 1<<20, logger)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	router := module.NewRouter()
	router.Mount(m)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	return &client{
		base: server.URL + "/app",
		http: &http.Client{Jar: jar, Timeout: 5 * time.Second},
	}
}

func (c *client) get(t *testing.T, path string) (int, http.Header, string) {
	t.Helper()
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return read(t, resp)
}

func (c *client) post(t *testing.T, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := c.http.PostForm(c.base+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	status, _, body := read(t, resp)
	return status, body
}

func read(t *testing.T, resp *http.Response) (int, http.Header, string) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, resp.Header, string(data)
}

func contains(t *testing.T, body string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestIntakePage(t *testing.T) {
	c := newClient(t)

	status, header, body := c.get(t, "/")
	if status != http.StatusOK {
		t.Fatalf("status: got %d", status)
	}
	if ct := header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("content type: got %s", ct)
	}
	contains(t, body, "Project Intake", `name="credential"`, `name="description"`, "0 of 2 stages approved")
}

func TestIntakeValidationError(t *testing.T) {
	c := newClient(t)

	status, body := c.post(t, "/intake", url.Values{"description": {"Bakery"}})
	if status != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", status)
	}
	contains(t, body, "Validation failed: credential required.")
}

func TestWorkflowPages(t *testing.T) {
	c := newClient(t)

	status, body := c.post(t, "/intake", url.Values{
		"credential":  {"sk-test"},
		"description": {"<b>Bakery</b>"},
	})
	if status != http.StatusOK {
		t.Fatalf("intake status: got %d", status)
	}
	contains(t, body,
		"Step 1 of 2",
		"content for Design for: &lt;b&gt;Bakery&lt;/b&gt;",
		`action="/app/stages/design/approve"`,
		`href="/app/stages/design/download"`,
	)
	if strings.Contains(body, "<b>Bakery</b>") {
		t.Error("generated content must be escaped")
	}

	_, body = c.post(t, "/stages/design/feedback", url.Values{"feedback": {"add caching"}})
	contains(t, body, "Revised with feedback: add caching", "Feedback: add caching")

	_, body = c.post(t, "/stages/build/approve", nil)
	contains(t, body, "Stage is not the current stage: build.")

	_, body = c.post(t, "/stages/design/approve", nil)
	contains(t, body, "Step 2 of 2", "1 of 2 stages approved (50%)")

	_, body = c.post(t, "/stages/build/approve", nil)
	contains(t, body, "Workflow complete", `action="/app/quit"`)

	status, header, _ := c.get(t, "/export")
	if status != http.StatusOK || header.Get("Content-Type") != "application/json" {
		t.Errorf("export: status %d type %s", status, header.Get("Content-Type"))
	}

	status, header, body = c.get(t, "/stages/design/download")
	if status != http.StatusOK || !strings.HasPrefix(header.Get("Content-Type"), "text/plain") {
		t.Errorf("download: status %d type %s", status, header.Get("Content-Type"))
	}
	if !strings.Contains(body, "Feedback: add caching") {
		t.Error("download should carry the regenerated content")
	}

	status, body = c.post(t, "/quit", nil)
	if status != http.StatusOK {
		t.Errorf("quit status: got %d", status)
	}
	contains(t, body, "Thank you for using Stagehand")

	_, _, body = c.get(t, "/")
	contains(t, body, `name="description"`, "0 of 2 stages approved")
}

func TestRestartKeepsCredential(t *testing.T) {
	c := newClient(t)

	c.post(t, "/intake", url.Values{"credential": {"sk-test"}, "description": {"Bakery"}})
	_, body := c.post(t, "/restart", nil)
	contains(t, body, "Leave blank to keep the current key")

	_, body = c.post(t, "/intake", url.Values{"description": {"Florist"}})
	contains(t, body, "content for Design for: Florist")
}

func TestStaticAndNotFound(t *testing.T) {
	c := newClient(t)

	status, header, _ := c.get(t, "/static/app.css")
	if status != http.StatusOK || !strings.HasPrefix(header.Get("Content-Type"), "text/css") {
		t.Errorf("stylesheet: status %d type %s", status, header.Get("Content-Type"))
	}

	status, _, body := c.get(t, "/nowhere")
	if status != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", status)
	}
	contains(t, body, "Page not found")
}
