package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/stagehand/internal/api"
	"github.com/JaimeStill/stagehand/internal/config"
	"github.com/JaimeStill/stagehand/internal/infrastructure"
	"github.com/JaimeStill/stagehand/pkg/module"
)

func newRouter(t *testing.T) *module.Router {
	t.Helper()
	return newRouterWith(t, nil)
}

// newRouterWith builds the API module, letting setup replace infrastructure
// systems before the domain is assembled.
func newRouterWith(t *testing.T, setup func(*infrastructure.Infrastructure)) *module.Router {
	t.Helper()
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	if setup != nil {
		setup(infra)
	}

	runtime := api.NewRuntime(cfg, infra)
	m, err := api.NewModule(cfg, runtime, api.NewDomain(runtime))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	router := module.NewRouter()
	router.Mount(m)
	return router
}

func TestStagesRoute(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/stages", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var list []map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 10 {
		t.Errorf("stage count: got %d, want 10", len(list))
	}
	if list[0]["label"] != "AI Powered Automation" {
		t.Errorf("intake label: got %s", list[0]["label"])
	}
}

func TestSessionRouteSetsCookie(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/session", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	cookie := rec.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "stagehand_session=") || !strings.Contains(cookie, "HttpOnly") {
		t.Errorf("cookie: got %s", cookie)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var doc struct {
		OpenAPI string                    `json:"openapi"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		"/stages":                       "get",
		"/session":                      "get",
		"/session/intake":               "post",
		"/session/stages/{id}/approve":  "post",
		"/session/stages/{id}/feedback": "post",
		"/session/stages/{id}/download": "get",
		"/session/export":               "get",
		"/session/restart":              "post",
		"/session/quit":                 "post",
		"/exports/{key}":                "get",
	}
	for path, method := range want {
		if _, ok := doc.Paths[path][method]; !ok {
			t.Errorf("missing %s %s", method, path)
		}
	}
}

func TestArchiveDisabled(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/exports/2026/03/01/full_workflow_x.json", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestMaxBody(t *testing.T) {
	router := newRouter(t)

	body := `{"credential":"k","description":"` + strings.Repeat("x", 2<<20) + `"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/session/intake", strings.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}
