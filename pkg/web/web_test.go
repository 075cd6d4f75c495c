package web_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/JaimeStill/stagehand/pkg/web"
)

var testFS = fstest.MapFS{
	"layouts/app.html":  {Data: []byte(`{{ define "app" }}<title>{{ .Title }}</title><a href="{{ .BasePath }}/">home</a>{{ template "content" . }}{{ end }}`)},
	"views/stage.html":  {Data: []byte(`{{ define "content" }}<h1>{{ shout .Data }}</h1>{{ end }}`)},
	"views/broken.html": {Data: []byte(`{{ define "content" }}{{ .Data.Missing }}{{ end }}`)},
	"views/404.html":    {Data: []byte(`{{ define "content" }}<p>missing</p>{{ end }}`)},
	"static/app.css":    {Data: []byte(`body{}`)},
}

var funcs = map[string]any{"shout": strings.ToUpper}

func newSet(t *testing.T) *web.TemplateSet {
	t.Helper()
	ts, err := web.NewTemplateSet(testFS, "layouts/*.html", "views", "/app", funcs, []web.ViewDef{
		{Template: "stage.html", Title: "Stage"},
		{Template: "broken.html", Title: "Broken"},
		{Template: "404.html", Title: "Not Found"},
	})
	if err != nil {
		t.Fatalf("NewTemplateSet() error = %v", err)
	}
	return ts
}

func TestRender(t *testing.T) {
	ts := newSet(t)

	rec := httptest.NewRecorder()
	if err := ts.Render(rec, http.StatusOK, "app", web.ViewDef{Template: "stage.html", Title: "Stage"}, "design docs"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	body := rec.Body.String()
	for _, want := range []string{"<title>Stage</title>", `href="/app/"`, "<h1>DESIGN DOCS</h1>"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q: %s", want, body)
		}
	}
}

func TestRenderFailureWritesNothing(t *testing.T) {
	ts := newSet(t)

	rec := httptest.NewRecorder()
	err := ts.Render(rec, http.StatusOK, "app", web.ViewDef{Template: "broken.html"}, "not a struct")
	if err == nil {
		t.Fatal("expected execution error")
	}
	if rec.Body.Len() != 0 {
		t.Errorf("partial output written: %q", rec.Body.String())
	}
}

func TestRenderUnknownView(t *testing.T) {
	ts := newSet(t)
	if err := ts.Render(httptest.NewRecorder(), http.StatusOK, "app", web.ViewDef{Template: "missing.html"}, nil); err == nil {
		t.Error("expected error for unknown view")
	}
}

func TestRouterFallback(t *testing.T) {
	ts := newSet(t)

	router := web.NewRouter()
	router.Mux().HandleFunc("GET /static/", web.DistServer(testFS, "static", "/static"))
	router.SetFallback(ts.PageHandler("app", web.ViewDef{Template: "404.html", Title: "Not Found"}, http.StatusNotFound))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "body{}" {
		t.Errorf("static: got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("fallback status: got %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<title>Not Found</title>") {
		t.Errorf("fallback body: %s", rec.Body.String())
	}
}
