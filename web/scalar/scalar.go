// Package scalar serves the Scalar API reference for the JSON API.
package scalar

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/stagehand/pkg/module"
)

//go:embed index.html scalar.css
var staticFS embed.FS

// NewModule creates a module that serves the Scalar API reference UI at
// basePath, reading the OpenAPI document from apiBasePath.
func NewModule(basePath, apiBasePath string) *module.Module {
	router := buildRouter(basePath, apiBasePath)
	return module.New(basePath, router)
}

func buildRouter(basePath, apiBasePath string) http.Handler {
	mux := http.NewServeMux()

	tmpl := template.Must(template.ParseFS(staticFS, "index.html"))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		tmpl.Execute(w, map[string]string{
			"BasePath": basePath,
			"SpecURL":  apiBasePath + "/openapi.json",
		})
	})

	mux.Handle("GET /", http.FileServer(http.FS(staticFS)))

	return mux
}
