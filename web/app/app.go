// Package app serves the server-rendered workflow UI.
package app

import (
	"embed"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/stagehand/internal/sessions"
	"github.com/JaimeStill/stagehand/pkg/middleware"
	"github.com/JaimeStill/stagehand/pkg/module"
	"github.com/JaimeStill/stagehand/pkg/web"
)

//go:embed templates static
var appFS embed.FS

const layout = "app"

var (
	workflowView = web.ViewDef{Template: "workflow.html", Title: "Stagehand"}
	goodbyeView  = web.ViewDef{Template: "goodbye.html", Title: "Session closed"}
	notFoundView = web.ViewDef{Template: "404.html", Title: "Not Found"}
)

var views = []web.ViewDef{workflowView, goodbyeView, notFoundView}

// NewModule creates the app module at basePath. Pages drive the same sessions
// as the JSON API.
func NewModule(basePath string, sys sessions.System, maxBody int64, logger *slog.Logger) (*module.Module, error) {
	ts, err := web.NewTemplateSet(appFS, "templates/layouts/*.html", "templates/views", basePath, funcs, views)
	if err != nil {
		return nil, fmt.Errorf("app templates: %w", err)
	}

	logger = logger.With("module", "app")

	router := web.NewRouter()
	newHandler(sys, ts, logger).register(router.Mux())
	router.Mux().HandleFunc("GET /static/", web.DistServer(appFS, "static", "/static/"))
	router.SetFallback(ts.PageHandler(layout, notFoundView, http.StatusNotFound))

	m := module.New(basePath, router)
	m.Use(
		middleware.MaxBody(maxBody),
		middleware.Logger(logger),
	)
	return m, nil
}
