// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/stagehand/internal/config"
	"github.com/JaimeStill/stagehand/pkg/middleware"
	"github.com/JaimeStill/stagehand/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, runtime *Runtime, domain *Domain) (*module.Module, error) {
	mux := http.NewServeMux()
	if err := registerRoutes(mux, runtime, domain, cfg); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(
		middleware.CORS(&cfg.API.CORS),
		middleware.MaxBody(cfg.API.MaxBodySizeBytes()),
		middleware.Logger(runtime.Logger),
	)

	return m, nil
}
