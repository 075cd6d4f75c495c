package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/stagehand/internal/config"
	"github.com/JaimeStill/stagehand/internal/sessions"
	"github.com/JaimeStill/stagehand/pkg/openapi"
	"github.com/JaimeStill/stagehand/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	runtime *Runtime,
	domain *Domain,
	cfg *config.Config,
) error {
	groups := append(
		domain.Sessions.Handler().Routes(),
		newArchiveHandler(domain.Sessions, runtime.Logger).routes(),
	)

	routes.Register(mux, groups...)

	spec, err := buildSpec(cfg, groups)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	return nil
}

func buildSpec(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	spec.Components.AddSchemas(sessions.Schemas())

	routes.Document(spec, groups...)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	return data, nil
}
