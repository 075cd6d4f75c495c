package api

import (
	"github.com/JaimeStill/stagehand/internal/config"
	"github.com/JaimeStill/stagehand/internal/generator"
	"github.com/JaimeStill/stagehand/internal/infrastructure"
	"github.com/JaimeStill/stagehand/internal/sessions"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Generation    generator.Options
	Sessions      sessions.Config
	ArchivePrefix string
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Agent:     infra.Agent,
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Tracer:    infra.Tracer,
			Storage:   infra.Storage,
		},
		Generation:    cfg.Generation.Options(cfg.Agent.Model),
		Sessions:      cfg.Sessions,
		ArchivePrefix: cfg.Storage.Prefix,
	}
}
