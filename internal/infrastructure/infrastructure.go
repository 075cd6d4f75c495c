// Package infrastructure provides core service initialization for application startup.
// It assembles the shared systems (logging, tracing, archive storage) that domain
// systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"go.opentelemetry.io/otel/trace"

	"github.com/JaimeStill/stagehand/internal/config"
	"github.com/JaimeStill/stagehand/pkg/lifecycle"
	"github.com/JaimeStill/stagehand/pkg/logging"
	"github.com/JaimeStill/stagehand/pkg/storage"
	"github.com/JaimeStill/stagehand/pkg/tracing"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Agent     gaconfig.AgentConfig
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Tracer    trace.Tracer
	Storage   storage.System

	logging *logging.System
	tracing *tracing.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()

	logSys, err := logging.New(&cfg.Logging, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("logging init failed: %w", err)
	}
	logger := logSys.Logger()

	traceSys, err := tracing.New(lc.Context(), &cfg.Tracing, logger)
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Agent:     cfg.Agent.AgentConfig(),
		Lifecycle: lc,
		Logger:    logger,
		Tracer:    traceSys.Tracer(),
		Storage:   store,
		logging:   logSys,
		tracing:   traceSys,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.logging.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("logging start failed: %w", err)
	}
	if err := i.tracing.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("tracing start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
