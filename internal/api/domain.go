package api

import (
	"github.com/JaimeStill/stagehand/internal/export"
	"github.com/JaimeStill/stagehand/internal/generator"
	"github.com/JaimeStill/stagehand/internal/sessions"
	"github.com/JaimeStill/stagehand/internal/stages"
	"github.com/JaimeStill/stagehand/internal/workflow"
)

// Domain holds all domain systems that comprise the API. The sessions system
// is shared with the web app so both surfaces drive the same sessions.
type Domain struct {
	Registry *stages.Registry
	Archive  *export.Archive
	Sessions sessions.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	registry := stages.Default()

	gen := generator.New(
		generator.NewAgentCompleter(runtime.Agent),
		runtime.Generation,
		runtime.Logger,
		runtime.Tracer,
	)
	engine := workflow.NewEngine(registry, gen, runtime.Logger)

	store := sessions.NewStore(registry, runtime.Sessions.IdleTimeoutDuration(), runtime.Logger)
	binder := sessions.NewBinder(store, &runtime.Sessions)
	archive := export.NewArchive(runtime.Storage, runtime.ArchivePrefix, runtime.Logger)

	return &Domain{
		Registry: registry,
		Archive:  archive,
		Sessions: sessions.New(store, binder, engine, archive, runtime.Logger, runtime.Tracer),
	}
}
