// Package sessions owns the in-memory workflow sessions and exposes the
// workflow actions over a JSON API.
package sessions

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/stagehand/internal/stages"
	"github.com/JaimeStill/stagehand/internal/workflow"
	"github.com/JaimeStill/stagehand/pkg/storage"
)

// Download is a file produced for the user.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
	// ArchiveName is set when a full export was copied to the archive.
	ArchiveName string
}

// System defines the workflow actions available to presentation surfaces.
// Every action runs to completion before the next action on the same session
// starts.
type System interface {
	Handler() *Handler
	Binder() *Binder

	Stages() []stages.Stage

	Render(ctx context.Context, id uuid.UUID) (workflow.View, error)
	StartIntake(ctx context.Context, id uuid.UUID, credential, description string) error
	Approve(ctx context.Context, id uuid.UUID, stageID string) error
	SubmitFeedback(ctx context.Context, id uuid.UUID, stageID, text string) error
	Restart(ctx context.Context, id uuid.UUID) error
	Quit(ctx context.Context, id uuid.UUID) error

	StageDownload(ctx context.Context, id uuid.UUID, stageID string) (*Download, error)
	Export(ctx context.Context, id uuid.UUID) (*Download, error)
	// Archived opens an archived export previously produced by Export on
	// the same session.
	Archived(ctx context.Context, id uuid.UUID, name string) (*storage.Blob, error)
}
