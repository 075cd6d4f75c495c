package sessions

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/JaimeStill/stagehand/internal/export"
	"github.com/JaimeStill/stagehand/internal/stages"
	"github.com/JaimeStill/stagehand/internal/workflow"
	"github.com/JaimeStill/stagehand/pkg/storage"
	"github.com/JaimeStill/stagehand/pkg/tracing"
)

type service struct {
	store   *Store
	binder  *Binder
	engine  *workflow.Engine
	archive *export.Archive
	logger  *slog.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

// New creates the session System. A nil tracer disables spans.
func New(
	store *Store,
	binder *Binder,
	engine *workflow.Engine,
	archive *export.Archive,
	logger *slog.Logger,
	tracer trace.Tracer,
) System {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("sessions")
	}
	return &service{
		store:   store,
		binder:  binder,
		engine:  engine,
		archive: archive,
		logger:  logger.With("system", "sessions"),
		tracer:  tracer,
		now:     time.Now,
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.binder, s.logger)
}

func (s *service) Binder() *Binder {
	return s.binder
}

func (s *service) Stages() []stages.Stage {
	return s.engine.Registry().List()
}

func (s *service) Render(ctx context.Context, id uuid.UUID) (workflow.View, error) {
	ctx, span := s.span(ctx, "render", id)
	defer span.End()

	var view workflow.View
	err := s.store.With(id, func(sess *workflow.Session) error {
		view = s.engine.Render(ctx, sess)
		return nil
	})
	if err != nil {
		tracing.SetError(span, err)
		return workflow.View{}, err
	}

	span.SetAttributes(attribute.String(tracing.StageIDKey, view.Stage.ID))
	return view, nil
}

func (s *service) StartIntake(ctx context.Context, id uuid.UUID, credential, description string) error {
	return s.act(ctx, "intake", id, "", func(sess *workflow.Session) error {
		if err := sess.StartIntake(credential, description); err != nil {
			return err
		}
		s.logger.Info("intake completed",
			"session", id,
			"credential", sess.Credential(),
			"description_chars", len([]rune(sess.ProjectDescription())),
		)
		return nil
	})
}

func (s *service) Approve(ctx context.Context, id uuid.UUID, stageID string) error {
	return s.act(ctx, "approve", id, stageID, func(sess *workflow.Session) error {
		if err := sess.Approve(stageID); err != nil {
			return err
		}
		approved, total := sess.Progress()
		s.logger.Info("stage approved", "session", id, "stage", stageID, "approved", approved, "total", total)
		return nil
	})
}

func (s *service) SubmitFeedback(ctx context.Context, id uuid.UUID, stageID, text string) error {
	return s.act(ctx, "feedback", id, stageID, func(sess *workflow.Session) error {
		if err := sess.SubmitFeedback(stageID, text); err != nil {
			return err
		}
		s.logger.Info("feedback submitted", "session", id, "stage", stageID)
		return nil
	})
}

func (s *service) Restart(ctx context.Context, id uuid.UUID) error {
	return s.act(ctx, "restart", id, "", func(sess *workflow.Session) error {
		sess.Reset(workflow.FieldCredential)
		s.logger.Info("workflow restarted", "session", id)
		return nil
	})
}

func (s *service) Quit(ctx context.Context, id uuid.UUID) error {
	err := s.act(ctx, "quit", id, "", func(sess *workflow.Session) error {
		sess.AcknowledgeCompletion()
		return nil
	})
	if err != nil {
		return err
	}

	s.store.Remove(id)
	s.logger.Info("session closed", "session", id)
	return nil
}

func (s *service) StageDownload(ctx context.Context, id uuid.UUID, stageID string) (*Download, error) {
	var dl *Download
	err := s.act(ctx, "download", id, stageID, func(sess *workflow.Session) error {
		if _, err := s.engine.Registry().ByID(stageID); err != nil {
			return err
		}
		content, ok := sess.Content(stageID)
		if !ok {
			return ErrNoContent
		}
		dl = &Download{
			Filename:    export.StageFilename(stageID, sess.ProjectDescription(), s.now()),
			ContentType: "text/plain; charset=utf-8",
			Data:        []byte(content),
		}
		return nil
	})
	return dl, err
}

func (s *service) Export(ctx context.Context, id uuid.UUID) (*Download, error) {
	var dl *Download
	now := s.now()
	err := s.act(ctx, "export", id, "", func(sess *workflow.Session) error {
		doc := export.Assemble(sess, s.engine.Registry(), now)

		data, err := export.Encode(doc)
		if err != nil {
			return err
		}

		dl = &Download{
			Filename:    export.WorkflowFilename(sess.ProjectDescription(), now),
			ContentType: "application/json",
			Data:        data,
		}
		s.logger.Info("workflow exported", "session", id, "steps", len(doc.Steps), "complete", doc.Complete)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if name := s.archive.Save(ctx, dl.Filename, dl.Data, now); name != "" {
		if err := s.store.AddArchive(id, name); err != nil {
			return nil, err
		}
		dl.ArchiveName = name
	}
	return dl, nil
}

// Archived opens an archived export. Names the session did not export are
// reported as storage.ErrNotFound.
func (s *service) Archived(ctx context.Context, id uuid.UUID, name string) (*storage.Blob, error) {
	ctx, span := s.span(ctx, "archived", id)
	defer span.End()

	if !s.store.OwnsArchive(id, name) {
		tracing.SetError(span, storage.ErrNotFound)
		return nil, storage.ErrNotFound
	}

	blob, err := s.archive.Open(ctx, name)
	if err != nil {
		tracing.SetError(span, err)
		return nil, err
	}
	return blob, nil
}

func (s *service) act(ctx context.Context, action string, id uuid.UUID, stageID string, fn func(*workflow.Session) error) error {
	_, span := s.span(ctx, action, id)
	defer span.End()

	if stageID != "" {
		span.SetAttributes(attribute.String(tracing.StageIDKey, stageID))
	}

	if err := s.store.With(id, fn); err != nil {
		tracing.SetError(span, err)
		return err
	}
	return nil
}

func (s *service) span(ctx context.Context, action string, id uuid.UUID) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "sessions."+action,
		trace.WithAttributes(
			attribute.String(tracing.SessionIDKey, id.String()),
			attribute.String(tracing.ActionKey, action),
		),
	)
}
