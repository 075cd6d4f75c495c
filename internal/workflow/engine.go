package workflow

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/stagehand/internal/stages"
)

// ContentGenerator produces content for one stage.
type ContentGenerator interface {
	Generate(ctx context.Context, credential, promptText, stageID string) (string, error)
}

// StageStatus summarizes one stage for navigation displays.
type StageStatus struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	Intake          bool   `json:"intake"`
	Current         bool   `json:"current"`
	Approved        bool   `json:"approved"`
	Generated       bool   `json:"generated"`
	PendingFeedback bool   `json:"pending_feedback"`
}

// View is everything a presentation surface needs to draw the session after
// an action.
type View struct {
	Stage              stages.Stage  `json:"stage"`
	Intake             bool          `json:"intake"`
	Stages             []StageStatus `json:"stages"`
	Content            string        `json:"content,omitempty"`
	HasContent         bool          `json:"has_content"`
	AppliedFeedback    string        `json:"applied_feedback,omitempty"`
	PendingFeedback    string        `json:"pending_feedback,omitempty"`
	Error              string        `json:"error,omitempty"`
	Approved           int           `json:"approved"`
	Total              int           `json:"total"`
	Complete           bool          `json:"complete"`
	ShowCompletion     bool          `json:"show_completion"`
	ProjectDescription string        `json:"project_description,omitempty"`
	HasCredential      bool          `json:"has_credential"`
}

// Engine renders sessions. Callers mutate a session with an action, then call
// Render to produce the next view.
type Engine struct {
	registry  *stages.Registry
	generator ContentGenerator
	logger    *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(registry *stages.Registry, generator ContentGenerator, logger *slog.Logger) *Engine {
	return &Engine{
		registry:  registry,
		generator: generator,
		logger:    logger.With("system", "workflow"),
	}
}

// Registry returns the stage catalog.
func (e *Engine) Registry() *stages.Registry {
	return e.registry
}

// Render produces the view for the current stage. When the stage has no
// content or has pending feedback, Render makes one generation request first.
// A failed generation is reported in View.Error and leaves the session as it
// was, so the next Render retries.
func (e *Engine) Render(ctx context.Context, s *Session) View {
	current := s.CurrentStage()

	var renderErr string
	if !current.IsIntake() && s.NeedsGeneration(current.ID) {
		if err := e.generate(ctx, s, current); err != nil {
			renderErr = err.Error()
		}
	}

	view := e.view(s, current)
	view.Error = renderErr
	return view
}

func (e *Engine) generate(ctx context.Context, s *Session, stage stages.Stage) error {
	prompt, err := stage.Prompt(s.ProjectDescription())
	if err != nil {
		e.logger.Error("resolve prompt", "stage", stage.ID, "error", err)
		return err
	}

	feedback := s.Feedback(stage.ID)
	if feedback != "" {
		prompt += "\n\nFeedback: " + feedback
	}

	content, err := e.generator.Generate(ctx, s.Credential().Reveal(), prompt, stage.ID)
	if err != nil {
		return err
	}

	s.RecordGenerated(stage.ID, content)
	s.ClearFeedback(stage.ID)

	e.logger.Debug("stage rendered", "stage", stage.ID, "regenerated", feedback != "")
	return nil
}

func (e *Engine) view(s *Session, current stages.Stage) View {
	approved, total := s.Progress()
	complete := s.IsComplete()

	view := View{
		Stage:              current,
		Intake:             current.IsIntake(),
		Approved:           approved,
		Total:              total,
		Complete:           complete,
		ShowCompletion:     complete && !s.CompletionAcknowledged(),
		ProjectDescription: s.ProjectDescription(),
		HasCredential:      s.Credential().IsSet(),
		AppliedFeedback:    s.AppliedFeedback(current.ID),
		PendingFeedback:    s.Feedback(current.ID),
	}

	if content, ok := s.Content(current.ID); ok {
		view.Content = content
		view.HasContent = true
	}

	list := e.registry.List()
	view.Stages = make([]StageStatus, len(list))
	for i, stage := range list {
		_, generated := s.Content(stage.ID)
		view.Stages[i] = StageStatus{
			ID:              stage.ID,
			Label:           stage.Label,
			Intake:          stage.IsIntake(),
			Current:         stage.ID == current.ID,
			Approved:        s.Approved(stage.ID),
			Generated:       generated,
			PendingFeedback: s.Feedback(stage.ID) != "",
		}
	}

	return view
}
