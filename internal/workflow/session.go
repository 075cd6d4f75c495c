// Package workflow tracks one user's progress through the stage catalog and
// renders the current stage, generating content when it is missing or has
// pending feedback.
package workflow

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/JaimeStill/stagehand/internal/stages"
)

// Field names a resettable part of a Session.
type Field string

// Resettable fields.
const (
	FieldCredential         Field = "credential"
	FieldProjectDescription Field = "project_description"
	FieldCurrentStage       Field = "current_stage"
	FieldApproved           Field = "approved"
	FieldFeedback           Field = "feedback"
	FieldGenerated          Field = "generated"
	FieldCompletion         Field = "completion"
)

// Session is the mutable workflow state of one user. It is not safe for
// concurrent use; callers serialize actions per session.
type Session struct {
	registry *stages.Registry

	current                string
	description            string
	credential             Credential
	approved               map[string]bool
	feedback               map[string]string
	applied                map[string]string
	generated              map[string]string
	completionAcknowledged bool
}

// NewSession creates a session positioned on the intake stage.
func NewSession(registry *stages.Registry) *Session {
	s := &Session{registry: registry}
	s.Reset()
	return s
}

// Registry returns the stage catalog the session walks.
func (s *Session) Registry() *stages.Registry {
	return s.registry
}

// StartIntake records the credential and project description and moves to the
// first workflow stage. An empty credential reuses one preserved by Reset.
func (s *Session) StartIntake(credential, description string) error {
	if !s.CurrentStage().IsIntake() {
		return fmt.Errorf("%w: intake already completed", ErrStageNotCurrent)
	}

	credential = strings.TrimSpace(credential)
	description = strings.TrimSpace(description)

	if credential == "" && s.credential.IsSet() {
		credential = s.credential.Reveal()
	}

	var missing []string
	if credential == "" {
		missing = append(missing, "credential")
	}
	if description == "" {
		missing = append(missing, "project description")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, " and "))
	}

	s.credential = Credential(credential)
	s.description = description
	s.current = s.registry.First().ID
	return nil
}

// CurrentStage returns the stage the session is positioned on.
func (s *Session) CurrentStage() stages.Stage {
	stage, err := s.registry.ByID(s.current)
	if err != nil {
		return s.registry.Intake()
	}
	return stage
}

// NeedsGeneration reports whether id has no content or has pending feedback.
func (s *Session) NeedsGeneration(id string) bool {
	_, ok := s.generated[id]
	return !ok || s.feedback[id] != ""
}

// RecordGenerated stores content for id. Pending feedback is left in place.
func (s *Session) RecordGenerated(id, content string) {
	s.generated[id] = content
}

// ClearFeedback drops the pending feedback for id once it has been folded into
// a regeneration. The text is kept as the stage's applied feedback.
func (s *Session) ClearFeedback(id string) {
	if fb := s.feedback[id]; fb != "" {
		s.applied[id] = fb
	}
	delete(s.feedback, id)
}

// Approve marks the current stage approved and advances to the next stage.
// Approving the last stage leaves the session on it. Approving a stage that is
// already approved but no longer current is a no-op.
func (s *Session) Approve(id string) error {
	stage, err := s.registry.ByID(id)
	if err != nil {
		return err
	}
	if stage.IsIntake() {
		return fmt.Errorf("%w: intake stage cannot be approved", ErrValidation)
	}

	if id != s.current {
		if s.approved[id] {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrStageNotCurrent, id)
	}

	s.approved[id] = true

	next, err := s.registry.Next(id)
	if errors.Is(err, stages.ErrEndOfWorkflow) {
		return nil
	}
	if err != nil {
		return err
	}
	s.current = next.ID
	return nil
}

// SubmitFeedback records a revision request for the current stage and revokes
// its approval. The session stays on the stage so it is regenerated.
func (s *Session) SubmitFeedback(id, text string) error {
	stage, err := s.registry.ByID(id)
	if err != nil {
		return err
	}
	if stage.IsIntake() {
		return fmt.Errorf("%w: intake stage takes no feedback", ErrValidation)
	}
	if id != s.current {
		return fmt.Errorf("%w: %w: %s", ErrValidation, ErrStageNotCurrent, id)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: feedback required", ErrValidation)
	}

	s.feedback[id] = text
	s.approved[id] = false
	return nil
}

// IsComplete reports whether every workflow stage is approved.
func (s *Session) IsComplete() bool {
	for _, stage := range s.registry.Workflow() {
		if !s.approved[stage.ID] {
			return false
		}
	}
	return true
}

// AcknowledgeCompletion records that the completion notice was dismissed.
func (s *Session) AcknowledgeCompletion() {
	s.completionAcknowledged = true
}

// Reset returns every field not named in preserve to its initial state.
func (s *Session) Reset(preserve ...Field) {
	keep := func(f Field) bool { return slices.Contains(preserve, f) }

	if !keep(FieldCredential) {
		s.credential = ""
	}
	if !keep(FieldProjectDescription) {
		s.description = ""
	}
	if !keep(FieldCurrentStage) || s.current == "" {
		s.current = s.registry.Intake().ID
	}
	if !keep(FieldApproved) || s.approved == nil {
		s.approved = make(map[string]bool)
	}
	if !keep(FieldFeedback) || s.feedback == nil {
		s.feedback = make(map[string]string)
		s.applied = make(map[string]string)
	}
	if !keep(FieldGenerated) || s.generated == nil {
		s.generated = make(map[string]string)
	}
	if !keep(FieldCompletion) {
		s.completionAcknowledged = false
	}
}

// Approved reports whether id has been approved.
func (s *Session) Approved(id string) bool {
	return s.approved[id]
}

// Feedback returns the pending feedback for id.
func (s *Session) Feedback(id string) string {
	return s.feedback[id]
}

// AppliedFeedback returns the feedback last folded into a regeneration of id.
func (s *Session) AppliedFeedback(id string) string {
	return s.applied[id]
}

// Content returns the generated content for id.
func (s *Session) Content(id string) (string, bool) {
	content, ok := s.generated[id]
	return content, ok
}

// ProjectDescription returns the description supplied at intake.
func (s *Session) ProjectDescription() string {
	return s.description
}

// Credential returns the completion-service credential.
func (s *Session) Credential() Credential {
	return s.credential
}

// CompletionAcknowledged reports whether the completion notice was dismissed.
func (s *Session) CompletionAcknowledged() bool {
	return s.completionAcknowledged
}

// Progress returns the number of approved workflow stages and the total.
func (s *Session) Progress() (approved, total int) {
	workflow := s.registry.Workflow()
	for _, stage := range workflow {
		if s.approved[stage.ID] {
			approved++
		}
	}
	return approved, len(workflow)
}
