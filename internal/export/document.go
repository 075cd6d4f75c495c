// Package export assembles a session's generated content into a downloadable
// JSON document and builds the download filenames.
package export

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/JaimeStill/stagehand/internal/stages"
	"github.com/JaimeStill/stagehand/internal/workflow"
)

// Step is the exported state of one generated stage.
type Step struct {
	Content  string `json:"content"`
	Feedback string `json:"feedback"`
	Approved bool   `json:"approved"`
}

// Document is the full workflow export. Steps holds only stages with generated
// content, in registry order.
type Document struct {
	Project   string
	Timestamp string
	Steps     []StageStep
	Complete  bool
}

// StageStep pairs a Step with its stage id.
type StageStep struct {
	StageID string
	Step
}

// Assemble captures the session at now. It reads the session only; Complete
// reports whether every stage is approved without acknowledging anything.
func Assemble(s *workflow.Session, registry *stages.Registry, now time.Time) Document {
	doc := Document{
		Project:   s.ProjectDescription(),
		Timestamp: now.Format(time.RFC3339),
		Complete:  s.IsComplete(),
	}

	for _, stage := range registry.Workflow() {
		content, ok := s.Content(stage.ID)
		if !ok {
			continue
		}

		feedback := s.Feedback(stage.ID)
		if feedback == "" {
			feedback = s.AppliedFeedback(stage.ID)
		}

		doc.Steps = append(doc.Steps, StageStep{
			StageID: stage.ID,
			Step: Step{
				Content:  content,
				Feedback: feedback,
				Approved: s.Approved(stage.ID),
			},
		})
	}

	return doc
}

// MarshalJSON writes {project, timestamp, steps} with steps keyed by stage id
// in registry order.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`{"project":`)
	if err := writeJSON(&buf, d.Project); err != nil {
		return nil, err
	}
	buf.WriteString(`,"timestamp":`)
	if err := writeJSON(&buf, d.Timestamp); err != nil {
		return nil, err
	}
	buf.WriteString(`,"steps":{`)
	for i, step := range d.Steps {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, step.StageID); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, step.Step); err != nil {
			return nil, err
		}
	}
	buf.WriteString(`}}`)

	return buf.Bytes(), nil
}

// Encode renders doc as JSON indented by two spaces. Generated code is kept
// readable: HTML characters are not escaped.
func Encode(doc Document) ([]byte, error) {
	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(out.Bytes(), []byte("\n")), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}
