// Package stages defines the ordered catalog of SDLC workflow stages and the
// prompt templates that drive content generation for each one.
package stages

// PromptParam is the template slot filled with the project description.
const PromptParam = "prompt"

// Stage is one step of the workflow. Only the intake stage has no template.
type Stage struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Template string `json:"-"`
}

// IsIntake reports whether s collects the credential and project description
// rather than generating content.
func (s Stage) IsIntake() bool {
	return s.Template == ""
}

// Prompt resolves the stage template with the project description.
func (s Stage) Prompt(description string) (string, error) {
	return Resolve(s.Template, map[string]string{PromptParam: description})
}
