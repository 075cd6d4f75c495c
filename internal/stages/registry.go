package stages

import (
	"fmt"
	"slices"
)

// Registry is the ordered, read-only stage catalog. The first stage is the
// intake stage; every later stage generates content.
type Registry struct {
	stages []Stage
	index  map[string]int
}

// New builds a registry from stages in workflow order. The first stage must be
// the intake stage, at least one workflow stage must follow, ids must be unique,
// and every workflow template must use exactly the {prompt} slot.
func New(stages ...Stage) (*Registry, error) {
	if len(stages) < 2 {
		return nil, fmt.Errorf("%w: need an intake stage and at least one workflow stage", ErrInvalidRegistry)
	}
	if !stages[0].IsIntake() {
		return nil, fmt.Errorf("%w: first stage %s must be the intake stage", ErrInvalidRegistry, stages[0].ID)
	}

	index := make(map[string]int, len(stages))
	for i, s := range stages {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: stage %d has no id", ErrInvalidRegistry, i)
		}
		if _, dup := index[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate stage %s", ErrInvalidRegistry, s.ID)
		}
		index[s.ID] = i

		if i == 0 {
			continue
		}
		if s.IsIntake() {
			return nil, fmt.Errorf("%w: stage %s has no template", ErrInvalidRegistry, s.ID)
		}
		if err := Validate(s.Template, PromptParam); err != nil {
			return nil, fmt.Errorf("%w: stage %s: %w", ErrInvalidRegistry, s.ID, err)
		}
	}

	return &Registry{
		stages: slices.Clone(stages),
		index:  index,
	}, nil
}

// Default returns the built-in SDLC catalog.
func Default() *Registry {
	r, err := New(catalog...)
	if err != nil {
		panic(err)
	}
	return r
}

// List returns every stage in workflow order.
func (r *Registry) List() []Stage {
	return slices.Clone(r.stages)
}

// Len returns the number of stages including intake.
func (r *Registry) Len() int {
	return len(r.stages)
}

// ByID returns the stage with the given id.
func (r *Registry) ByID(id string) (Stage, error) {
	i, err := r.IndexOf(id)
	if err != nil {
		return Stage{}, err
	}
	return r.stages[i], nil
}

// IndexOf returns the position of id in workflow order.
func (r *Registry) IndexOf(id string) (int, error) {
	i, ok := r.index[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return i, nil
}

// Next returns the stage following id. ErrEndOfWorkflow is returned for the
// last stage.
func (r *Registry) Next(id string) (Stage, error) {
	i, err := r.IndexOf(id)
	if err != nil {
		return Stage{}, err
	}
	if i == len(r.stages)-1 {
		return Stage{}, ErrEndOfWorkflow
	}
	return r.stages[i+1], nil
}

// Intake returns the intake stage.
func (r *Registry) Intake() Stage {
	return r.stages[0]
}

// First returns the first workflow stage.
func (r *Registry) First() Stage {
	return r.stages[1]
}

// Workflow returns the stages that generate content, in order.
func (r *Registry) Workflow() []Stage {
	return slices.Clone(r.stages[1:])
}
