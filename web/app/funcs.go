package app

import (
	"html/template"

	"github.com/JaimeStill/stagehand/internal/workflow"
)

var funcs = template.FuncMap{
	"percent":  percent,
	"position": position,
}

func percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return n * 100 / total
}

// position returns the 1-based place of id among the generation stages.
func position(stages []workflow.StageStatus, id string) int {
	n := 0
	for _, s := range stages {
		if s.Intake {
			continue
		}
		n++
		if s.ID == id {
			return n
		}
	}
	return 0
}
