package export

import (
	"strings"
	"time"
)

const (
	prefixLength  = 20
	defaultPrefix = "project"
	dateLayout    = "20060102_1504"
)

// StageFilename names a single stage download.
func StageFilename(stageID, description string, now time.Time) string {
	return stageID + "_" + Prefix(description) + "_" + now.Format(dateLayout) + ".txt"
}

// WorkflowFilename names the full workflow export.
func WorkflowFilename(description string, now time.Time) string {
	return "full_workflow_" + Prefix(description) + "_" + now.Format(dateLayout) + ".json"
}

// Prefix derives the filename fragment from a project description: the first
// twenty characters with spaces and path separators replaced by underscores.
func Prefix(description string) string {
	if description == "" {
		return defaultPrefix
	}

	runes := []rune(description)
	if len(runes) > prefixLength {
		runes = runes[:prefixLength]
	}

	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\':
			return '_'
		}
		return r
	}, string(runes))
}
