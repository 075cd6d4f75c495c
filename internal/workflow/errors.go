package workflow

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/stagehand/internal/generator"
	"github.com/JaimeStill/stagehand/internal/stages"
)

// Workflow errors. Registry errors from package stages pass through unchanged.
var (
	ErrValidation      = errors.New("validation failed")
	ErrStageNotCurrent = errors.New("stage is not the current stage")
)

// MapHTTPStatus maps workflow errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrStageNotCurrent):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, stages.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, generator.ErrGeneration):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
