package sessions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/stagehand/internal/workflow"
)

// Session errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidRequest  = errors.New("invalid request body")
	ErrNoContent       = errors.New("stage has no generated content")
)

// MapHTTPStatus maps session and workflow errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrNoContent):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	}
	return workflow.MapHTTPStatus(err)
}
