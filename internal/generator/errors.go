package generator

import (
	"errors"
	"fmt"
	"net/http"
)

// Generation errors.
var (
	ErrGeneration    = errors.New("content generation failed")
	ErrEmptyResponse = errors.New("completion service returned no content")
	ErrNoCredential  = errors.New("completion credential required")
)

// GenerationError reports a failed completion request for a stage. The stage
// has no new content when this error is returned.
type GenerationError struct {
	StageID string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.StageID, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is reports true for ErrGeneration so callers can classify without a type assertion.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

// MapHTTPStatus maps generation errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrGeneration) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
