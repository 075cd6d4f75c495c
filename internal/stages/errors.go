package stages

import (
	"errors"
	"net/http"
)

// Registry and template errors.
var (
	ErrNotFound           = errors.New("stage not found")
	ErrEndOfWorkflow      = errors.New("end of workflow")
	ErrInvalidRegistry    = errors.New("invalid stage registry")
	ErrMissingParam       = errors.New("missing template parameter")
	ErrMissingPlaceholder = errors.New("template missing required placeholder")
	ErrUnknownPlaceholder = errors.New("template has unknown placeholder")
)

// MapHTTPStatus maps stage errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
