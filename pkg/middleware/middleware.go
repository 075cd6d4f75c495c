// Package middleware provides composable HTTP middleware: an ordered stack,
// request logging, CORS, and request body limits.
package middleware

import (
	"net/http"
	"slices"
)

// System manages an ordered stack of HTTP middleware.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(handler http.Handler) http.Handler
}

type mw struct {
	stack []func(http.Handler) http.Handler
}

// New creates an empty middleware System.
func New() System {
	return &mw{}
}

func (m *mw) Use(fn func(http.Handler) http.Handler) {
	m.stack = append(m.stack, fn)
}

// Apply wraps handler so the first registered middleware runs outermost.
func (m *mw) Apply(handler http.Handler) http.Handler {
	for _, fn := range slices.Backward(m.stack) {
		handler = fn(handler)
	}
	return handler
}
