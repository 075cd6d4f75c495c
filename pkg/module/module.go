// Package module mounts self-contained HTTP handlers under single-level path
// prefixes, each with its own middleware stack.
package module

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/JaimeStill/stagehand/pkg/middleware"
)

// ErrInvalidPrefix reports a module prefix that is not a single-level sub-path.
var ErrInvalidPrefix = errors.New("invalid module prefix")

// Module strips its prefix from incoming requests and delegates to an inner
// handler wrapped in the module's middleware.
type Module struct {
	prefix     string
	handler    http.Handler
	middleware middleware.System
}

// New creates a Module mounted at prefix (for example "/api").
// It panics when prefix is not a single-level sub-path.
func New(prefix string, handler http.Handler) *Module {
	if err := ValidatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		handler:    handler,
		middleware: middleware.New(),
	}
}

// Prefix returns the mount prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware to the module stack. The first registered runs outermost.
func (m *Module) Use(mw ...func(http.Handler) http.Handler) {
	for _, fn := range mw {
		m.middleware.Use(fn)
	}
}

// Handler returns the inner handler wrapped in the module middleware.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.handler)
}

// ServeHTTP serves req with the module prefix removed from its path.
func (m *Module) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	m.Handler().ServeHTTP(w, stripPrefix(req, m.prefix))
}

// ValidatePrefix reports whether prefix is usable as a module mount point.
func ValidatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("%w: empty", ErrInvalidPrefix)
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("%w: %s must start with /", ErrInvalidPrefix, prefix)
	case len(prefix) == 1 || strings.Count(prefix, "/") != 1:
		return fmt.Errorf("%w: %s must be a single-level sub-path", ErrInvalidPrefix, prefix)
	}
	return nil
}

func stripPrefix(req *http.Request, prefix string) *http.Request {
	path := strings.TrimPrefix(req.URL.Path, prefix)
	if path == "" {
		path = "/"
	}

	r := new(http.Request)
	*r = *req
	r.URL = new(url.URL)
	*r.URL = *req.URL
	r.URL.Path = path
	r.URL.RawPath = ""
	return r
}
