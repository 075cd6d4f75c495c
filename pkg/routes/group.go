// Package routes declares HTTP route groups once and uses the declaration both
// to register handlers and to describe them in an OpenAPI document.
package routes

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/stagehand/pkg/openapi"
)

// Group organizes routes under a common prefix with shared tags.
type Group struct {
	Prefix   string
	Tags     []string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	walk(groups, "", nil, func(path string, _ []string, route Route) {
		mux.HandleFunc(route.Method+" "+path, route.Handler)
	})
}

// Document adds an operation to spec for every route that carries OpenAPI
// metadata. Group tags apply to operations that declare none.
func Document(spec *openapi.Spec, groups ...Group) {
	walk(groups, "", nil, func(path string, tags []string, route Route) {
		if route.OpenAPI == nil {
			return
		}

		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}

		key := openAPIPath(path)
		item, ok := spec.Paths[key]
		if !ok {
			item = &openapi.PathItem{}
			spec.Paths[key] = item
		}
		item.Set(route.Method, &op)
	})
}

func walk(groups []Group, parent string, tags []string, fn func(string, []string, Route)) {
	for _, group := range groups {
		prefix := parent + group.Prefix
		groupTags := tags
		if len(group.Tags) > 0 {
			groupTags = group.Tags
		}
		for _, route := range group.Routes {
			fn(prefix+route.Pattern, groupTags, route)
		}
		walk(group.Children, prefix, groupTags, fn)
	}
}

// openAPIPath converts ServeMux wildcards such as {key...} to OpenAPI templates.
func openAPIPath(pattern string) string {
	return strings.ReplaceAll(pattern, "...}", "}")
}
