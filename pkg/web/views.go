// Package web serves server-rendered pages from pre-parsed templates and
// embedded static assets.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// ViewDef names a page template and its title.
type ViewDef struct {
	Template string
	Title    string
}

// ViewData is passed to every page template. BasePath enables portable URL
// generation via {{ .BasePath }}.
type ViewData struct {
	Title    string
	BasePath string
	Data     any
}

// TemplateSet holds one parsed template tree per view, each cloned from the
// shared layouts.
type TemplateSet struct {
	views    map[string]*template.Template
	basePath string
}

// NewTemplateSet parses the layouts matched by layoutGlob, then clones them for
// each view found under viewSubdir. Parse errors surface at startup.
func NewTemplateSet(fsys fs.FS, layoutGlob, viewSubdir, basePath string, funcs template.FuncMap, views []ViewDef) (*TemplateSet, error) {
	layouts, err := template.New("").Funcs(funcs).ParseFS(fsys, layoutGlob)
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}

	viewFS, err := fs.Sub(fsys, viewSubdir)
	if err != nil {
		return nil, err
	}

	set := make(map[string]*template.Template, len(views))
	for _, v := range views {
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", v.Template, err)
		}
		if _, err := t.ParseFS(viewFS, v.Template); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", v.Template, err)
		}
		set[v.Template] = t
	}

	return &TemplateSet{
		views:    set,
		basePath: basePath,
	}, nil
}

// BasePath returns the URL prefix the set renders links against.
func (ts *TemplateSet) BasePath() string {
	return ts.basePath
}

// Data builds the ViewData for view.
func (ts *TemplateSet) Data(view ViewDef, data any) ViewData {
	return ViewData{
		Title:    view.Title,
		BasePath: ts.basePath,
		Data:     data,
	}
}

// Render executes layout for view into a buffer and writes it with status.
// Nothing is written when execution fails.
func (ts *TemplateSet) Render(w http.ResponseWriter, status int, layout string, view ViewDef, data any) error {
	t, ok := ts.views[view.Template]
	if !ok {
		return fmt.Errorf("template not found: %s", view.Template)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layout, ts.Data(view, data)); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// PageHandler returns a handler that renders view with no page data.
func (ts *TemplateSet) PageHandler(layout string, view ViewDef, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ts.Render(w, status, layout, view, nil); err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}
