package http

import (
	"bytes"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/flosch/pongo2/v6"
)

// pages holds the compiled UI templates.
type pages struct {
	index    *pongo2.Template
	validate *pongo2.Template
	compare  *pongo2.Template
}

func newPages(templates fs.FS, version string) (*pages, error) {
	set := pongo2.NewSet("envguard", pongo2.NewFSLoader(templates))
	set.Globals["version"] = version

	load := func(name string) (*pongo2.Template, error) {
		tmpl, err := set.FromFile(name)
		if err != nil {
			return nil, fmt.Errorf("load template %q: %w", name, err)
		}
		return tmpl, nil
	}

	var (
		p   pages
		err error
	)
	if p.index, err = load("index.html"); err != nil {
		return nil, err
	}
	if p.validate, err = load("validate.html"); err != nil {
		return nil, err
	}
	if p.compare, err = load("compare.html"); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, tmpl *pongo2.Template, ctx pongo2.Context) {
	entries, err := s.guard.Schemas(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to build catalog", "error", err)
		http.Error(w, "failed to load schemas", http.StatusInternalServerError)
		return
	}
	ctx["schemas"] = entries
	ctx["default_schema"] = s.guard.DefaultSchema()

	// Render fully before writing so a template error can still become a 500.
	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to render page", "path", r.URL.Path, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// IndexPage handles GET /.
func (s *Server) IndexPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, s.pages.index, pongo2.Context{"active": "home"})
}

// ValidatePage handles GET /ui/validate.
func (s *Server) ValidatePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, s.pages.validate, pongo2.Context{"active": "validate", "page_title": "Validate"})
}

// ComparePage handles GET /ui/compare.
func (s *Server) ComparePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, s.pages.compare, pongo2.Context{"active": "compare", "page_title": "Compare"})
}
