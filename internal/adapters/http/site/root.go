// Package site serves the portfolio shell page, its assets and datasets.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/folio/internal/app"
	"github.com/okian/folio/internal/domain/page"
	"github.com/okian/folio/pkg/logger"
)

// Error constants
var (
	ErrShell = errors.New("shell template unavailable")
	ErrServe = errors.New("site serve failed")
)

const shellName = "index.html"

// Loader runs a full render pass into a page.
type Loader interface {
	LoadAll(ctx context.Context, src service.Sources, p *page.Page) service.Report
}

// Site renders the shell page with every container populated.
type Site struct {
	loader  Loader
	sources service.Sources
	title   string
	assets  fs.FS
	data    fs.FS
	shell   *template.Template
	logger  logger.Logger
}

// Option applies a configuration option to the Site.
type Option func(*Site)

// WithDataFS serves /data/* from fsys instead of the embedded samples.
// fsys must contain the data/ directory.
func WithDataFS(fsys fs.FS) Option {
	return func(s *Site) {
		if fsys != nil {
			s.data = fsys
		}
	}
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(s *Site) {
		if title != "" {
			s.title = title
		}
	}
}

// WithLogger sets a custom logger for the site.
func WithLogger(l logger.Logger) Option {
	return func(s *Site) {
		if l != nil {
			s.logger = l
		}
	}
}

// New parses the embedded shell and returns a Site.
func New(loader Loader, sources service.Sources, opts ...Option) (*Site, error) {
	const op = "site.new"

	s := &Site{
		loader:  loader,
		sources: sources,
		title:   "Portfolio",
		assets:  FS(),
		data:    FS(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("site")
	}

	shell, err := template.ParseFS(s.assets, shellName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrShell, err)
	}
	s.shell = shell
	return s, nil
}

// Register attaches the site routes to r.
func (s *Site) Register(r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Get("/", s.HandleRoot)
	r.Handle("/data/*", http.FileServer(http.FS(s.data)))
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServer(http.FS(s.assets))))
}

type shellData struct {
	Title    string
	PassID   string
	Failed   []string
	Sections map[string]template.HTML
}

// HandleRoot handles GET / by running one render pass and filling the shell.
func (s *Site) HandleRoot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := page.New()
	report := s.loader.LoadAll(ctx, s.sources, p)

	data := shellData{
		Title:    s.title,
		PassID:   report.PassID,
		Sections: p.Sections(),
	}
	for _, res := range report.Failed() {
		data.Failed = append(data.Failed, string(res.Dataset))
	}

	var buf bytes.Buffer
	if err := s.shell.Execute(&buf, data); err != nil {
		s.logger.Error(ctx, "shell render failed", logger.Error(fmt.Errorf("%w: %v", ErrServe, err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
