// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/folio/internal/app"
	"github.com/okian/folio/internal/domain/page"
	"github.com/okian/folio/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the renderer implementation.
type Dependencies interface {
	LoadExperience(ctx context.Context, url string, c page.Container) service.Result
	LoadSkills(ctx context.Context, url string, c page.Container) service.Result
	LoadProjects(ctx context.Context, url string, c page.Container) service.Result
	LoadEducation(ctx context.Context, url string, edu, certs page.Container) service.Result

	// LastReport exposes the most recent full render pass.
	LastReport() (service.Report, bool)
}

// Server wires HTTP routes for the renderer API.
type Server struct {
	healthHandler    *HealthHandler
	statusHandler    *StatusHandler
	fragmentsHandler *FragmentsHandler
	logger           logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, sources service.Sources, log logger.Logger) *Server {
	if log == nil {
		log = logger.Named("api")
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statusHandler:    NewStatusHandler(deps),
		fragmentsHandler: NewFragmentsHandler(deps, sources),
		logger:           log,
	}
}

// Register attaches the API routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/status", s.statusHandler.HandleStatus)
	r.Get("/fragments/{dataset}", s.fragmentsHandler.HandleFragments)
}

// Middlewares returns the middleware chain shared by every route.
func (s *Server) Middlewares() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		RequestID,
		Recovery(s.logger),
		MetricsMiddleware,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
