package http

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/frontend"
	"github.com/secmon-lab/opsdash/pkg/domain/model"
	"github.com/secmon-lab/opsdash/pkg/service/chart"
	"github.com/secmon-lab/opsdash/pkg/usecase"
	"github.com/secmon-lab/opsdash/pkg/utils/apperr"
)

// Server represents the HTTP server
type Server struct {
	*http.Server
	router   chi.Router
	backend  usecase.Backend
	renderer *chart.Renderer
	pages    *template.Template
	metrics  *Metrics
	now      func() time.Time
}

// Option configures the server
type Option func(*Server)

// WithRenderer sets the donut renderer used by the dashboard page
func WithRenderer(r *chart.Renderer) Option {
	return func(s *Server) {
		s.renderer = r
	}
}

// WithClock replaces the time source used for report defaults
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, addr string, backend usecase.Backend, opts ...Option) (*Server, error) {
	server := &Server{
		backend:  backend,
		renderer: chart.NewRenderer(nil),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(server)
	}

	pages, err := parsePages()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse page templates")
	}
	server.pages = pages
	server.metrics = NewMetrics(backend)

	router := chi.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(server.metrics.Middleware)
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", handleHealth)

	// JSON API
	router.Route("/api", func(r chi.Router) {
		r.Use(CORS)
		r.Get("/dashboard-stats", server.handleDashboardStats)
		r.Get("/transactions-feed", server.handleTransactionsFeed)
		r.Get("/usernames", server.handleUsernames)
		r.Get("/db-status", server.handleDBStatus)
		r.Get("/db-table-stats", server.handleDBTableStats)
	})

	router.Post("/download_report", server.handleDownloadReport)
	router.Post("/admin/clear-db", server.handleClearDB)
	router.Handle("/metrics", server.metrics.Handler())
	router.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Server-rendered pages
	router.Get("/", server.handleDashboardPage)
	router.Get("/transactions", server.handleTransactionsPage)

	staticFS, err := frontend.StaticFS()
	if err != nil {
		ctxlog.From(ctx).Warn("Failed to get embedded static files", "error", err)
	} else {
		router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(staticFS)))
	}

	server.router = router
	server.Server = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
	}

	return server, nil
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "opsdash",
	})
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

// writeError logs err and writes it as {"error": msg} with a status
// derived from its tags
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apperr.Handle(r.Context(), err)

	message := err.Error()
	if errors.Is(err, model.ErrNoTransactions) {
		message = model.ErrNoTransactions.Error()
	}

	writeJSON(w, r, apperr.StatusCode(err), map[string]string{
		"error": message,
	})
}
