package http

import (
	"context"
	"encoding/base64"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/quake-chart-service/internal/domain"
	"github.com/couchcryptid/quake-chart-service/internal/observability"
)

// PageBuilder fetches and renders a fresh page. It also reports readiness.
type PageBuilder interface {
	sharedobs.ReadinessChecker
	Build(ctx context.Context) (domain.Page, error)
}

// Server exposes the chart page plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	pages      PageBuilder
	projectURL string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server with /, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, pages PageBuilder, projectURL string, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
			// Two sequential upstream calls plus rendering.
			WriteTimeout: 45 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		pages:      pages,
		projectURL: projectURL,
		logger:     logger,
		metrics:    metrics,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(pages))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := s.pages.Build(r.Context())
	if err != nil {
		s.metrics.PageRequests.WithLabelValues("error").Inc()
		s.logger.Error("build page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, newIndexView(page, s.projectURL)); err != nil {
		s.metrics.PageRequests.WithLabelValues("error").Inc()
		s.logger.Error("write page", "error", err)
		return
	}
	s.metrics.PageRequests.WithLabelValues("success").Inc()
}

type indexView struct {
	SourceURL   string
	SourceTitle string
	Fallback    bool
	FetchedAt   string
	EventCount  int
	ImageSrc    template.URL
	ProjectURL  string
}

func newIndexView(page domain.Page, projectURL string) indexView {
	return indexView{
		SourceURL:   page.SourceURL,
		SourceTitle: page.SourceTitle,
		Fallback:    page.Source == domain.SourceGlobal,
		FetchedAt:   page.FetchedAt.Local().Format(time.DateTime),
		EventCount:  page.EventCount,
		// Base64 output cannot break out of the attribute.
		ImageSrc:   template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(page.Image)),
		ProjectURL: projectURL,
	}
}
