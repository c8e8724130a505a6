// Package server exposes the HTTP API and dashboard for submitting and
// inspecting card generation runs.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cardforge/cardforge/internal/card"
	"github.com/cardforge/cardforge/internal/cardrepo"
	"github.com/cardforge/cardforge/internal/catalog"
	"github.com/cardforge/cardforge/internal/engine"
)

// RunService defines the run surface the API needs. Lookups cover both
// live runs and runs that have already been flushed to the durable store.
type RunService interface {
	// Submit accepts a validated run request and returns its run ID.
	Submit(ctx context.Context, req engine.RunRequest) (string, error)

	// Cancel requests cancellation. Returns false for unknown or
	// already terminal runs.
	Cancel(ctx context.Context, runID string) (bool, error)

	// GetRun returns a run by ID, or nil when it does not exist.
	GetRun(ctx context.Context, runID string) (*RunDetail, error)

	// GetRuns returns recent runs, newest first.
	GetRuns(ctx context.Context, limit int) ([]RunSummary, error)

	// GetStats returns overall statistics.
	GetStats(ctx context.Context) (*StatsResponse, error)
}

// CardService defines the card browsing surface.
type CardService interface {
	// Tree returns the stored card hierarchy.
	Tree(ctx context.Context) ([]cardrepo.StoredNode, error)

	// List returns cards stored under one facility.
	List(ctx context.Context, sector, subSector, facility string) ([]*card.Card, error)
}

// Server represents the HTTP server for the Cardforge API and dashboard.
type Server struct {
	addr    string
	runs    RunService
	cards   CardService
	catalog *catalog.Catalog
	logger  *slog.Logger

	srv       *http.Server
	router    *http.ServeMux
	startTime time.Time

	mu      sync.RWMutex
	started bool
}

// New creates a new Server instance
func New(addr string, runs RunService, cards CardService, cat *catalog.Catalog, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		addr:      addr,
		runs:      runs,
		cards:     cards,
		catalog:   cat,
		logger:    logger,
		startTime: time.Now(),
		router:    http.NewServeMux(),
	}

	s.registerRoutes()

	return s
}

// registerRoutes sets up all HTTP routes
func (s *Server) registerRoutes() {
	// API routes
	s.router.HandleFunc("GET /api/health", s.handleHealth)
	s.router.HandleFunc("POST /api/runs", s.handleSubmitRun)
	s.router.HandleFunc("GET /api/runs", s.handleListRuns)
	s.router.HandleFunc("GET /api/runs/{id}", s.handleGetRun)
	s.router.HandleFunc("DELETE /api/runs/{id}", s.handleCancelRun)
	s.router.HandleFunc("GET /api/catalog", s.handleGetCatalog)
	s.router.HandleFunc("GET /api/cards", s.handleGetCardTree)
	s.router.HandleFunc("GET /api/stats", s.handleGetStats)

	// UI routes
	s.router.HandleFunc("GET /", s.handleDashboard)
	s.router.HandleFunc("GET /runs/{id}", s.handleRunDetail)
}

// Handler returns the routed handler with middleware applied. Exposed
// for tests.
func (s *Server) Handler() http.Handler {
	return s.loggingMiddleware(s.router)
}

// Start starts the HTTP server with graceful shutdown support
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("server already started")
	}
	s.started = true
	s.mu.Unlock()

	s.srv = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	s.logger.Info("starting HTTP server", "addr", s.addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server", "reason", ctx.Err())
		return s.Stop(context.Background())
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.srv == nil {
		return nil
	}

	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error during shutdown", "error", err)
		return fmt.Errorf("shutdown failed: %w", err)
	}

	s.started = false
	s.logger.Info("HTTP server stopped")
	return nil
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration_ms", duration.Milliseconds(),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Uptime returns the server uptime as a string
func (s *Server) Uptime() string {
	duration := time.Since(s.startTime)
	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60
	seconds := int(duration.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
