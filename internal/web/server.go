// Package web serves the dashboard API: recent security events, event
// deletion, summary stats and the locally stored evidence images.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/doorwarden/doorwarden/internal/sink"
	"github.com/doorwarden/doorwarden/internal/web/middleware"
)

// Server represents the dashboard web server
type Server struct {
	router      *chi.Mux
	httpServer  *http.Server
	events      sink.EventSink
	evidenceDir string
}

// NewServer creates a new dashboard server backed by the given event sink.
// evidenceDir may be empty when no local evidence storage is configured.
func NewServer(events sink.EventSink, host string, port int, evidenceDir string) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:      r,
		events:      events,
		evidenceDir: evidenceDir,
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(30 * time.Second))
	r.Use(middleware.CORS())

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("Starting dashboard server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down dashboard server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
