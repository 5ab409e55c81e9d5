// Package api hosts the contact-form HTTP service.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cassiecay/portfolio-ops/internal/config"
)

// Server wraps the HTTP server and router for the contact-form service.
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	server  *http.Server
}

// NewServer creates the API server around a configured contact handler.
func NewServer(cfg config.ServerConfig, contactHandler *ContactHandler) *Server {
	return &Server{
		config:  cfg,
		handler: SetupRoutes(contactHandler, cfg.AllowedOrigins),
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler: s.handler,
		// Requests are small and every upstream call is bounded, so the
		// server timeouts can be tight.
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}
