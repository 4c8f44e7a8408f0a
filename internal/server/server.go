// Package server exposes the tool dispatch table to assistant-protocol
// clients over HTTP. The transport is deliberately thin: it decodes tool
// arguments, hands them to the registry, and serializes whatever structured
// result or coded error comes back.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/biolens/biolens/internal/config"
	servermw "github.com/biolens/biolens/internal/server/middleware"
	"github.com/biolens/biolens/internal/tools"
)

// Server represents the HTTP server.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	config   config.ServerConfig
	registry *tools.Registry
	logger   *zap.Logger
	version  string
}

// New creates a new HTTP server instance.
func New(cfg config.ServerConfig, registry *tools.Registry, logger *zap.Logger, version string) *Server {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(servermw.RequestID)
	r.Use(servermw.RequestLogger(logger))
	r.Use(servermw.Recovery(logger))

	s := &Server{
		router:   r,
		config:   cfg,
		registry: registry,
		logger:   logger,
		version:  version,
	}
	s.registerRoutes()
	return s
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	s.logger.Info("starting HTTP server",
		zap.String("addr", addr),
		zap.String("version", s.version),
		zap.Duration("write_timeout", s.config.WriteTimeout))

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the underlying router for testing.
func (s *Server) Handler() http.Handler {
	return s.router
}
