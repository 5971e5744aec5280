// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package httpapi serves the ruleset generator over HTTP.
package httpapi

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jllopis/rulesetgen/pkg/catalog"
	"github.com/jllopis/rulesetgen/pkg/project"
	"github.com/jllopis/rulesetgen/pkg/ruleset"
	"github.com/jllopis/rulesetgen/pkg/telemetry"
)

// Generator is the orchestration used by the handlers.
type Generator interface {
	Generate(ctx context.Context, info project.Info) ruleset.Ruleset
	Health(ctx context.Context) ruleset.HealthReport
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	gen            Generator
	catalog        *catalog.Catalog
	name           string
	version        string
	allowedOrigins []string
	logger         *slog.Logger
	now            func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithCatalog replaces the built-in catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Server) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithVersion sets the name and version reported by the root endpoint.
func WithVersion(name, version string) Option {
	return func(s *Server) {
		s.name = name
		s.version = version
	}
}

// WithAllowedOrigins sets the origins accepted for cross-origin requests.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Server over gen.
func New(gen Generator, opts ...Option) *Server {
	s := &Server{
		gen:     gen,
		catalog: catalog.Default(),
		name:    "AI Ruleset Generator API",
		version: "1.0.0",
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed gin engine.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), corsMiddleware(s.allowedOrigins))

	r.GET("/", s.root)
	r.GET("/health", s.health)
	r.POST("/generate-ruleset", s.generate)
	r.GET("/project-types", s.projectTypes)
	r.GET("/frameworks", s.frameworks)
	r.GET("/project-categories", s.projectCategories)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(telemetry.WithTransport(c.Request.Context(), "http"))
		c.Next()
		s.logger.InfoContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
