// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package grpchealth exposes provider availability through the standard
// gRPC health checking protocol, so orchestrators can probe the service
// without speaking HTTP.
package grpchealth

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jllopis/rulesetgen/pkg/ruleset"
)

// ServiceName is the health service name reported alongside the overall
// ("") status.
const ServiceName = "rulesetgen.RulesetGenerator"

// Checker reports provider health.
type Checker interface {
	Health(ctx context.Context) ruleset.HealthReport
}

// Server mirrors Checker results into a grpc health server.
type Server struct {
	checker  Checker
	health   *health.Server
	interval time.Duration
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithInterval sets how often provider health is refreshed while serving.
func WithInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.interval = d
		}
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

// New creates a Server. Statuses start as NOT_SERVING until the first
// Refresh.
func New(checker Checker, opts ...Option) *Server {
	s := &Server{
		checker:  checker,
		health:   health.NewServer(),
		interval: 30 * time.Second,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Register installs the health service on gs.
func (s *Server) Register(gs *grpc.Server) {
	healthpb.RegisterHealthServer(gs, s.health)
}

// Refresh probes the provider once and publishes the result.
func (s *Server) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	report := s.checker.Health(ctx)
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if report.Healthy() {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.set(status)
	s.logger.DebugContext(ctx, "grpc health refreshed", "provider", report.ProviderName, "status", status.String())
	return status
}

func (s *Server) set(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Serve serves on lis until ctx is cancelled, refreshing health on the
// configured interval.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	gs := grpc.NewServer()
	s.Register(gs)

	go s.refreshLoop(ctx)
	go func() {
		<-ctx.Done()
		s.health.Shutdown()
		gs.GracefulStop()
	}()

	s.logger.Info("grpc health server listening", "addr", lis.Addr().String())
	return gs.Serve(lis)
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

func (s *Server) refreshLoop(ctx context.Context) {
	s.Refresh(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}
