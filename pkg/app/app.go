// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package app is the composition root: it turns a loaded configuration into
// a ready Generator and runs the transports that share it.
package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jllopis/rulesetgen/pkg/config"
	"github.com/jllopis/rulesetgen/pkg/generator"
	"github.com/jllopis/rulesetgen/pkg/grpchealth"
	"github.com/jllopis/rulesetgen/pkg/guardrails"
	"github.com/jllopis/rulesetgen/pkg/httpapi"
	"github.com/jllopis/rulesetgen/pkg/mcp"
	"github.com/jllopis/rulesetgen/pkg/service"
	"github.com/jllopis/rulesetgen/pkg/telemetry"
)

// Name and Version identify the service on every transport.
const (
	Name    = "AI Ruleset Generator API"
	Version = "1.0.0"
)

// App holds the components built once at startup.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Service   *service.Service
	Generator *generator.Generator

	shutdown telemetry.ShutdownFunc
}

type options struct {
	logOutput      io.Writer
	stdoutReserved bool
	serviceOpts    []service.Option
}

// Option configures New.
type Option func(*options)

// WithLogOutput sets where logs are written. Defaults to stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// WithStdoutReserved marks stdout as carrying protocol traffic, so the
// stdout telemetry exporter writes to the log output instead.
func WithStdoutReserved() Option {
	return func(o *options) { o.stdoutReserved = true }
}

// WithServiceOptions passes options through to service.New.
func WithServiceOptions(opts ...service.Option) Option {
	return func(o *options) { o.serviceOpts = append(o.serviceOpts, opts...) }
}

// New configures logging and telemetry, selects the AI provider and builds
// the Generator. An unsupported provider selector is a ConfigurationError.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	logger := telemetry.ConfigureSlog(o.logOutput, cfg.Log.Level, cfg.Log.Format)

	shutdown := telemetry.ShutdownFunc(func(context.Context) error { return nil })
	if cfg.Telemetry.Enabled {
		tc := telemetry.Config{
			Exporter:     cfg.Telemetry.Exporter,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			OTLPInsecure: cfg.Telemetry.OTLPInsecure,
			Provider:     cfg.LLM.Provider,
		}
		if o.stdoutReserved && tc.Exporter == telemetry.ExporterStdout {
			logger.Warn("stdout telemetry exporter redirected to the log output while stdout carries protocol traffic")
			tc.Output = o.logOutput
		}
		var err error
		shutdown, err = telemetry.InitWithConfig(cfg.Telemetry.ServiceName, Version, tc)
		if err != nil {
			return nil, err
		}
	}

	svc, err := service.New(ctx, cfg.LLM, append([]service.Option{service.WithLogger(logger)}, o.serviceOpts...)...)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	metrics, err := telemetry.NewMetrics(nil)
	if err != nil {
		logger.Warn("metrics disabled", "error", err)
	}

	genOpts := []generator.Option{
		generator.WithTimeout(cfg.LLM.Timeout),
		generator.WithLogger(logger),
		generator.WithMetrics(metrics),
	}
	if cfg.LLM.Guardrails {
		genOpts = append(genOpts, generator.WithGuardrails(guardrails.New(guardrails.WithPromptInjectionDetector())))
	}
	gen := generator.New(svc, genOpts...)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Service:   svc,
		Generator: gen,
		shutdown:  shutdown,
	}, nil
}

// HTTPServer builds the REST transport.
func (a *App) HTTPServer() *httpapi.Server {
	return httpapi.New(a.Generator,
		httpapi.WithVersion(Name, Version),
		httpapi.WithAllowedOrigins(a.Config.Server.AllowedOrigins...),
		httpapi.WithLogger(a.Logger),
	)
}

// MCPServer builds the MCP tool server.
func (a *App) MCPServer() *mcp.Server {
	return mcp.NewServer("rulesetgen", Version, a.Generator, a.Logger)
}

// HealthServer builds the gRPC health service.
func (a *App) HealthServer() *grpchealth.Server {
	return grpchealth.New(a.Generator,
		grpchealth.WithInterval(a.Config.LLM.HealthTTL),
		grpchealth.WithLogger(a.Logger),
	)
}

// Serve runs the HTTP API and, when server.grpc_addr is set, the gRPC
// health server until ctx is cancelled or one of them fails.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		name string
		err  error
	}
	results := make(chan result, 2)
	running := 0

	start := func(name string, fn func(context.Context) error) {
		running++
		go func() {
			results <- result{name, fn(ctx)}
		}()
	}

	api := a.HTTPServer()
	start("http", func(ctx context.Context) error {
		return api.ListenAndServe(ctx, a.Config.Server.Addr())
	})
	if addr := a.Config.Server.GRPCAddr; addr != "" {
		hs := a.HealthServer()
		start("grpc", func(ctx context.Context) error {
			return hs.ListenAndServe(ctx, addr)
		})
	}

	var first error
	for range running {
		r := <-results
		if r.err != nil && first == nil {
			a.Logger.Error("server stopped", "server", r.name, "error", r.err)
			first = r.err
		}
		// Either server stopping ends the others.
		cancel()
	}
	return first
}

// Close flushes telemetry.
func (a *App) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return a.shutdown(ctx)
}
