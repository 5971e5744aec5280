// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package generator turns a project description into a ruleset. It is the
// single orchestration path shared by every transport: build the prompt,
// make one provider attempt under the configured timeout and fall back to
// the static template on any failure.
package generator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jllopis/rulesetgen/pkg/errors"
	"github.com/jllopis/rulesetgen/pkg/fallback"
	"github.com/jllopis/rulesetgen/pkg/guardrails"
	"github.com/jllopis/rulesetgen/pkg/project"
	"github.com/jllopis/rulesetgen/pkg/prompt"
	"github.com/jllopis/rulesetgen/pkg/resilience"
	"github.com/jllopis/rulesetgen/pkg/ruleset"
	"github.com/jllopis/rulesetgen/pkg/service"
	"github.com/jllopis/rulesetgen/pkg/telemetry"
)

// Generator is built once at startup and shared across requests.
type Generator struct {
	service *service.Service
	timeout time.Duration
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *telemetry.Metrics
	guard   *guardrails.Guardrails
	now     func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithTimeout bounds each provider call. Zero leaves only the caller's
// deadline.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		g.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithTracer sets the tracer used for generation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(g *Generator) {
		if tracer != nil {
			g.tracer = tracer
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(g *Generator) {
		g.metrics = m
	}
}

// WithGuardrails screens the free-text fields of each project before the
// provider is called. A blocked project is served from the fallback
// template.
func WithGuardrails(guard *guardrails.Guardrails) Option {
	return func(g *Generator) {
		g.guard = guard
	}
}

// New creates a Generator over svc. A nil svc behaves as an uninitialized
// service, so every request is served from the fallback template.
func New(svc *service.Service, opts ...Option) *Generator {
	if svc == nil {
		svc = &service.Service{}
	}
	g := &Generator{
		service: svc,
		logger:  slog.Default(),
		tracer:  otel.Tracer("rulesetgen/generator"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ProviderName returns the name of the provider behind the generator.
func (g *Generator) ProviderName() string {
	return g.service.ProviderName()
}

// Generate produces a ruleset for info. It never fails: any provider
// failure, including an exceeded deadline, yields a fallback document that
// carries the failure reason.
func (g *Generator) Generate(ctx context.Context, info project.Info) ruleset.Ruleset {
	id := uuid.NewString()
	ctx = telemetry.WithRuleset(ctx, id, g.service.ProviderName())
	ctx, span := g.tracer.Start(ctx, "ruleset.generate",
		trace.WithAttributes(telemetry.ProjectAttributes(info)...))
	defer span.End()

	text := prompt.Build(info)

	rs, outcome := resilience.WithFallback(ctx,
		func(ctx context.Context) (ruleset.Ruleset, error) {
			if err := resilience.CheckContext(ctx); err != nil {
				return ruleset.Ruleset{}, err
			}
			if err := g.screen(ctx, info); err != nil {
				return ruleset.Ruleset{}, err
			}
			content, err := g.callProvider(ctx, text)
			if err != nil {
				return ruleset.Ruleset{}, err
			}
			return ruleset.Ruleset{
				Content:    content,
				SourceKind: ruleset.AIGenerated,
				Project:    info,
			}, nil
		},
		resilience.FallbackFunc[ruleset.Ruleset](func(_ context.Context, err error) ruleset.Ruleset {
			return fallback.Build(info, reason(err))
		}),
	)

	rs.ID = id
	rs.GeneratedAt = g.now().UTC()
	rs.ProviderName = g.service.ProviderName()

	span.SetAttributes(telemetry.RulesetAttributes(rs.ID, string(rs.SourceKind), len(rs.Content), rs.FailureReason)...)
	g.metrics.RecordRuleset(ctx, string(rs.SourceKind), rs.ProviderName)

	if outcome.Degraded() {
		g.logger.WarnContext(ctx, "ai generation failed, serving fallback ruleset",
			"error_code", errors.CodeOf(outcome.Err),
			"reason", rs.FailureReason,
		)
	} else {
		g.logger.InfoContext(ctx, "ruleset generated", "length", len(rs.Content))
	}
	return rs
}

// screen runs the guardrails over info. A blocked project yields a
// ValidationError naming the offending field.
func (g *Generator) screen(ctx context.Context, info project.Info) error {
	res := g.guard.CheckProject(ctx, info)
	if !res.Blocked {
		return nil
	}
	err := errors.Validation(res.Field, "project description rejected: "+res.Reason).
		WithContext("guardrail", res.GuardrailID)
	trace.SpanFromContext(ctx).AddEvent("guardrail.blocked", trace.WithAttributes(
		attribute.String("guardrail.id", res.GuardrailID),
		attribute.String("guardrail.field", res.Field),
	))
	g.metrics.RecordError(ctx, err, "guardrails")
	return err
}

func (g *Generator) callProvider(ctx context.Context, text string) (string, error) {
	name := g.service.ProviderName()
	ctx, span := g.tracer.Start(ctx, "llm.generate",
		trace.WithAttributes(telemetry.LLMAttributes(g.service.Model(), name, len(text))...))
	defer span.End()

	start := time.Now()
	content, err := resilience.WithTimeoutResult(ctx, resilience.TimeoutConfig{Duration: g.timeout},
		func(ctx context.Context) (string, error) {
			return g.service.GenerateRuleset(ctx, text)
		})
	if err == nil && strings.TrimSpace(content) == "" {
		err = errors.Provider(name, "provider returned an empty ruleset", nil)
	}

	durationMs := float64(time.Since(start).Microseconds()) / 1000
	span.SetAttributes(telemetry.LLMUsageAttributes(0, 0, durationMs)...)
	g.metrics.RecordLLMDuration(ctx, name, durationMs, err == nil)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(telemetry.AttrErrorCode, string(errors.CodeOf(err))))
		g.metrics.RecordError(ctx, err, "generator")
		return "", err
	}
	span.SetStatus(codes.Ok, "")
	return content, nil
}

// reason returns the message reported to users for a generation failure.
func reason(err error) string {
	e, ok := errors.As(err)
	if !ok {
		return err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Health summarizes provider availability. The message is the provider
// error, or ruleset.OperationalMessage when the provider is available.
func (g *Generator) Health(ctx context.Context) ruleset.HealthReport {
	h := g.service.CheckHealth(ctx)

	report := ruleset.HealthReport{
		Status:       ruleset.StatusUnhealthy,
		ProviderName: g.service.ProviderName(),
		Available:    h.Available,
		Model:        h.Model,
		Message:      h.Error,
		CheckedAt:    h.CheckedAt,
	}
	if h.Available {
		report.Status = ruleset.StatusHealthy
		report.Message = ruleset.OperationalMessage
	} else if report.Message == "" {
		report.Message = "provider unavailable"
	}
	if report.CheckedAt.IsZero() {
		report.CheckedAt = g.now()
	}

	g.metrics.RecordHealth(ctx, report.ProviderName, h.Available)
	return report
}
