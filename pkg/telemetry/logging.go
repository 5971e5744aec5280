// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// Log attribute keys added from the request context.
const (
	LogKeyTraceID   = "trace_id"
	LogKeySpanID    = "span_id"
	LogKeyRulesetID = "ruleset_id"
	LogKeyProvider  = "provider"
	LogKeyTransport = "transport"
)

type logScopeKey struct{}

// logScope is the request identity carried in a context for logging.
type logScope struct {
	rulesetID string
	provider  string
	transport string
}

func scopeFrom(ctx context.Context) logScope {
	if ctx == nil {
		return logScope{}
	}
	s, _ := ctx.Value(logScopeKey{}).(logScope)
	return s
}

// WithRuleset tags every record logged with ctx with the ruleset id and the
// provider producing it.
func WithRuleset(ctx context.Context, id, provider string) context.Context {
	s := scopeFrom(ctx)
	s.rulesetID, s.provider = id, provider
	return context.WithValue(ctx, logScopeKey{}, s)
}

// WithTransport tags every record logged with ctx with the transport that
// received the request (http, mcp, cli).
func WithTransport(ctx context.Context, transport string) context.Context {
	s := scopeFrom(ctx)
	s.transport = transport
	return context.WithValue(ctx, logScopeKey{}, s)
}

// ConfigureSlog installs the process logger and returns it. Records logged
// with a context gain its trace ids and ruleset identity.
func ConfigureSlog(output io.Writer, level, format string) *slog.Logger {
	logger := slog.New(newSlogHandler(output, level, format))
	slog.SetDefault(logger)
	return logger
}

func newSlogHandler(output io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLogLevel(level)}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return &contextHandler{next: slog.NewJSONHandler(output, opts)}
	}
	return &contextHandler{next: slog.NewTextHandler(output, opts)}
}

// contextHandler adds contextAttrs to each record. Attributes set
// explicitly on the record win.
type contextHandler struct {
	next slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, record slog.Record) error {
	attrs := contextAttrs(ctx)
	if len(attrs) == 0 {
		return h.next.Handle(ctx, record)
	}

	present := make(map[string]bool, record.NumAttrs())
	record.Attrs(func(a slog.Attr) bool {
		present[a.Key] = true
		return true
	})
	for _, a := range attrs {
		if !present[a.Key] {
			record.AddAttrs(a)
		}
	}
	return h.next.Handle(ctx, record)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name)}
}

// contextAttrs collects the trace ids and the log scope stored in ctx.
func contextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var attrs []slog.Attr
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		attrs = append(attrs,
			slog.String(LogKeyTraceID, sc.TraceID().String()),
			slog.String(LogKeySpanID, sc.SpanID().String()),
		)
	}
	s := scopeFrom(ctx)
	if s.rulesetID != "" {
		attrs = append(attrs, slog.String(LogKeyRulesetID, s.rulesetID))
	}
	if s.provider != "" {
		attrs = append(attrs, slog.String(LogKeyProvider, s.provider))
	}
	if s.transport != "" {
		attrs = append(attrs, slog.String(LogKeyTransport, s.transport))
	}
	return attrs
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
