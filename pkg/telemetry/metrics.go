// SPDX-License-Identifier: Apache-2.0
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jllopis/rulesetgen/pkg/errors"
)

// Metric instrument names.
const (
	MetricRulesetsTotal = "rulesetgen.rulesets.total"
	MetricLLMDuration   = "rulesetgen.llm.duration_ms"
	MetricErrorsTotal   = "rulesetgen.errors.total"
	MetricHealthStatus  = "rulesetgen.health.status"
)

// Metrics records generation outcomes, provider latency, failures and
// provider health. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// rulesetCounter tracks produced documents by source kind
	rulesetCounter metric.Int64Counter

	// llmDuration tracks provider call latency in milliseconds
	llmDuration metric.Float64Histogram

	// errorCounter tracks failures by code and component
	errorCounter metric.Int64Counter

	// healthGauge tracks provider health (0=unhealthy, 1=healthy)
	healthGauge metric.Int64Gauge
}

// NewMetrics creates the instruments on mp, or on the global meter provider
// when mp is nil.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter("rulesetgen")

	rulesetCounter, err := meter.Int64Counter(
		MetricRulesetsTotal,
		metric.WithDescription("Rulesets produced by source kind"),
	)
	if err != nil {
		return nil, err
	}

	llmDuration, err := meter.Float64Histogram(
		MetricLLMDuration,
		metric.WithDescription("Provider generation latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	errorCounter, err := meter.Int64Counter(
		MetricErrorsTotal,
		metric.WithDescription("Total errors by code and component"),
	)
	if err != nil {
		return nil, err
	}

	healthGauge, err := meter.Int64Gauge(
		MetricHealthStatus,
		metric.WithDescription("Provider health status (0=unhealthy, 1=healthy)"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		rulesetCounter: rulesetCounter,
		llmDuration:    llmDuration,
		errorCounter:   errorCounter,
		healthGauge:    healthGauge,
	}, nil
}

// RecordRuleset counts a produced document.
func (m *Metrics) RecordRuleset(ctx context.Context, source, provider string) {
	if m == nil {
		return
	}
	m.rulesetCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(AttrRulesetSource, source),
			attribute.String(AttrLLMProvider, provider),
		),
	)
}

// RecordLLMDuration records the latency of one provider call.
func (m *Metrics) RecordLLMDuration(ctx context.Context, provider string, durationMs float64, success bool) {
	if m == nil {
		return
	}
	m.llmDuration.Record(ctx, durationMs,
		metric.WithAttributes(
			attribute.String(AttrLLMProvider, provider),
			attribute.Bool(AttrSuccess, success),
		),
	)
}

// RecordError increments the error counter for err's code.
func (m *Metrics) RecordError(ctx context.Context, err error, component string) {
	if m == nil || err == nil {
		return
	}

	code, recoverable := "UNKNOWN", "unknown"
	if e, ok := errors.As(err); ok {
		code, recoverable = string(e.Code), e.RecoverableString()
	}
	m.errorCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(AttrErrorCode, code),
			attribute.String(AttrComponent, component),
			attribute.String(AttrRecoverable, recoverable),
		),
	)
}

// RecordHealth records the latest provider health probe.
func (m *Metrics) RecordHealth(ctx context.Context, provider string, healthy bool) {
	if m == nil {
		return
	}
	var status int64
	if healthy {
		status = 1
	}
	m.healthGauge.Record(ctx, status,
		metric.WithAttributes(
			attribute.String(AttrLLMProvider, provider),
		),
	)
}
