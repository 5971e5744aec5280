// SPDX-License-Identifier: Apache-2.0
package telemetry

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jllopis/rulesetgen/pkg/errors"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m.Data
			}
		}
	}
	t.Fatalf("metric %s not recorded", name)
	return nil
}

func attrValue(set attribute.Set, key string) string {
	v, _ := set.Value(attribute.Key(key))
	return v.Emit()
}

func TestNewMetricsGlobal(t *testing.T) {
	m, err := NewMetrics(nil)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	if m == nil {
		t.Fatal("expected non-nil Metrics")
	}
}

func TestRecordRuleset(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordRuleset(ctx, "AI_GENERATED", "gemini")
	m.RecordRuleset(ctx, "FALLBACK_TEMPLATE", "gemini")
	m.RecordRuleset(ctx, "FALLBACK_TEMPLATE", "gemini")

	sum, ok := collect(t, reader, MetricRulesetsTotal).(metricdata.Sum[int64])
	if !ok {
		t.Fatal("expected int64 sum")
	}
	counts := map[string]int64{}
	for _, dp := range sum.DataPoints {
		counts[attrValue(dp.Attributes, AttrRulesetSource)] += dp.Value
	}
	if counts["AI_GENERATED"] != 1 || counts["FALLBACK_TEMPLATE"] != 2 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestRecordError(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordError(ctx, errors.MissingCredential("openai", "OPENAI_API_KEY"), "generator")
	m.RecordError(ctx, stderrors.New("plain"), "generator")
	m.RecordError(ctx, nil, "generator")

	sum, ok := collect(t, reader, MetricErrorsTotal).(metricdata.Sum[int64])
	if !ok {
		t.Fatal("expected int64 sum")
	}
	codes := map[string]int64{}
	for _, dp := range sum.DataPoints {
		codes[attrValue(dp.Attributes, AttrErrorCode)] += dp.Value
	}
	if codes[string(errors.CodeUnauthorized)] != 1 || codes["UNKNOWN"] != 1 || len(codes) != 2 {
		t.Errorf("unexpected codes %v", codes)
	}
}

func TestRecordLLMDuration(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordLLMDuration(context.Background(), "ollama", 120.5, true)

	hist, ok := collect(t, reader, MetricLLMDuration).(metricdata.Histogram[float64])
	if !ok {
		t.Fatal("expected float64 histogram")
	}
	if len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 1 {
		t.Errorf("unexpected histogram %+v", hist.DataPoints)
	}
}

func TestRecordHealth(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordHealth(ctx, "qwen", true)
	m.RecordHealth(ctx, "qwen", false)

	gauge, ok := collect(t, reader, MetricHealthStatus).(metricdata.Gauge[int64])
	if !ok {
		t.Fatal("expected int64 gauge")
	}
	if len(gauge.DataPoints) != 1 || gauge.DataPoints[0].Value != 0 {
		t.Errorf("expected last value 0, got %+v", gauge.DataPoints)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	// None of these should panic.
	m.RecordRuleset(ctx, "AI_GENERATED", "gemini")
	m.RecordLLMDuration(ctx, "gemini", 1, true)
	m.RecordError(ctx, stderrors.New("x"), "generator")
	m.RecordHealth(ctx, "gemini", true)
}

func TestConcurrentMetrics(t *testing.T) {
	m, _ := newTestMetrics(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				m.RecordRuleset(ctx, "AI_GENERATED", "mock")
				m.RecordLLMDuration(ctx, "mock", float64(j), j%2 == 0)
				m.RecordHealth(ctx, "mock", i%2 == 0)
			}
		}(i)
	}
	wg.Wait()
}
