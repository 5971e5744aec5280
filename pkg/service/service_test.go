package service

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jllopis/rulesetgen/pkg/config"
	"github.com/jllopis/rulesetgen/pkg/errors"
	"github.com/jllopis/rulesetgen/pkg/llm"
	"github.com/jllopis/rulesetgen/pkg/llmtest"
)

var quiet = WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

type countingProvider struct {
	llm.MockProvider
	probes atomic.Int32
}

func (c *countingProvider) CheckHealth(ctx context.Context) llm.Health {
	c.probes.Add(1)
	return c.MockProvider.CheckHealth(ctx)
}

func TestNewUnknownSelector(t *testing.T) {
	svc, err := New(context.Background(), config.LLMConfig{Provider: "unknown-llm"}, quiet)
	if svc != nil {
		t.Fatal("expected nil service for unsupported selector")
	}
	if !errors.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestZeroService(t *testing.T) {
	var svc Service
	ctx := context.Background()

	if got := svc.ProviderName(); got != "none" {
		t.Errorf("expected provider name none, got %q", got)
	}

	h := svc.CheckHealth(ctx)
	if h.Available || h.Error != "provider not initialized" || h.Status != llm.StatusUnhealthy {
		t.Errorf("unexpected health %+v", h)
	}

	_, err := svc.GenerateRuleset(ctx, "prompt")
	if !errors.IsProvider(err) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if e, _ := errors.As(err); e.Message != "provider not initialized" {
		t.Errorf("unexpected message %q", e.Message)
	}

	var nilSvc *Service
	if nilSvc.ProviderName() != NoProvider || nilSvc.CheckHealth(ctx).Available {
		t.Error("nil service should behave as uninitialized")
	}
}

func TestNewSelectsProvider(t *testing.T) {
	tests := []struct {
		selector string
		want     string
		model    string
		needsKey bool
	}{
		{"gemini", "gemini", "gemini-1.5-flash", true},
		{"  Gemini ", "gemini", "gemini-1.5-flash", true},
		{"OPENAI", "openai", "gpt-3.5-turbo", true},
		{"anthropic", "anthropic", "claude-sonnet-4-20250514", true},
		{"ollama", "ollama", "llama3.2", false},
		{"qwen", "qwen", "qwen-plus", true},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			svc, err := New(context.Background(), config.LLMConfig{Provider: tt.selector}, quiet)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if svc.ProviderName() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, svc.ProviderName())
			}
			if svc.Model() != tt.model {
				t.Errorf("expected model %s, got %s", tt.model, svc.Model())
			}
			if !tt.needsKey {
				return
			}

			// Missing credentials surface on first use, not at startup.
			_, err = svc.GenerateRuleset(context.Background(), "prompt")
			if errors.CodeOf(err) != errors.CodeUnauthorized {
				t.Errorf("expected unauthorized error, got %v", err)
			}
			if !errors.IsProvider(err) {
				t.Errorf("missing credential should classify as provider error")
			}
		})
	}
}

func TestNewUsesConfiguredModel(t *testing.T) {
	cfg := config.LLMConfig{Provider: "ollama", Ollama: config.OllamaConfig{Model: "mistral"}}
	svc, err := New(context.Background(), cfg, quiet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Model() != "mistral" {
		t.Errorf("expected configured model, got %s", svc.Model())
	}
}

func TestGenerateDelegates(t *testing.T) {
	provider := llmtest.NewScenarioProvider().WithName("scripted").AddResponse("# Ruleset")
	svc, err := New(context.Background(), config.LLMConfig{}, WithProvider(provider), quiet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := svc.GenerateRuleset(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "# Ruleset" {
		t.Errorf("unexpected output %q", out)
	}
	if provider.LastPrompt() != "the prompt" {
		t.Errorf("prompt not forwarded, got %q", provider.LastPrompt())
	}
	if svc.ProviderName() != "scripted" {
		t.Errorf("unexpected provider name %s", svc.ProviderName())
	}
}

func TestGeneratePropagatesProviderError(t *testing.T) {
	want := errors.Provider("scripted", "quota exceeded", nil)
	provider := llmtest.NewScenarioProvider().AddErrorResponse(want)
	svc, _ := New(context.Background(), config.LLMConfig{}, WithProvider(provider), quiet)

	_, err := svc.GenerateRuleset(context.Background(), "p")
	if !stderrors.Is(err, want) {
		t.Errorf("expected provider error unchanged, got %v", err)
	}
	if provider.CallCount() != 1 {
		t.Errorf("expected a single attempt, got %d", provider.CallCount())
	}
}

func TestConstructorFailure(t *testing.T) {
	registry := Registry{
		"broken": func(context.Context, config.LLMConfig, *slog.Logger) (llm.Provider, error) {
			return nil, stderrors.New("boom")
		},
	}
	svc, err := New(context.Background(), config.LLMConfig{Provider: "broken"}, WithRegistry(registry), quiet)
	if svc != nil || !errors.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestHealthCache(t *testing.T) {
	tests := []struct {
		name       string
		ttl        time.Duration
		advance    time.Duration
		wantProbes int32
	}{
		{"cached within ttl", time.Minute, 10 * time.Second, 1},
		{"expired", time.Minute, 2 * time.Minute, 2},
		{"disabled", 0, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &countingProvider{}
			svc, err := New(context.Background(), config.LLMConfig{HealthTTL: tt.ttl}, WithProvider(provider), quiet)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			svc.now = func() time.Time { return now }

			first := svc.CheckHealth(context.Background())
			now = now.Add(tt.advance)
			second := svc.CheckHealth(context.Background())

			if !first.Available || !second.Available {
				t.Errorf("expected available health")
			}
			if got := provider.probes.Load(); got != tt.wantProbes {
				t.Errorf("expected %d probes, got %d", tt.wantProbes, got)
			}
		})
	}
}

func TestHealthReportsProviderFailure(t *testing.T) {
	provider := &llm.FailingMockProvider{Err: stderrors.New("connection refused")}
	svc, _ := New(context.Background(), config.LLMConfig{}, WithProvider(provider), quiet)

	h := svc.CheckHealth(context.Background())
	if h.Available || h.Status != llm.StatusUnhealthy {
		t.Errorf("expected unhealthy, got %+v", h)
	}
	if h.Error != "connection refused" {
		t.Errorf("expected provider error in health, got %q", h.Error)
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	want := []string{"anthropic", "gemini", "ollama", "openai", "qwen"}
	if got := r.Selectors(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	delete(r, "gemini")
	if _, ok := DefaultRegistry().Lookup(" GEMINI"); !ok {
		t.Error("DefaultRegistry should return an independent copy")
	}
}
