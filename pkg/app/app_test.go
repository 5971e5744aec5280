package app

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/jllopis/rulesetgen/pkg/config"
	"github.com/jllopis/rulesetgen/pkg/errors"
	"github.com/jllopis/rulesetgen/pkg/llm"
	"github.com/jllopis/rulesetgen/pkg/project"
	"github.com/jllopis/rulesetgen/pkg/ruleset"
	"github.com/jllopis/rulesetgen/pkg/service"
)

func loadConfig(t *testing.T, overrides ...string) *config.Config {
	t.Helper()
	cfg, err := config.Load("", overrides...)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return cfg
}

func TestNewUnknownProvider(t *testing.T) {
	cfg := loadConfig(t, "llm.provider=unknown-llm")

	a, err := New(context.Background(), cfg, WithLogOutput(io.Discard))
	if !errors.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if a != nil {
		t.Error("expected nil app")
	}
}

func TestNewWiresGenerator(t *testing.T) {
	cfg := loadConfig(t)
	var logs bytes.Buffer

	a, err := New(context.Background(), cfg,
		WithLogOutput(&logs),
		WithServiceOptions(service.WithProvider(&llm.MockProvider{Response: "# Rules"})),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close(context.Background())

	info, err := project.New(project.Info{Category: project.CategoryBackend, BackendLanguage: "go"})
	if err != nil {
		t.Fatalf("project.New failed: %v", err)
	}
	rs := a.Generator.Generate(context.Background(), info)
	if rs.SourceKind != ruleset.AIGenerated || rs.ProviderName != "mock" {
		t.Errorf("unexpected ruleset %+v", rs)
	}
	if !bytes.Contains(logs.Bytes(), []byte("ai provider initialized")) {
		t.Errorf("expected startup log, got %q", logs.String())
	}
}

func TestNewStdoutReserved(t *testing.T) {
	cfg := loadConfig(t, "telemetry.enabled=true", "telemetry.exporter=stdout")
	var logs bytes.Buffer

	a, err := New(context.Background(), cfg,
		WithLogOutput(&logs),
		WithStdoutReserved(),
		WithServiceOptions(service.WithProvider(&llm.MockProvider{})),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close(context.Background())

	if !bytes.Contains(logs.Bytes(), []byte("stdout telemetry exporter redirected")) {
		t.Errorf("expected exporter warning, got %q", logs.String())
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := loadConfig(t)
	cfg.Server.Port = 0
	cfg.Server.GRPCAddr = "127.0.0.1:0"

	a, err := New(context.Background(), cfg,
		WithLogOutput(io.Discard),
		WithServiceOptions(service.WithProvider(&llm.MockProvider{})),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("servers did not stop")
	}
}

func TestServeReportsListenError(t *testing.T) {
	cfg := loadConfig(t)
	cfg.Server.Port = 0
	cfg.Server.GRPCAddr = "256.0.0.1:bad"

	a, err := New(context.Background(), cfg,
		WithLogOutput(io.Discard),
		WithServiceOptions(service.WithProvider(&llm.MockProvider{})),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	select {
	case err := <-serve(a):
		if err == nil {
			t.Error("expected listen error")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return")
	}
}

func serve(a *App) <-chan error {
	done := make(chan error, 1)
	go func() { done <- a.Serve(context.Background()) }()
	return done
}
