// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jllopis/rulesetgen/pkg/errors"
	"github.com/jllopis/rulesetgen/pkg/llm"
)

func TestProviderImplementsInterface(t *testing.T) {
	var _ llm.Provider = (*Provider)(nil)
}

func TestNewProvider(t *testing.T) {
	p := New("test-key")
	if p.model != "claude-sonnet-4-20250514" {
		t.Errorf("expected model claude-sonnet-4-20250514, got %s", p.model)
	}
	if p.maxTokens != 4096 {
		t.Errorf("expected maxTokens 4096, got %d", p.maxTokens)
	}
}

func TestOptions(t *testing.T) {
	p := New("test-key", WithModel("claude-opus-4-20250514"), WithMaxTokens(8192))
	if p.model != "claude-opus-4-20250514" {
		t.Errorf("expected model claude-opus-4-20250514, got %s", p.model)
	}
	if p.maxTokens != 8192 {
		t.Errorf("expected maxTokens 8192, got %d", p.maxTokens)
	}

	p = New("test-key", WithMaxTokens(0))
	if p.maxTokens != DefaultMaxTokens {
		t.Errorf("expected non-positive max tokens to be ignored, got %d", p.maxTokens)
	}
}

func TestMissingAPIKey(t *testing.T) {
	p := New("")
	_, err := p.GenerateContent(context.Background(), "hello")
	if errors.CodeOf(err) != errors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if h := p.CheckHealth(context.Background()); h.Available || h.Error == "" {
		t.Errorf("expected unavailable health, got %+v", h)
	}
}

func TestGenerateContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("unexpected api key header %q", got)
		}
		var req struct {
			Model     string `json:"model"`
			MaxTokens int64  `json:"max_tokens"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != DefaultModel {
			t.Errorf("expected model %s, got %s", DefaultModel, req.Model)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-20250514",
			"content": [{"type": "text", "text": "# Ruleset"}, {"type": "text", "text": "\n- rule"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 5, "output_tokens": 3}
		}`))
	}))
	defer srv.Close()

	p := New("test-key", WithBaseURL(srv.URL))
	got, err := p.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("GenerateContent failed: %v", err)
	}
	if got != "# Ruleset\n- rule" {
		t.Errorf("unexpected content %q", got)
	}
}

func TestGenerateContentRejected(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "authentication_error", "message": "invalid x-api-key"}}`))
	}))
	defer srv.Close()

	p := New("test-key", WithBaseURL(srv.URL))
	if _, err := p.GenerateContent(context.Background(), "prompt"); !errors.IsProvider(err) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("expected a single attempt, got %d", n)
	}
	if h := p.CheckHealth(context.Background()); h.Available {
		t.Errorf("expected unavailable health, got %+v", h)
	}
}
