// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package gemini

import (
	"context"
	"testing"

	"github.com/jllopis/rulesetgen/pkg/errors"
	"github.com/jllopis/rulesetgen/pkg/llm"
	"google.golang.org/genai"
)

func TestProviderImplementsInterface(t *testing.T) {
	var _ llm.Provider = (*Provider)(nil)
}

func TestWithModel(t *testing.T) {
	opt := WithModel("gemini-1.5-pro")
	p := &Provider{model: DefaultModel}
	opt(p)
	if p.model != "gemini-1.5-pro" {
		t.Errorf("expected model gemini-1.5-pro, got %s", p.model)
	}

	WithModel("")(p)
	if p.model != "gemini-1.5-pro" {
		t.Errorf("expected empty model to be ignored, got %s", p.model)
	}
}

func TestMissingAPIKey(t *testing.T) {
	p, err := New(context.Background(), "  ")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p.Name() != "gemini" || p.Model() != DefaultModel {
		t.Errorf("unexpected provider identity: %s/%s", p.Name(), p.Model())
	}

	_, err = p.GenerateContent(context.Background(), "hello")
	if !errors.IsProvider(err) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if errors.CodeOf(err) != errors.CodeUnauthorized {
		t.Errorf("expected unauthorized code, got %s", errors.CodeOf(err))
	}

	h := p.CheckHealth(context.Background())
	if h.Available || h.Status != llm.StatusUnhealthy || h.Error == "" {
		t.Errorf("expected unavailable health with error, got %+v", h)
	}
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{name: "nil", resp: nil, want: ""},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, want: ""},
		{
			name: "joins parts",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []*genai.Part{{Text: "# Rules"}, {Text: "\n- one"}}},
				}},
			},
			want: "# Rules\n- one",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := responseText(tt.resp); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
