// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package gemini provides a Google Gemini API provider for rulesetgen.
package gemini

import (
	"context"
	"strings"

	"github.com/jllopis/rulesetgen/pkg/errors"
	"github.com/jllopis/rulesetgen/pkg/llm"
	"google.golang.org/genai"
)

// Name is the selector of this backend.
const Name = "gemini"

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// Provider implements llm.Provider for Google Gemini API.
type Provider struct {
	client  *genai.Client
	model   string
	baseURL string
}

// Option configures the Provider.
type Option func(*Provider)

// WithModel sets the default model.
func WithModel(model string) Option {
	return func(p *Provider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithBaseURL points the client at a different Gemini API endpoint.
func WithBaseURL(url string) Option {
	return func(p *Provider) {
		p.baseURL = url
	}
}

// New creates a new Gemini provider. An empty apiKey yields a provider whose
// calls fail with a missing credential error instead of failing here, so a
// misconfigured deployment still serves fallback documents.
func New(ctx context.Context, apiKey string, opts ...Option) (*Provider, error) {
	p := &Provider{model: DefaultModel}
	for _, opt := range opts {
		opt(p)
	}
	if strings.TrimSpace(apiKey) == "" {
		return p, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if p.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, errors.Configuration("failed to create Gemini client", err)
	}
	p.client = client
	return p, nil
}

// Name implements llm.Provider.
func (p *Provider) Name() string { return Name }

// Model returns the configured model.
func (p *Provider) Model() string { return p.model }

// GenerateContent implements llm.Provider.
func (p *Provider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if p.client == nil {
		return "", errors.MissingCredential(Name, "GEMINI_API_KEY")
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return "", errors.Provider(Name, "gemini generate content failed", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", errors.Provider(Name, "gemini returned an empty response", nil)
	}
	return text, nil
}

// CheckHealth implements llm.Provider.
func (p *Provider) CheckHealth(ctx context.Context) llm.Health {
	if p.client == nil {
		return llm.Unhealthy(p.model, errors.MissingCredential(Name, "GEMINI_API_KEY"))
	}
	return llm.Probe(ctx, p.model, func(ctx context.Context) error {
		config := &genai.GenerateContentConfig{MaxOutputTokens: llm.ProbeMaxTokens}
		_, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(llm.ProbePrompt), config)
		return err
	})
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// Ensure Provider implements llm.Provider.
var _ llm.Provider = (*Provider)(nil)
