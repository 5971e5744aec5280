// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package anthropic provides an Anthropic Claude API provider for rulesetgen.
package anthropic

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/jllopis/rulesetgen/pkg/errors"
	"github.com/jllopis/rulesetgen/pkg/llm"
)

// Name is the selector of this backend.
const Name = "anthropic"

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "claude-sonnet-4-20250514"
	// DefaultMaxTokens caps generated rulesets.
	DefaultMaxTokens = 4096
)

// Provider implements llm.Provider for Anthropic Claude API.
type Provider struct {
	client    anthropic.Client
	apiKey    string
	baseURL   string
	model     string
	maxTokens int64
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

// WithMaxTokens sets the maximum tokens for responses.
func WithMaxTokens(tokens int64) Option {
	return func(p *Provider) {
		if tokens > 0 {
			p.maxTokens = tokens
		}
	}
}

// WithBaseURL sets a custom base URL.
func WithBaseURL(url string) Option {
	return func(p *Provider) {
		p.baseURL = url
	}
}

// New creates a new Anthropic provider using apiKey.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		apiKey:    strings.TrimSpace(apiKey),
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(p)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(p.apiKey),
		option.WithMaxRetries(0),
	}
	if p.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(p.baseURL))
	}
	p.client = anthropic.NewClient(clientOpts...)
	return p
}

// Name implements llm.Provider.
func (p *Provider) Name() string { return Name }

// Model returns the configured model.
func (p *Provider) Model() string { return p.model }

// GenerateContent implements llm.Provider.
func (p *Provider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if p.apiKey == "" {
		return "", errors.MissingCredential(Name, "ANTHROPIC_API_KEY")
	}

	text, err := p.send(ctx, prompt, p.maxTokens)
	if err != nil {
		return "", errors.Provider(Name, "anthropic message failed", err)
	}
	if text == "" {
		return "", errors.Provider(Name, "anthropic returned an empty response", nil)
	}
	return text, nil
}

// CheckHealth implements llm.Provider.
func (p *Provider) CheckHealth(ctx context.Context) llm.Health {
	if p.apiKey == "" {
		return llm.Unhealthy(p.model, errors.MissingCredential(Name, "ANTHROPIC_API_KEY"))
	}
	return llm.Probe(ctx, p.model, func(ctx context.Context) error {
		_, err := p.send(ctx, llm.ProbePrompt, llm.ProbeMaxTokens)
		return err
	})
}

func (p *Provider) send(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// Ensure Provider implements llm.Provider.
var _ llm.Provider = (*Provider)(nil)
