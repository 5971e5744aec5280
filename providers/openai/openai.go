// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package openai provides an OpenAI API provider for rulesetgen.
package openai

import (
	"context"
	"strings"

	"github.com/jllopis/rulesetgen/pkg/errors"
	"github.com/jllopis/rulesetgen/pkg/llm"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Name is the selector of this backend.
const Name = "openai"

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-3.5-turbo"
	// DefaultMaxTokens caps generated rulesets.
	DefaultMaxTokens = 4000
	// DefaultTemperature is the sampling temperature for generation.
	DefaultTemperature = 0.7
)

// Provider implements llm.Provider for OpenAI API.
type Provider struct {
	client      openai.Client
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int64
	temperature float64
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

// WithBaseURL sets a custom base URL (for Azure OpenAI or proxies).
func WithBaseURL(url string) Option {
	return func(p *Provider) {
		p.baseURL = url
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

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(p *Provider) {
		p.temperature = temperature
	}
}

// New creates a new OpenAI provider using apiKey. The key is never read from
// the environment here; an empty key makes every call fail with a missing
// credential error.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		apiKey:      strings.TrimSpace(apiKey),
		model:       DefaultModel,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
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
	p.client = openai.NewClient(clientOpts...)
	return p
}

// Name implements llm.Provider.
func (p *Provider) Name() string { return Name }

// Model returns the configured model.
func (p *Provider) Model() string { return p.model }

// GenerateContent implements llm.Provider.
func (p *Provider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if p.apiKey == "" {
		return "", errors.MissingCredential(Name, "OPENAI_API_KEY")
	}

	params := openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(p.maxTokens),
		Temperature: openai.Float(p.temperature),
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", errors.Provider(Name, "openai chat completion failed", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", errors.Provider(Name, "openai returned an empty response", nil)
	}
	return completion.Choices[0].Message.Content, nil
}

// CheckHealth implements llm.Provider.
func (p *Provider) CheckHealth(ctx context.Context) llm.Health {
	if p.apiKey == "" {
		return llm.Unhealthy(p.model, errors.MissingCredential(Name, "OPENAI_API_KEY"))
	}
	return llm.Probe(ctx, p.model, func(ctx context.Context) error {
		_, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: p.model,
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(llm.ProbePrompt),
			},
			MaxTokens: openai.Int(llm.ProbeMaxTokens),
		})
		return err
	})
}

// Ensure Provider implements llm.Provider.
var _ llm.Provider = (*Provider)(nil)
