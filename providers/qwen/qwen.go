// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package qwen provides an Alibaba Cloud Qwen API provider for rulesetgen.
// Qwen uses OpenAI-compatible API format via DashScope.
package qwen

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jllopis/rulesetgen/pkg/errors"
	"github.com/jllopis/rulesetgen/pkg/llm"
	goopenai "github.com/sashabaranov/go-openai"
)

// Name is the selector of this backend.
const Name = "qwen"

const (
	// DefaultBaseURL is the default DashScope API endpoint.
	DefaultBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	// DefaultModel is used when no model is configured.
	DefaultModel = "qwen-plus"
	// DefaultMaxTokens caps generated rulesets.
	DefaultMaxTokens = 4000
)

// Provider implements llm.Provider for Alibaba Cloud Qwen API.
type Provider struct {
	client     *goopenai.Client
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
	logger     *slog.Logger
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

// WithBaseURL sets a custom base URL.
func WithBaseURL(url string) Option {
	return func(p *Provider) {
		if url != "" {
			p.baseURL = url
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = client
	}
}

// WithLogger sets the logger used for usage reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a new Qwen provider.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		apiKey:    strings.TrimSpace(apiKey),
		baseURL:   DefaultBaseURL,
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	cfg := goopenai.DefaultConfig(p.apiKey)
	cfg.BaseURL = strings.TrimSuffix(p.baseURL, "/")
	if p.httpClient != nil {
		cfg.HTTPClient = p.httpClient
	}
	p.client = goopenai.NewClientWithConfig(cfg)
	return p
}

// Name implements llm.Provider.
func (p *Provider) Name() string { return Name }

// Model returns the configured model.
func (p *Provider) Model() string { return p.model }

// GenerateContent implements llm.Provider.
func (p *Provider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if p.apiKey == "" {
		return "", errors.MissingCredential(Name, "DASHSCOPE_API_KEY")
	}

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:     p.model,
		Messages:  convertMessages([]llm.Message{{Role: llm.RoleUser, Content: prompt}}),
		MaxTokens: p.maxTokens,
	})
	if err != nil {
		return "", errors.Provider(Name, "qwen chat completion failed", err)
	}

	content, usage := convertResponse(resp)
	p.logger.Debug("qwen completion",
		slog.String("model", p.model),
		slog.Int("prompt_tokens", usage.PromptTokens),
		slog.Int("completion_tokens", usage.CompletionTokens),
	)
	if content == "" {
		return "", errors.Provider(Name, "qwen returned an empty response", nil)
	}
	return content, nil
}

// CheckHealth implements llm.Provider.
func (p *Provider) CheckHealth(ctx context.Context) llm.Health {
	if p.apiKey == "" {
		return llm.Unhealthy(p.model, errors.MissingCredential(Name, "DASHSCOPE_API_KEY"))
	}
	return llm.Probe(ctx, p.model, func(ctx context.Context) error {
		_, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
			Model:     p.model,
			Messages:  convertMessages([]llm.Message{{Role: llm.RoleUser, Content: llm.ProbePrompt}}),
			MaxTokens: llm.ProbeMaxTokens,
		})
		return err
	})
}

func convertMessages(messages []llm.Message) []goopenai.ChatCompletionMessage {
	result := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		role := goopenai.ChatMessageRoleUser
		switch msg.Role {
		case llm.RoleSystem:
			role = goopenai.ChatMessageRoleSystem
		case llm.RoleAssistant:
			role = goopenai.ChatMessageRoleAssistant
		}
		result = append(result, goopenai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}
	return result
}

func convertResponse(resp goopenai.ChatCompletionResponse) (string, llm.Usage) {
	usage := llm.Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	if len(resp.Choices) == 0 {
		return "", usage
	}
	return resp.Choices[0].Message.Content, usage
}

// Ensure Provider implements llm.Provider.
var _ llm.Provider = (*Provider)(nil)
