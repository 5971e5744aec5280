// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/jllopis/rulesetgen/pkg/config"
	"github.com/jllopis/rulesetgen/pkg/llm"
	"github.com/jllopis/rulesetgen/providers/anthropic"
	"github.com/jllopis/rulesetgen/providers/gemini"
	"github.com/jllopis/rulesetgen/providers/ollama"
	"github.com/jllopis/rulesetgen/providers/openai"
	"github.com/jllopis/rulesetgen/providers/qwen"
)

// Constructor builds a provider from its configuration section.
type Constructor func(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (llm.Provider, error)

// Registry maps a provider selector to its constructor.
type Registry map[string]Constructor

var defaultRegistry = Registry{
	gemini.Name: func(ctx context.Context, cfg config.LLMConfig, _ *slog.Logger) (llm.Provider, error) {
		return gemini.New(ctx, cfg.Gemini.APIKey,
			gemini.WithModel(cfg.Gemini.Model),
			gemini.WithBaseURL(cfg.Gemini.BaseURL),
		)
	},
	openai.Name: func(_ context.Context, cfg config.LLMConfig, _ *slog.Logger) (llm.Provider, error) {
		return openai.New(cfg.OpenAI.APIKey,
			openai.WithModel(cfg.OpenAI.Model),
			openai.WithBaseURL(cfg.OpenAI.BaseURL),
			openai.WithMaxTokens(cfg.OpenAI.MaxTokens),
			openai.WithTemperature(cfg.OpenAI.Temperature),
		), nil
	},
	anthropic.Name: func(_ context.Context, cfg config.LLMConfig, _ *slog.Logger) (llm.Provider, error) {
		return anthropic.New(cfg.Anthropic.APIKey,
			anthropic.WithModel(cfg.Anthropic.Model),
			anthropic.WithBaseURL(cfg.Anthropic.BaseURL),
			anthropic.WithMaxTokens(cfg.Anthropic.MaxTokens),
		), nil
	},
	ollama.Name: func(_ context.Context, cfg config.LLMConfig, _ *slog.Logger) (llm.Provider, error) {
		return ollama.New(cfg.Ollama.BaseURL, ollama.WithModel(cfg.Ollama.Model)), nil
	},
	qwen.Name: func(_ context.Context, cfg config.LLMConfig, logger *slog.Logger) (llm.Provider, error) {
		return qwen.New(cfg.Qwen.APIKey,
			qwen.WithModel(cfg.Qwen.Model),
			qwen.WithBaseURL(cfg.Qwen.BaseURL),
			qwen.WithLogger(logger),
		), nil
	},
}

// DefaultRegistry returns a copy of the built-in provider registry.
func DefaultRegistry() Registry {
	return maps.Clone(defaultRegistry)
}

// Selectors returns the registered selectors in sorted order.
func (r Registry) Selectors() []string {
	return slices.Sorted(maps.Keys(r))
}

// Lookup finds the constructor for selector, ignoring case and surrounding
// space.
func (r Registry) Lookup(selector string) (Constructor, bool) {
	ctor, ok := r[normalize(selector)]
	return ctor, ok
}

func normalize(selector string) string {
	return strings.ToLower(strings.TrimSpace(selector))
}
