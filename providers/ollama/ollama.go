// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package ollama provides a provider for a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jllopis/rulesetgen/pkg/errors"
	"github.com/jllopis/rulesetgen/pkg/llm"
)

// Name is the selector of this backend.
const Name = "ollama"

const (
	// DefaultBaseURL is the address of a local Ollama server.
	DefaultBaseURL = "http://localhost:11434"
	// DefaultModel is used when no model is configured.
	DefaultModel = "llama3.2"
)

// Provider implements llm.Provider for Ollama.
type Provider struct {
	baseURL string
	model   string
	client  *http.Client
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

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		if client != nil {
			p.client = client
		}
	}
}

// New creates a new Ollama provider. Ollama needs no credential.
func New(baseURL string, opts ...Option) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	p := &Provider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   DefaultModel,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []llm.Message  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message         llm.Message `json:"message"`
	Done            bool        `json:"done"`
	EvalCount       int         `json:"eval_count"`
	PromptEvalCount int         `json:"prompt_eval_count"`
}

type tagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

// Name implements llm.Provider.
func (p *Provider) Name() string { return Name }

// Model returns the configured model.
func (p *Provider) Model() string { return p.model }

// GenerateContent implements llm.Provider.
func (p *Provider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    p.model,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Stream:   false,
	})
	if err != nil {
		return "", errors.Provider(Name, "failed to marshal ollama request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", errors.Provider(Name, "failed to create http request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", errors.Provider(Name, "ollama api call failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", errors.Provider(Name, fmt.Sprintf("ollama api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))), nil).
			WithContext("status", resp.StatusCode)
	}

	var oResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return "", errors.Provider(Name, "failed to decode ollama response", err)
	}
	if oResp.Message.Content == "" {
		return "", errors.Provider(Name, "ollama returned an empty response", nil)
	}
	return oResp.Message.Content, nil
}

// CheckHealth implements llm.Provider. It lists the local models instead of
// running a generation, and reports the configured model as unavailable when
// it has not been pulled.
func (p *Provider) CheckHealth(ctx context.Context) llm.Health {
	return llm.Probe(ctx, p.model, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
		if err != nil {
			return err
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("ollama unreachable: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("ollama api returned status: %d", resp.StatusCode)
		}

		var tags tagsResponse
		if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
			return fmt.Errorf("failed to decode ollama tags: %w", err)
		}
		for _, m := range tags.Models {
			if matchesModel(m.Name, p.model) || matchesModel(m.Model, p.model) {
				return nil
			}
		}
		return fmt.Errorf("model %s is not available in ollama", p.model)
	})
}

// matchesModel reports whether the tag name refers to model, treating a
// missing tag as ":latest".
func matchesModel(name, model string) bool {
	if name == "" {
		return false
	}
	if name == model {
		return true
	}
	return !strings.Contains(model, ":") && name == model+":latest"
}

// Ensure Provider implements llm.Provider.
var _ llm.Provider = (*Provider)(nil)
