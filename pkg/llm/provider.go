// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package llm defines the contract shared by every text-generation backend.
//
// A Provider turns a single prompt into a single document. Implementations
// live under providers/ and are selected once at startup by pkg/service.
package llm

import (
	"context"
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single unit of communication for chat-style backends.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Health status values.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Health is the outcome of a provider liveness probe.
type Health struct {
	Available bool      `json:"available"`
	Model     string    `json:"model,omitempty"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Provider defines the interface for interacting with LLM backends.
type Provider interface {
	// Name returns the stable selector of the backend, e.g. "gemini".
	Name() string

	// GenerateContent sends prompt to the backend and returns the generated
	// text. It makes exactly one attempt.
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// CheckHealth probes the backend. It never fails; problems are reported
	// in the returned Health.
	CheckHealth(ctx context.Context) Health
}

const (
	// ProbePrompt is the minimal prompt sent by health probes.
	ProbePrompt = "Test"
	// ProbeMaxTokens caps the output of health probes.
	ProbeMaxTokens = 10
)

// Healthy returns an available Health for model.
func Healthy(model string) Health {
	return Health{
		Available: true,
		Model:     model,
		Status:    StatusHealthy,
		CheckedAt: time.Now(),
	}
}

// Unhealthy returns an unavailable Health carrying err's message.
func Unhealthy(model string, err error) Health {
	h := Health{
		Model:     model,
		Status:    StatusUnhealthy,
		CheckedAt: time.Now(),
	}
	if err != nil {
		h.Error = err.Error()
	}
	return h
}

// Probe runs check and converts its result into a Health for model.
func Probe(ctx context.Context, model string, check func(context.Context) error) Health {
	if err := check(ctx); err != nil {
		return Unhealthy(model, err)
	}
	return Healthy(model)
}
