// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package llmtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jllopis/rulesetgen/pkg/llm"
)

// ScenarioProvider is a scripted llm.Provider for testing scenarios.
// It supports queued responses, simulated latency, health overrides and
// prompt capture.
type ScenarioProvider struct {
	mu           sync.Mutex
	name         string
	responses    []ScriptedResponse
	currentIndex int
	prompts      []string
	defaultError error
	health       *llm.Health
	onGenerate   func(ctx context.Context, prompt string) (string, error)
}

// ScriptedResponse defines a response for the scenario provider.
type ScriptedResponse struct {
	Content string
	Error   error
	// Delay simulates backend latency. A cancelled context interrupts it.
	Delay time.Duration
	// Condition allows conditional responses based on the prompt.
	Condition func(prompt string) bool
}

// NewScenarioProvider creates a new scenario provider named "scenario".
func NewScenarioProvider() *ScenarioProvider {
	return &ScenarioProvider{
		name:      "scenario",
		responses: make([]ScriptedResponse, 0),
		prompts:   make([]string, 0),
	}
}

// WithName sets the name reported by Name.
func (p *ScenarioProvider) WithName(name string) *ScenarioProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.name = name
	return p
}

// AddResponse queues a response to be returned.
func (p *ScenarioProvider) AddResponse(content string) *ScenarioProvider {
	return p.AddScriptedResponse(ScriptedResponse{Content: content})
}

// AddErrorResponse queues an error response.
func (p *ScenarioProvider) AddErrorResponse(err error) *ScenarioProvider {
	return p.AddScriptedResponse(ScriptedResponse{Error: err})
}

// AddDelayedResponse queues a response returned after d.
func (p *ScenarioProvider) AddDelayedResponse(content string, d time.Duration) *ScenarioProvider {
	return p.AddScriptedResponse(ScriptedResponse{Content: content, Delay: d})
}

// AddScriptedResponse adds a fully configured response.
func (p *ScenarioProvider) AddScriptedResponse(resp ScriptedResponse) *ScenarioProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, resp)
	return p
}

// WithDefaultError sets the error to return when no responses are queued.
func (p *ScenarioProvider) WithDefaultError(err error) *ScenarioProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.defaultError = err
	return p
}

// WithHealth fixes the result of CheckHealth.
func (p *ScenarioProvider) WithHealth(h llm.Health) *ScenarioProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.health = &h
	return p
}

// WithGenerateFunc sets a custom function for handling generation requests.
func (p *ScenarioProvider) WithGenerateFunc(fn func(ctx context.Context, prompt string) (string, error)) *ScenarioProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onGenerate = fn
	return p
}

// Name implements llm.Provider.
func (p *ScenarioProvider) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

// GenerateContent implements llm.Provider.
func (p *ScenarioProvider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, custom, err := p.next(prompt)
	if custom != nil {
		return custom(ctx, prompt)
	}
	if err != nil {
		return "", err
	}

	if resp.Delay > 0 {
		timer := time.NewTimer(resp.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if resp.Error != nil {
		return "", resp.Error
	}
	return resp.Content, nil
}

// next records prompt and picks the response to serve. The lock is released
// before any simulated latency.
func (p *ScenarioProvider) next(prompt string) (ScriptedResponse, func(context.Context, string) (string, error), error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.prompts = append(p.prompts, prompt)

	if p.onGenerate != nil {
		return ScriptedResponse{}, p.onGenerate, nil
	}

	if p.currentIndex >= len(p.responses) {
		if p.defaultError != nil {
			return ScriptedResponse{}, nil, p.defaultError
		}
		return ScriptedResponse{}, nil, fmt.Errorf("no more scripted responses (call %d)", len(p.prompts))
	}

	resp := p.responses[p.currentIndex]
	p.currentIndex++

	// Skip to next response that matches
	if resp.Condition != nil && !resp.Condition(prompt) {
		for p.currentIndex < len(p.responses) {
			resp = p.responses[p.currentIndex]
			p.currentIndex++
			if resp.Condition == nil || resp.Condition(prompt) {
				break
			}
		}
	}
	return resp, nil, nil
}

// CheckHealth implements llm.Provider. Without an override it reports the
// provider as available.
func (p *ScenarioProvider) CheckHealth(ctx context.Context) llm.Health {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.health != nil {
		return *p.health
	}
	return llm.Healthy("scenario-model")
}

// Prompts returns all captured prompts.
func (p *ScenarioProvider) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]string, len(p.prompts))
	copy(result, p.prompts)
	return result
}

// LastPrompt returns the most recent prompt, or "" when none was sent.
func (p *ScenarioProvider) LastPrompt() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.prompts) == 0 {
		return ""
	}
	return p.prompts[len(p.prompts)-1]
}

// CallCount returns the number of GenerateContent calls made.
func (p *ScenarioProvider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prompts)
}

// Reset clears all state.
func (p *ScenarioProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentIndex = 0
	p.prompts = p.prompts[:0]
}

// Ensure ScenarioProvider implements llm.Provider.
var _ llm.Provider = (*ScenarioProvider)(nil)
