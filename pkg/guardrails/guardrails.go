// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package guardrails screens the free-text parts of a project description
// before they are embedded in a generation prompt.
//
// Choice fields (frameworks, languages, ...) are short labels and are not
// inspected; the project type, the additional requirements and the notes
// are copied into the prompt verbatim and are.
//
//	guard := guardrails.New(guardrails.WithPromptInjectionDetector())
//	if res := guard.CheckProject(ctx, info); res.Blocked {
//	    // serve the fallback template instead of calling the provider
//	}
package guardrails

import (
	"context"
	"fmt"

	"github.com/jllopis/rulesetgen/pkg/project"
)

// CheckResult represents the outcome of a guardrail check.
type CheckResult struct {
	// Blocked indicates the content should not reach the provider.
	Blocked bool

	// Reason explains why content was blocked (empty if not blocked).
	Reason string

	// GuardrailID identifies which guardrail triggered the block.
	GuardrailID string

	// Field names the project field that was blocked, e.g. "notes" or
	// "additional_requirements[1]".
	Field string

	// Confidence is the detection confidence (0.0-1.0).
	Confidence float64

	// Matched lists the patterns that matched.
	Matched []string
}

// InputChecker validates content before it reaches the LLM.
type InputChecker interface {
	// CheckInput examines input for policy violations.
	CheckInput(ctx context.Context, input string) CheckResult

	// ID returns a unique identifier for this checker.
	ID() string
}

// Guardrails runs a fixed list of input checkers. It is built once at
// startup and safe for concurrent use.
type Guardrails struct {
	inputCheckers []InputChecker
	failOpen      bool
}

// Option configures the Guardrails instance.
type Option func(*Guardrails)

// New creates a new Guardrails instance with the given options.
func New(opts ...Option) *Guardrails {
	g := &Guardrails{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WithInputChecker adds an input checker to the guardrails.
func WithInputChecker(checker InputChecker) Option {
	return func(g *Guardrails) {
		g.inputCheckers = append(g.inputCheckers, checker)
	}
}

// WithFailOpen lets content through when a check is cancelled. The
// default is to block.
func WithFailOpen(failOpen bool) Option {
	return func(g *Guardrails) {
		g.failOpen = failOpen
	}
}

// CheckInput runs all input checkers and returns the first blocking result.
func (g *Guardrails) CheckInput(ctx context.Context, input string) CheckResult {
	if g == nil {
		return CheckResult{}
	}
	for _, checker := range g.inputCheckers {
		if ctx.Err() != nil {
			if g.failOpen {
				return CheckResult{}
			}
			return CheckResult{
				Blocked:     true,
				Reason:      "guardrail check cancelled",
				GuardrailID: "system",
			}
		}

		result := checker.CheckInput(ctx, input)
		if result.Blocked {
			result.GuardrailID = checker.ID()
			return result
		}
	}
	return CheckResult{}
}

// CheckProject runs CheckInput over the free-text fields of info and
// returns the first blocking result with Field set. A nil Guardrails
// never blocks.
func (g *Guardrails) CheckProject(ctx context.Context, info project.Info) CheckResult {
	if g == nil || len(g.inputCheckers) == 0 {
		return CheckResult{}
	}

	type field struct {
		name  string
		value string
	}
	fields := []field{
		{"project_type", info.ProjectType},
		{"notes", info.Notes},
	}
	for i, r := range info.AdditionalRequirements {
		fields = append(fields, field{fmt.Sprintf("additional_requirements[%d]", i), r})
	}

	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if result := g.CheckInput(ctx, f.value); result.Blocked {
			result.Field = f.name
			return result
		}
	}
	return CheckResult{}
}
