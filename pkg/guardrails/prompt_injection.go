// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package guardrails

import (
	"context"
	"regexp"
)

// PromptInjectionDetector detects attempts to override the generation
// instructions from inside a project description.
type PromptInjectionDetector struct {
	patterns   []*regexp.Regexp
	threshold  float64
	strictMode bool
}

// PromptInjectionOption configures the prompt injection detector.
type PromptInjectionOption func(*PromptInjectionDetector)

// Patterns that describe product features ("admin mode", "act as a proxy")
// are left out; they are common in honest project notes.
var defaultInjectionPatterns = []string{
	// Instruction override
	`(?i)ignore\s+(all\s+|the\s+)?(previous|prior|above)\s+(instructions?|prompts?|rules?)`,
	`(?i)disregard\s+(all\s+|the\s+)?(previous|prior|above)\s+(instructions?|prompts?|rules?)`,
	`(?i)forget\s+(all\s+|the\s+)?(previous|prior|above)\s+(instructions?|prompts?|rules?)`,
	`(?i)override\s+(all\s+|the\s+)?(previous|prior|above)\s+(instructions?|prompts?|rules?)`,

	// Persona manipulation
	`(?i)you\s+are\s+now\s+(a|an)\s+`,
	`(?i)pretend\s+(you\s+are|to\s+be)\s+`,
	`(?i)roleplay\s+as\s+`,

	// System prompt extraction
	`(?i)(what\s+(is|are)|show\s+me|reveal|print|display)\s+your\s+(system\s+)?(prompt|instructions?)`,

	// Jailbreaks
	`(?i)do\s+anything\s+now`,
	`(?i)\bDAN\s+mode`,
	`(?i)jailbreak`,
	`(?i)bypass\s+(safety|content|filter)`,

	// Chat template delimiters
	`(?i)\]\]\s*system\s*:`,
	`<\|.*\|>`,
	`(?i)\[/?INST\]`,
	`(?i)<</?SYS>>`,
}

// NewPromptInjectionDetector creates a new prompt injection detector.
// By default any single match blocks.
func NewPromptInjectionDetector(opts ...PromptInjectionOption) *PromptInjectionDetector {
	d := &PromptInjectionDetector{
		patterns: make([]*regexp.Regexp, 0, len(defaultInjectionPatterns)),
	}
	for _, pattern := range defaultInjectionPatterns {
		d.patterns = append(d.patterns, regexp.MustCompile(pattern))
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithInjectionPatterns adds custom patterns to detect. Invalid patterns
// are ignored.
func WithInjectionPatterns(patterns ...string) PromptInjectionOption {
	return func(d *PromptInjectionDetector) {
		for _, pattern := range patterns {
			if re, err := regexp.Compile(pattern); err == nil {
				d.patterns = append(d.patterns, re)
			}
		}
	}
}

// WithInjectionThreshold sets the confidence needed to block.
func WithInjectionThreshold(threshold float64) PromptInjectionOption {
	return func(d *PromptInjectionDetector) {
		if threshold >= 0 && threshold <= 1 {
			d.threshold = threshold
		}
	}
}

// WithStrictMode blocks on the first match regardless of threshold.
func WithStrictMode(strict bool) PromptInjectionOption {
	return func(d *PromptInjectionDetector) {
		d.strictMode = strict
	}
}

// ID returns the guardrail identifier.
func (d *PromptInjectionDetector) ID() string {
	return "prompt-injection"
}

// CheckInput analyzes input for prompt injection attempts. Confidence is
// 0.7 for one match plus 0.1 for each further match, capped at 1.
func (d *PromptInjectionDetector) CheckInput(ctx context.Context, input string) CheckResult {
	if input == "" {
		return CheckResult{}
	}

	var matched []string
	for _, pattern := range d.patterns {
		if ctx.Err() != nil {
			return CheckResult{}
		}
		if !pattern.MatchString(input) {
			continue
		}
		matched = append(matched, pattern.String())
		if d.strictMode {
			return d.blocked(1.0, matched)
		}
	}

	if len(matched) == 0 {
		return CheckResult{}
	}
	confidence := min(0.7+float64(len(matched)-1)*0.1, 1.0)
	if confidence < d.threshold {
		return CheckResult{Confidence: confidence, Matched: matched}
	}
	return d.blocked(confidence, matched)
}

func (d *PromptInjectionDetector) blocked(confidence float64, matched []string) CheckResult {
	return CheckResult{
		Blocked:     true,
		Reason:      "potential prompt injection detected",
		GuardrailID: d.ID(),
		Confidence:  confidence,
		Matched:     matched,
	}
}

// WithPromptInjectionDetector returns an option that adds prompt injection
// detection.
func WithPromptInjectionDetector(opts ...PromptInjectionOption) Option {
	return WithInputChecker(NewPromptInjectionDetector(opts...))
}
