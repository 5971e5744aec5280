// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"

	"github.com/jllopis/rulesetgen/pkg/project"
)

// Span and metric attribute keys. LLM keys follow the gen_ai conventions.
const (
	// Project attributes
	AttrProjectCategory = "rulesetgen.project.category"
	AttrProjectType     = "rulesetgen.project.type"
	AttrProjectLanguage = "rulesetgen.project.language"

	// Ruleset attributes
	AttrRulesetID     = "rulesetgen.ruleset.id"
	AttrRulesetSource = "rulesetgen.ruleset.source"
	AttrRulesetLength = "rulesetgen.ruleset.length"
	AttrFailureReason = "rulesetgen.ruleset.failure_reason"

	// LLM attributes
	AttrLLMModel        = "gen_ai.request.model"
	AttrLLMProvider     = "gen_ai.system"
	AttrLLMPromptLength = "gen_ai.request.prompt_length"
	AttrLLMTokensInput  = "gen_ai.usage.input_tokens"
	AttrLLMTokensOutput = "gen_ai.usage.output_tokens"
	AttrLLMTokensTotal  = "gen_ai.usage.total_tokens"
	AttrLLMDurationMs   = "gen_ai.duration_ms"

	// Outcome attributes
	AttrSuccess     = "rulesetgen.success"
	AttrErrorCode   = "error.code"
	AttrComponent   = "component"
	AttrRecoverable = "recoverable"
)

// ProjectAttributes returns attributes describing the requested project.
func ProjectAttributes(info project.Info) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrProjectCategory, string(info.Category)),
	}
	if info.ProjectType != "" {
		attrs = append(attrs, attribute.String(AttrProjectType, info.ProjectType))
	}
	if lang := info.Language(); lang != "" {
		attrs = append(attrs, attribute.String(AttrProjectLanguage, lang))
	}
	return attrs
}

// RulesetAttributes returns attributes for a produced document.
func RulesetAttributes(id, source string, length int, failureReason string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrRulesetID, id),
		attribute.String(AttrRulesetSource, source),
		attribute.Int(AttrRulesetLength, length),
	}
	if failureReason != "" {
		// Provider messages can embed whole response bodies.
		if len(failureReason) > 200 {
			failureReason = failureReason[:200] + "..."
		}
		attrs = append(attrs, attribute.String(AttrFailureReason, failureReason))
	}
	return attrs
}

// LLMAttributes returns attributes for LLM call spans.
func LLMAttributes(model, provider string, promptLength int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrLLMProvider, provider),
		attribute.Int(AttrLLMPromptLength, promptLength),
	}
	if model != "" {
		attrs = append(attrs, attribute.String(AttrLLMModel, model))
	}
	return attrs
}

// LLMUsageAttributes returns token usage attributes.
func LLMUsageAttributes(inputTokens, outputTokens int, durationMs float64) []attribute.KeyValue {
	attrs := []attribute.KeyValue{}
	if inputTokens > 0 {
		attrs = append(attrs, attribute.Int(AttrLLMTokensInput, inputTokens))
	}
	if outputTokens > 0 {
		attrs = append(attrs, attribute.Int(AttrLLMTokensOutput, outputTokens))
	}
	if inputTokens > 0 || outputTokens > 0 {
		attrs = append(attrs, attribute.Int(AttrLLMTokensTotal, inputTokens+outputTokens))
	}
	if durationMs > 0 {
		attrs = append(attrs, attribute.Float64(AttrLLMDurationMs, durationMs))
	}
	return attrs
}
