// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package ruleset holds the documents produced by the generator and the
// health summary reported alongside them.
package ruleset

import (
	"time"

	"github.com/jllopis/rulesetgen/pkg/project"
)

// SourceKind records how a ruleset was produced.
type SourceKind string

const (
	// AIGenerated marks text returned by an AI provider.
	AIGenerated SourceKind = "AI_GENERATED"
	// FallbackTemplate marks the static document used when generation fails.
	FallbackTemplate SourceKind = "FALLBACK_TEMPLATE"
)

// Ruleset is a generated document. Rules, Tools and Note are only set for
// FallbackTemplate documents.
type Ruleset struct {
	ID            string       `json:"id" yaml:"id"`
	Content       string       `json:"content" yaml:"content"`
	SourceKind    SourceKind   `json:"source_kind" yaml:"source_kind"`
	ProviderName  string       `json:"provider_name" yaml:"provider_name"`
	GeneratedAt   time.Time    `json:"generated_at" yaml:"generated_at"`
	FailureReason string       `json:"failure_reason,omitempty" yaml:"failure_reason,omitempty"`
	Project       project.Info `json:"project_info" yaml:"project_info"`

	ProjectType string   `json:"project_type,omitempty" yaml:"project_type,omitempty"`
	Language    string   `json:"language,omitempty" yaml:"language,omitempty"`
	Rules       []string `json:"rules,omitempty" yaml:"rules,omitempty"`
	Tools       []string `json:"tools,omitempty" yaml:"tools,omitempty"`
	Note        string   `json:"note,omitempty" yaml:"note,omitempty"`
}

// IsFallback reports whether r was produced by the fallback policy.
func (r Ruleset) IsFallback() bool {
	return r.SourceKind == FallbackTemplate
}

// Health status values.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// OperationalMessage is reported when the provider is available.
const OperationalMessage = "All systems operational"

// HealthReport summarizes provider availability for callers.
type HealthReport struct {
	Status       string    `json:"status" yaml:"status"`
	ProviderName string    `json:"ai_provider" yaml:"ai_provider"`
	Available    bool      `json:"ai_available" yaml:"ai_available"`
	Model        string    `json:"model,omitempty" yaml:"model,omitempty"`
	Message      string    `json:"message" yaml:"message"`
	CheckedAt    time.Time `json:"checked_at" yaml:"checked_at"`
}

// Healthy reports whether the report describes an available provider.
func (h HealthReport) Healthy() bool {
	return h.Status == StatusHealthy
}
