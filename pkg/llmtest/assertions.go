// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package llmtest

import (
	"slices"
	"strings"
	"testing"

	"github.com/jllopis/rulesetgen/pkg/ruleset"
)

// Assertions provides assertion helpers for testing.
type Assertions struct {
	t      *testing.T
	failed bool
}

// NewAssertions creates a new assertions helper.
func NewAssertions(t *testing.T) *Assertions {
	return &Assertions{t: t}
}

// Failed returns true if any assertion has failed.
func (a *Assertions) Failed() bool {
	return a.failed
}

func (a *Assertions) fail(format string, args ...any) {
	a.t.Helper()
	a.t.Errorf(format, args...)
	a.failed = true
}

// AssertEqual asserts that two values are equal.
func (a *Assertions) AssertEqual(expected, actual any, msg string) {
	a.t.Helper()
	if expected != actual {
		a.fail("%s: expected %v, got %v", msg, expected, actual)
	}
}

// AssertTrue asserts that the value is true.
func (a *Assertions) AssertTrue(value bool, msg string) {
	a.t.Helper()
	if !value {
		a.fail("%s: expected true", msg)
	}
}

// AssertFalse asserts that the value is false.
func (a *Assertions) AssertFalse(value bool, msg string) {
	a.t.Helper()
	if value {
		a.fail("%s: expected false", msg)
	}
}

// AssertContains asserts that the string contains the substring.
func (a *Assertions) AssertContains(s, substr, msg string) {
	a.t.Helper()
	if !strings.Contains(s, substr) {
		a.fail("%s: %q does not contain %q", msg, s, substr)
	}
}

// AssertNotContains asserts that the string does not contain the substring.
func (a *Assertions) AssertNotContains(s, substr, msg string) {
	a.t.Helper()
	if strings.Contains(s, substr) {
		a.fail("%s: %q should not contain %q", msg, s, substr)
	}
}

// AssertError asserts that the error is not nil.
func (a *Assertions) AssertError(err error, msg string) {
	a.t.Helper()
	if err == nil {
		a.fail("%s: expected error, got nil", msg)
	}
}

// AssertNoError asserts that the error is nil.
func (a *Assertions) AssertNoError(err error, msg string) {
	a.t.Helper()
	if err != nil {
		a.fail("%s: unexpected error: %v", msg, err)
	}
}

// RulesetAssertions provides assertion helpers for generated rulesets.
type RulesetAssertions struct {
	*Assertions
	rs ruleset.Ruleset
}

// AssertRuleset creates ruleset assertions for rs.
func (a *Assertions) AssertRuleset(rs ruleset.Ruleset) *RulesetAssertions {
	return &RulesetAssertions{Assertions: a, rs: rs}
}

// IsAIGenerated asserts the ruleset came from the provider.
func (r *RulesetAssertions) IsAIGenerated() *RulesetAssertions {
	r.t.Helper()
	if r.rs.SourceKind != ruleset.AIGenerated {
		r.fail("expected %s, got %s (reason: %q)", ruleset.AIGenerated, r.rs.SourceKind, r.rs.FailureReason)
	}
	return r
}

// IsFallback asserts the ruleset came from the fallback policy.
func (r *RulesetAssertions) IsFallback() *RulesetAssertions {
	r.t.Helper()
	if r.rs.SourceKind != ruleset.FallbackTemplate {
		r.fail("expected %s, got %s", ruleset.FallbackTemplate, r.rs.SourceKind)
	}
	return r
}

// HasContent asserts the ruleset content contains the substring.
func (r *RulesetAssertions) HasContent(contains string) *RulesetAssertions {
	r.t.Helper()
	if !strings.Contains(r.rs.Content, contains) {
		r.fail("ruleset content does not contain %q", contains)
	}
	return r
}

// HasProvider asserts the provider name recorded on the ruleset.
func (r *RulesetAssertions) HasProvider(name string) *RulesetAssertions {
	r.t.Helper()
	if r.rs.ProviderName != name {
		r.fail("expected provider %q, got %q", name, r.rs.ProviderName)
	}
	return r
}

// HasTools asserts the exact recommended tool list.
func (r *RulesetAssertions) HasTools(tools ...string) *RulesetAssertions {
	r.t.Helper()
	if !slices.Equal(r.rs.Tools, tools) {
		r.fail("expected tools %v, got %v", tools, r.rs.Tools)
	}
	return r
}

// HasFailureReason asserts the failure reason contains the substring.
func (r *RulesetAssertions) HasFailureReason(contains string) *RulesetAssertions {
	r.t.Helper()
	if !strings.Contains(r.rs.FailureReason, contains) {
		r.fail("failure reason %q does not contain %q", r.rs.FailureReason, contains)
	}
	return r
}

// HasIdentity asserts the ruleset was stamped with an ID and timestamp.
func (r *RulesetAssertions) HasIdentity() *RulesetAssertions {
	r.t.Helper()
	if r.rs.ID == "" {
		r.fail("expected ruleset ID to be set")
	}
	if r.rs.GeneratedAt.IsZero() {
		r.fail("expected GeneratedAt to be set")
	}
	return r
}

// Quick assertion functions for common patterns

// RequireNoError fails the test immediately if err is not nil.
func RequireNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

// RequireEqual fails the test immediately if values are not equal.
func RequireEqual(t *testing.T, expected, actual any, msg string) {
	t.Helper()
	if expected != actual {
		t.Fatalf("%s: expected %v, got %v", msg, expected, actual)
	}
}
