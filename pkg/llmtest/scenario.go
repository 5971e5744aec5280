// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package llmtest provides utilities for testing ruleset generation.
//
// This package includes:
//   - Scenario definitions for declarative generation tests
//   - A scripted provider implementing llm.Provider
//   - Assertion helpers for generated rulesets
//
// Example usage:
//
//	scenario := llmtest.NewScenario("python fallback").
//	    WithInfo(info).
//	    ExpectSource(ruleset.FallbackTemplate).
//	    ExpectTools("Black", "Flake8", "pytest", "mypy")
//
//	result := scenario.Run(t, gen)
//	result.Assert(t, scenario)
package llmtest

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/jllopis/rulesetgen/pkg/project"
	"github.com/jllopis/rulesetgen/pkg/ruleset"
)

// Scenario defines a test scenario for a generation request.
type Scenario struct {
	name          string
	info          project.Info
	context       context.Context
	timeout       time.Duration
	expectations  []Expectation
	setupFuncs    []func() error
	teardownFuncs []func() error
}

// Expectation defines a condition to verify after running a scenario.
type Expectation interface {
	// Check verifies the expectation against the result.
	Check(result *ScenarioResult) error
	// Description returns a human-readable description of the expectation.
	Description() string
}

// ScenarioResult contains the outcome of running a scenario.
type ScenarioResult struct {
	Ruleset  ruleset.Ruleset
	Duration time.Duration
}

// Generator is the behavior exercised by scenarios.
type Generator interface {
	Generate(ctx context.Context, info project.Info) ruleset.Ruleset
}

// NewScenario creates a new test scenario with the given name.
func NewScenario(name string) *Scenario {
	return &Scenario{
		name:         name,
		timeout:      30 * time.Second,
		context:      context.Background(),
		expectations: make([]Expectation, 0),
	}
}

// WithInfo sets the project description for the scenario.
func (s *Scenario) WithInfo(info project.Info) *Scenario {
	s.info = info
	return s
}

// WithContext sets the context for the scenario.
func (s *Scenario) WithContext(ctx context.Context) *Scenario {
	s.context = ctx
	return s
}

// WithTimeout sets the timeout for the scenario.
func (s *Scenario) WithTimeout(d time.Duration) *Scenario {
	s.timeout = d
	return s
}

// WithSetup adds a setup function to run before the scenario.
func (s *Scenario) WithSetup(fn func() error) *Scenario {
	s.setupFuncs = append(s.setupFuncs, fn)
	return s
}

// WithTeardown adds a teardown function to run after the scenario.
func (s *Scenario) WithTeardown(fn func() error) *Scenario {
	s.teardownFuncs = append(s.teardownFuncs, fn)
	return s
}

// Expect adds an expectation to the scenario.
func (s *Scenario) Expect(exp Expectation) *Scenario {
	s.expectations = append(s.expectations, exp)
	return s
}

// ExpectSource expects the ruleset to have been produced by kind.
func (s *Scenario) ExpectSource(kind ruleset.SourceKind) *Scenario {
	return s.Expect(&sourceExpectation{kind: kind})
}

// ExpectContent adds a content expectation.
func (s *Scenario) ExpectContent(matcher StringMatcher) *Scenario {
	return s.Expect(&contentExpectation{matcher: matcher})
}

// ExpectFailureReason expects the failure reason to match.
func (s *Scenario) ExpectFailureReason(matcher StringMatcher) *Scenario {
	return s.Expect(&failureReasonExpectation{matcher: matcher})
}

// ExpectTools expects exactly the given recommended tools.
func (s *Scenario) ExpectTools(tools ...string) *Scenario {
	return s.Expect(&toolsExpectation{tools: tools})
}

// ExpectProvider expects the given provider name on the ruleset.
func (s *Scenario) ExpectProvider(name string) *Scenario {
	return s.Expect(&providerExpectation{name: name})
}

// ExpectMaxDuration expects the scenario to complete within the given duration.
func (s *Scenario) ExpectMaxDuration(d time.Duration) *Scenario {
	return s.Expect(&maxDurationExpectation{max: d})
}

// Run executes the scenario against gen.
func (s *Scenario) Run(t *testing.T, gen Generator) *ScenarioResult {
	t.Helper()

	for _, setup := range s.setupFuncs {
		if err := setup(); err != nil {
			t.Fatalf("scenario %q setup failed: %v", s.name, err)
		}
	}

	defer func() {
		for _, teardown := range s.teardownFuncs {
			if err := teardown(); err != nil {
				t.Errorf("scenario %q teardown failed: %v", s.name, err)
			}
		}
	}()

	ctx, cancel := context.WithTimeout(s.context, s.timeout)
	defer cancel()

	start := time.Now()
	rs := gen.Generate(ctx, s.info)

	return &ScenarioResult{
		Ruleset:  rs,
		Duration: time.Since(start),
	}
}

// Assert checks all expectations and reports failures to the test.
func (r *ScenarioResult) Assert(t *testing.T, scenario *Scenario) {
	t.Helper()

	for _, exp := range scenario.expectations {
		if err := exp.Check(r); err != nil {
			t.Errorf("scenario %q: expectation %q failed: %v", scenario.name, exp.Description(), err)
		}
	}
}

// StringMatcher defines how to match strings in expectations.
type StringMatcher interface {
	Match(s string) bool
	Description() string
}

// Contains returns a matcher that checks if the string contains the substring.
func Contains(substr string) StringMatcher {
	return &containsMatcher{substr: substr}
}

// Equals returns a matcher that checks exact string equality.
func Equals(expected string) StringMatcher {
	return &equalsMatcher{expected: expected}
}

// Regex returns a matcher that checks against a regular expression.
func Regex(pattern string) StringMatcher {
	return &regexMatcher{pattern: pattern}
}

// HasPrefix returns a matcher that checks if the string has the given prefix.
func HasPrefix(prefix string) StringMatcher {
	return &prefixMatcher{prefix: prefix}
}

type containsMatcher struct {
	substr string
}

func (m *containsMatcher) Match(s string) bool {
	return strings.Contains(s, m.substr)
}

func (m *containsMatcher) Description() string {
	return fmt.Sprintf("contains %q", m.substr)
}

type equalsMatcher struct {
	expected string
}

func (m *equalsMatcher) Match(s string) bool {
	return s == m.expected
}

func (m *equalsMatcher) Description() string {
	return fmt.Sprintf("equals %q", m.expected)
}

type regexMatcher struct {
	pattern string
}

func (m *regexMatcher) Match(s string) bool {
	re, err := regexp.Compile(m.pattern)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

func (m *regexMatcher) Description() string {
	return fmt.Sprintf("matches regex %q", m.pattern)
}

type prefixMatcher struct {
	prefix string
}

func (m *prefixMatcher) Match(s string) bool {
	return strings.HasPrefix(s, m.prefix)
}

func (m *prefixMatcher) Description() string {
	return fmt.Sprintf("has prefix %q", m.prefix)
}

// Expectation implementations

type sourceExpectation struct {
	kind ruleset.SourceKind
}

func (e *sourceExpectation) Check(r *ScenarioResult) error {
	if r.Ruleset.SourceKind != e.kind {
		return fmt.Errorf("got %s (reason: %q)", r.Ruleset.SourceKind, r.Ruleset.FailureReason)
	}
	return nil
}

func (e *sourceExpectation) Description() string {
	return fmt.Sprintf("source %s", e.kind)
}

type contentExpectation struct {
	matcher StringMatcher
}

func (e *contentExpectation) Check(r *ScenarioResult) error {
	if !e.matcher.Match(r.Ruleset.Content) {
		return fmt.Errorf("content does not match: %s", e.matcher.Description())
	}
	return nil
}

func (e *contentExpectation) Description() string {
	return fmt.Sprintf("content %s", e.matcher.Description())
}

type failureReasonExpectation struct {
	matcher StringMatcher
}

func (e *failureReasonExpectation) Check(r *ScenarioResult) error {
	if !e.matcher.Match(r.Ruleset.FailureReason) {
		return fmt.Errorf("failure reason %q does not match: %s", r.Ruleset.FailureReason, e.matcher.Description())
	}
	return nil
}

func (e *failureReasonExpectation) Description() string {
	return fmt.Sprintf("failure reason %s", e.matcher.Description())
}

type toolsExpectation struct {
	tools []string
}

func (e *toolsExpectation) Check(r *ScenarioResult) error {
	if !slices.Equal(r.Ruleset.Tools, e.tools) {
		return fmt.Errorf("got tools %v", r.Ruleset.Tools)
	}
	return nil
}

func (e *toolsExpectation) Description() string {
	return fmt.Sprintf("tools %v", e.tools)
}

type providerExpectation struct {
	name string
}

func (e *providerExpectation) Check(r *ScenarioResult) error {
	if r.Ruleset.ProviderName != e.name {
		return fmt.Errorf("got provider %q", r.Ruleset.ProviderName)
	}
	return nil
}

func (e *providerExpectation) Description() string {
	return fmt.Sprintf("provider %q", e.name)
}

type maxDurationExpectation struct {
	max time.Duration
}

func (e *maxDurationExpectation) Check(r *ScenarioResult) error {
	if r.Duration > e.max {
		return fmt.Errorf("duration %v exceeds maximum %v", r.Duration, e.max)
	}
	return nil
}

func (e *maxDurationExpectation) Description() string {
	return fmt.Sprintf("duration <= %v", e.max)
}
