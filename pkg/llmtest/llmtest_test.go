// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package llmtest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jllopis/rulesetgen/pkg/llm"
	"github.com/jllopis/rulesetgen/pkg/project"
	"github.com/jllopis/rulesetgen/pkg/ruleset"
)

// echoGenerator turns the project type into content.
type echoGenerator struct {
	delay time.Duration
}

func (g echoGenerator) Generate(ctx context.Context, info project.Info) ruleset.Ruleset {
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return ruleset.Ruleset{SourceKind: ruleset.FallbackTemplate, FailureReason: ctx.Err().Error()}
		}
	}
	return ruleset.Ruleset{
		Content:      "# " + info.ProjectType,
		SourceKind:   ruleset.AIGenerated,
		ProviderName: "echo",
		Tools:        []string{"Git"},
	}
}

func TestScenarioBasic(t *testing.T) {
	scenario := NewScenario("basic test").
		WithInfo(project.Info{Category: project.CategoryBackend, ProjectType: "API"}).
		ExpectSource(ruleset.AIGenerated).
		ExpectProvider("echo").
		ExpectContent(Equals("# API")).
		ExpectTools("Git")

	result := scenario.Run(t, echoGenerator{})
	result.Assert(t, scenario)
}

func TestScenarioTimeout(t *testing.T) {
	scenario := NewScenario("timeout test").
		WithTimeout(20 * time.Millisecond).
		ExpectSource(ruleset.FallbackTemplate).
		ExpectFailureReason(Contains("deadline")).
		ExpectMaxDuration(time.Second)

	result := scenario.Run(t, echoGenerator{delay: time.Second})
	result.Assert(t, scenario)
}

func TestScenarioSetupTeardown(t *testing.T) {
	var calls []string
	scenario := NewScenario("hooks").
		WithSetup(func() error { calls = append(calls, "setup"); return nil }).
		WithTeardown(func() error { calls = append(calls, "teardown"); return nil })

	scenario.Run(t, echoGenerator{})
	if strings.Join(calls, ",") != "setup,teardown" {
		t.Errorf("unexpected hook order: %v", calls)
	}
}

func TestStringMatchers(t *testing.T) {
	tests := []struct {
		name    string
		matcher StringMatcher
		input   string
		match   bool
	}{
		{"contains match", Contains("world"), "hello world", true},
		{"contains no match", Contains("foo"), "hello world", false},
		{"equals match", Equals("hello"), "hello", true},
		{"equals no match", Equals("hello"), "Hello", false},
		{"prefix match", HasPrefix("hello"), "hello world", true},
		{"prefix no match", HasPrefix("world"), "hello world", false},
		{"regex match", Regex(`^\d+\. \*\*`), "1. **Title**", true},
		{"invalid regex", Regex(`(`), "(", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.matcher.Match(tc.input); got != tc.match {
				t.Errorf("expected match=%v, got %v", tc.match, got)
			}
		})
	}
}

func TestScenarioProvider(t *testing.T) {
	provider := NewScenarioProvider().
		AddResponse("First response").
		AddErrorResponse(errors.New("backend down"))

	ctx := context.Background()
	got, err := provider.GenerateContent(ctx, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "First response" {
		t.Errorf("expected 'First response', got %q", got)
	}

	if _, err := provider.GenerateContent(ctx, "p2"); err == nil || err.Error() != "backend down" {
		t.Errorf("expected scripted error, got %v", err)
	}

	if _, err := provider.GenerateContent(ctx, "p3"); err == nil {
		t.Error("expected error once the script is exhausted")
	}

	if provider.CallCount() != 3 {
		t.Errorf("expected 3 calls, got %d", provider.CallCount())
	}
	if provider.LastPrompt() != "p3" {
		t.Errorf("expected last prompt p3, got %q", provider.LastPrompt())
	}

	provider.Reset()
	if provider.CallCount() != 0 {
		t.Errorf("expected reset to clear prompts")
	}
}

func TestScenarioProviderDelayHonorsContext(t *testing.T) {
	provider := NewScenarioProvider().AddDelayedResponse("late", time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := provider.GenerateContent(ctx, "p"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestScenarioProviderConditional(t *testing.T) {
	provider := NewScenarioProvider().
		AddScriptedResponse(ScriptedResponse{
			Content:   "frontend rules",
			Condition: func(p string) bool { return strings.Contains(p, "FRONTEND") },
		}).
		AddResponse("generic rules")

	got, err := provider.GenerateContent(context.Background(), "PROJECT CATEGORY: BACKEND")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "generic rules" {
		t.Errorf("expected conditional response to be skipped, got %q", got)
	}
}

func TestScenarioProviderHealth(t *testing.T) {
	provider := NewScenarioProvider().WithName("gemini")
	if provider.Name() != "gemini" {
		t.Errorf("expected name gemini, got %q", provider.Name())
	}
	if h := provider.CheckHealth(context.Background()); !h.Available {
		t.Errorf("expected default health to be available")
	}

	provider.WithHealth(llm.Unhealthy("m", errors.New("quota exceeded")))
	if h := provider.CheckHealth(context.Background()); h.Available || h.Error != "quota exceeded" {
		t.Errorf("unexpected health override: %+v", h)
	}
}

func TestAssertions(t *testing.T) {
	a := NewAssertions(t)

	a.AssertEqual(1, 1, "equal")
	a.AssertTrue(true, "true")
	a.AssertFalse(false, "false")
	a.AssertContains("hello world", "world", "contains")
	a.AssertNotContains("hello", "world", "not contains")
	a.AssertNoError(nil, "no error")
	a.AssertError(errors.New("oops"), "error")

	a.AssertRuleset(ruleset.Ruleset{
		ID:            "id",
		Content:       "# Fallback",
		SourceKind:    ruleset.FallbackTemplate,
		ProviderName:  "gemini",
		GeneratedAt:   time.Now(),
		FailureReason: "gemini API key not configured",
		Tools:         []string{"Git", "EditorConfig", "Pre-commit"},
	}).
		IsFallback().
		HasIdentity().
		HasContent("Fallback").
		HasProvider("gemini").
		HasFailureReason("API key").
		HasTools("Git", "EditorConfig", "Pre-commit")

	if a.Failed() {
		t.Error("assertions should not have failed")
	}
}
