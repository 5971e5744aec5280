// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package fallback builds the static ruleset returned when AI generation is
// unavailable. Build is pure and total: every project description yields a
// document with a non-empty rule list and a non-empty tool list.
package fallback

import (
	"fmt"
	"strings"

	"github.com/jllopis/rulesetgen/pkg/project"
	"github.com/jllopis/rulesetgen/pkg/ruleset"
	"golang.org/x/text/cases"
)

// NotSpecified is echoed for missing project type or language.
const NotSpecified = "Not specified"

var rules = []string{
	"Write clear, self-documenting code with meaningful names for variables, functions and files.",
	"Keep functions small and focused on a single responsibility.",
	"Follow the established code style of the project and enforce it with automated formatters and linters.",
	"Handle errors explicitly and never swallow failures silently.",
	"Write automated tests for new features and bug fixes, and keep them running in CI.",
	"Never commit secrets; load credentials and environment-specific settings from configuration.",
	"Validate and sanitize all external input at system boundaries.",
	"Keep dependencies up to date and document architectural decisions in the repository.",
}

// DefaultTools is recommended when the language or framework is unknown.
var DefaultTools = []string{"Git", "EditorConfig", "Pre-commit"}

// toolTable is keyed on the case-folded language or framework name.
var toolTable = map[string][]string{
	"python":     {"Black", "Flake8", "pytest", "mypy"},
	"javascript": {"ESLint", "Prettier", "Jest"},
	"node.js":    {"ESLint", "Prettier", "Jest"},
	"typescript": {"ESLint", "Prettier", "Jest", "tsc --noEmit"},
	"go":         {"gofmt", "golangci-lint", "go test"},
	"java":       {"Checkstyle", "SpotBugs", "JUnit"},
	"kotlin":     {"ktlint", "detekt", "JUnit"},
	"c#":         {"dotnet format", "Roslyn Analyzers", "xUnit"},
	"php":        {"PHP_CodeSniffer", "PHPStan", "PHPUnit"},
	"ruby":       {"RuboCop", "RSpec"},
	"rust":       {"rustfmt", "Clippy", "cargo test"},
	"swift":      {"SwiftLint", "SwiftFormat", "XCTest"},
	"dart":       {"dart format", "dart analyze", "flutter test"},
	"react":      {"ESLint", "Prettier", "Jest", "React Testing Library"},
	"next.js":    {"ESLint", "Prettier", "Jest", "Playwright"},
	"vue.js":     {"ESLint", "Prettier", "Vitest", "Vue Test Utils"},
	"angular":    {"ESLint", "Prettier", "Jasmine", "Karma"},
	"svelte":     {"ESLint", "Prettier", "Vitest"},
	"flutter":    {"dart format", "dart analyze", "flutter test"},
}

// aliases maps common spellings onto toolTable keys.
var aliases = map[string]string{
	"js":     "javascript",
	"node":   "node.js",
	"nodejs": "node.js",
	"ts":     "typescript",
	"golang": "go",
	"csharp": "c#",
	".net":   "c#",
	"vue":    "vue.js",
	"nextjs": "next.js",
}

// Rules returns the generic best-practice rules included in every fallback
// document.
func Rules() []string {
	return clone(rules)
}

// Tools returns the recommended tools for a language or framework name.
// Matching ignores case and surrounding space.
func Tools(language string) []string {
	key := cases.Fold().String(strings.TrimSpace(language))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	if tools, ok := toolTable[key]; ok {
		return clone(tools)
	}
	return clone(DefaultTools)
}

// Note explains why the fallback document was produced.
func Note(reason string) string {
	if strings.TrimSpace(reason) == "" {
		reason = "unknown error"
	}
	return fmt.Sprintf("AI generation was unavailable (%s). This ruleset was produced from a built-in template; review and extend it for your project.", reason)
}

// Build returns the fallback ruleset for info. reason is embedded verbatim
// in the note and recorded as the failure reason. ID, GeneratedAt and
// ProviderName are left for the caller to stamp.
func Build(info project.Info, reason string) ruleset.Ruleset {
	rs := ruleset.Ruleset{
		SourceKind:    ruleset.FallbackTemplate,
		FailureReason: reason,
		Project:       info,
		ProjectType:   orNotSpecified(info.ProjectType),
		Language:      orNotSpecified(info.Language()),
		Rules:         Rules(),
		Tools:         Tools(info.Language()),
		Note:          Note(reason),
	}
	rs.Content = render(info, rs)
	return rs
}

func render(info project.Info, rs ruleset.Ruleset) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Project Ruleset: %s\n\n", rs.ProjectType)

	sb.WriteString("## Project\n\n")
	fmt.Fprintf(&sb, "- Category: %s\n", info.Category)
	fmt.Fprintf(&sb, "- Project Type: %s\n", rs.ProjectType)
	fmt.Fprintf(&sb, "- Language/Framework: %s\n\n", rs.Language)

	sb.WriteString("## Rules\n\n")
	for i, r := range rs.Rules {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, r)
	}

	sb.WriteString("\n## Recommended Tools\n\n")
	for _, t := range rs.Tools {
		fmt.Fprintf(&sb, "- %s\n", t)
	}

	sb.WriteString("\n## Note\n\n")
	sb.WriteString(rs.Note)
	sb.WriteString("\n")
	return sb.String()
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotSpecified
	}
	return s
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
