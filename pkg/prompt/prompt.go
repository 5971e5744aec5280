// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package prompt turns a project description into the generation request
// sent to the AI provider.
//
// Build is pure and deterministic. Every optional field is always rendered,
// with NotSpecified standing in for missing values, so providers see the
// same prompt shape regardless of how much detail the caller supplied.
package prompt

import (
	"bytes"
	"embed"
	"strconv"
	"strings"
	"text/template"

	"github.com/jllopis/rulesetgen/pkg/project"
)

const (
	// NotSpecified replaces missing technology fields.
	NotSpecified = "Not specified"
	// None replaces missing free-text and list fields.
	None = "None"
)

//go:embed templates/ruleset.tmpl
var templateFS embed.FS

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"inc":   func(i int) int { return i + 1 },
	"val":   orDefault(NotSpecified),
	"none":  orDefault(None),
	"yesno": func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	},
	"list": func(items []string) string {
		if len(items) == 0 {
			return None
		}
		return strings.Join(items, ", ")
	},
}

var rulesetTmpl = template.Must(
	template.New("ruleset.tmpl").
		Funcs(funcs).
		Option("missingkey=error").
		ParseFS(templateFS, "templates/ruleset.tmpl"),
)

type data struct {
	Info     project.Info
	Category string
	Block    string
	Sections []Section
}

// Build renders the ruleset generation prompt for info.
func Build(info project.Info) string {
	d := data{
		Info:     info,
		Category: string(info.Category),
		Block:    techBlock(info.Category),
		Sections: Sections(info.Category),
	}

	var buf bytes.Buffer
	if err := rulesetTmpl.ExecuteTemplate(&buf, "ruleset", d); err != nil {
		// The template is static and every field it touches exists on data.
		panic("prompt: render ruleset template: " + err.Error())
	}
	return buf.String()
}

// techBlock picks the technology-detail block for category.
func techBlock(category project.Category) string {
	switch category {
	case project.CategoryFrontend:
		return "frontend"
	case project.CategoryBackend:
		return "backend"
	default:
		return "fullstack"
	}
}

func orDefault(placeholder string) func(string) string {
	return func(s string) string {
		if strings.TrimSpace(s) == "" {
			return placeholder
		}
		return s
	}
}

// SectionTitles returns the numbered checklist lines for category exactly as
// they appear in the prompt.
func SectionTitles(category project.Category) []string {
	sections := Sections(category)
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = strconv.Itoa(i+1) + ". **" + s.Title + "**"
	}
	return out
}
