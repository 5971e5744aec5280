// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package wizard collects a project description interactively with huh
// forms whose choices come from the catalog.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/jllopis/rulesetgen/pkg/catalog"
	"github.com/jllopis/rulesetgen/pkg/project"
)

// ErrCancelled is returned when the user aborts the wizard.
var ErrCancelled = errors.New("wizard cancelled")

// notSpecified is the option that leaves a field empty.
const notSpecified = "Not specified"

// Question binds one catalog option group to a project field.
type Question struct {
	Group   string
	Title   string
	Field   func(*project.Info) *string
	Choices []string
}

type binding struct {
	group string
	title string
	field func(*project.Info) *string
}

var categoryBindings = map[project.Category][]binding{
	project.CategoryFrontend: {
		{"frameworks", "Frontend framework", func(i *project.Info) *string { return &i.FrontendFramework }},
		{"styling_approaches", "Styling approach", func(i *project.Info) *string { return &i.StylingApproach }},
		{"state_management", "State management", func(i *project.Info) *string { return &i.StateManagement }},
		{"http_clients", "HTTP client", func(i *project.Info) *string { return &i.HTTPClient }},
		{"ui_libraries", "UI library", func(i *project.Info) *string { return &i.UILibrary }},
		{"build_tools", "Build tool", func(i *project.Info) *string { return &i.BuildTool }},
		{"testing_frameworks", "Testing framework", func(i *project.Info) *string { return &i.TestingFramework }},
	},
	project.CategoryBackend: {
		{"languages", "Language", func(i *project.Info) *string { return &i.BackendLanguage }},
		{"frameworks", "Backend framework", func(i *project.Info) *string { return &i.BackendFramework }},
		{"databases", "Database", func(i *project.Info) *string { return &i.DatabaseType }},
		{"auth_methods", "Authentication", func(i *project.Info) *string { return &i.AuthMethod }},
		{"api_styles", "API style", func(i *project.Info) *string { return &i.APIStyle }},
		{"orm_tools", "ORM", func(i *project.Info) *string { return &i.ORMTool }},
	},
	project.CategoryFullstack: {
		{"frameworks", "Framework", func(i *project.Info) *string { return &i.FrontendFramework }},
		{"databases", "Database", func(i *project.Info) *string { return &i.DatabaseType }},
		{"deployment_platforms", "Deployment platform", func(i *project.Info) *string { return &i.DeploymentPlatform }},
	},
	project.CategoryMobile: {
		{"frameworks", "Mobile framework", func(i *project.Info) *string { return &i.FrontendFramework }},
		{"state_management", "State management", func(i *project.Info) *string { return &i.StateManagement }},
		{"ui_libraries", "UI library", func(i *project.Info) *string { return &i.UILibrary }},
	},
}

var commonBindings = []binding{
	{"code_styles", "Code style", func(i *project.Info) *string { return &i.CodeStyle }},
	{"deployment_platforms", "Deployment platform", func(i *project.Info) *string { return &i.DeploymentPlatform }},
}

// Questions returns the select questions for category. Groups without
// choices in c are skipped, and a field is asked at most once.
func Questions(c *catalog.Catalog, category project.Category) []Question {
	var out []Question
	var probe project.Info
	asked := map[*string]bool{}

	for _, b := range slices.Concat(categoryBindings[category], commonBindings) {
		target := b.field(&probe)
		if asked[target] {
			continue
		}
		choices := c.Choices(category, b.group)
		if len(choices) == 0 {
			continue
		}
		asked[target] = true
		out = append(out, Question{Group: b.group, Title: b.title, Field: b.field, Choices: choices})
	}
	return out
}

// SplitRequirements parses a comma separated requirements answer.
func SplitRequirements(s string) []string {
	var out []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// Wizard runs the interactive forms.
type Wizard struct {
	catalog    *catalog.Catalog
	in         io.Reader
	out        io.Writer
	accessible bool
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithIO sets the terminal streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(w *Wizard) {
		w.in = in
		w.out = out
	}
}

// WithAccessible switches huh to its line based accessible mode, which
// works without a full terminal.
func WithAccessible(accessible bool) Option {
	return func(w *Wizard) { w.accessible = accessible }
}

// New creates a Wizard over c, or the built-in catalog when c is nil.
func New(c *catalog.Catalog, opts ...Option) *Wizard {
	if c == nil {
		c = catalog.Default()
	}
	w := &Wizard{catalog: c}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run asks for the category first and then the questions for it, returning
// the validated project description.
func (w *Wizard) Run(ctx context.Context) (project.Info, error) {
	var (
		category    = string(project.CategoryBackend)
		info        project.Info
		needsTests  = true
		requirement string
	)

	categories := make([]huh.Option[string], 0, len(project.Categories))
	for _, c := range project.Categories {
		categories = append(categories, huh.NewOption(string(c), string(c)))
	}
	intro := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Project category").
			Options(categories...).
			Value(&category),
		huh.NewSelect[string]().
			Title("Project type").
			Options(huh.NewOptions(w.catalog.ProjectTypes...)...).
			Value(&info.ProjectType),
	)
	if err := w.run(ctx, intro); err != nil {
		return project.Info{}, err
	}
	info.Category = project.Category(category)

	var fields []huh.Field
	for _, q := range Questions(w.catalog, info.Category) {
		opts := append([]huh.Option[string]{huh.NewOption(notSpecified, "")}, huh.NewOptions(q.Choices...)...)
		fields = append(fields, huh.NewSelect[string]().
			Title(q.Title).
			Options(opts...).
			Value(q.Field(&info)))
	}
	fields = append(fields,
		huh.NewConfirm().Title("Are automated tests required?").Value(&needsTests),
		huh.NewInput().
			Title("Additional requirements").
			Description("Comma separated, e.g. Docker, CI/CD").
			Value(&requirement),
		huh.NewText().Title("Notes").Value(&info.Notes),
	)
	if err := w.run(ctx, huh.NewGroup(fields...)); err != nil {
		return project.Info{}, err
	}

	info.TestingRequirement = needsTests
	info.AdditionalRequirements = SplitRequirements(requirement)
	return project.New(info)
}

func (w *Wizard) run(ctx context.Context, g *huh.Group) error {
	form := huh.NewForm(g).WithTheme(newTheme()).WithAccessible(w.accessible)
	if w.in != nil {
		form = form.WithInput(w.in)
	}
	if w.out != nil {
		form = form.WithOutput(w.out)
	}
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return fmt.Errorf("wizard error: %w", err)
	}
	return nil
}
