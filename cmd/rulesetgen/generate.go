// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jllopis/rulesetgen/pkg/errors"
	"github.com/jllopis/rulesetgen/pkg/project"
	"github.com/jllopis/rulesetgen/pkg/ruleset"
	"github.com/jllopis/rulesetgen/pkg/telemetry"
	"github.com/jllopis/rulesetgen/pkg/wizard"
)

// Output formats.
const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatYAML     = "yaml"
)

type generateFlags struct {
	Input      string
	Wizard     bool
	Format     string
	OutputPath string
	Raw        bool
}

func newGenerateCmd(g *globalFlags) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a ruleset from a project description",
		Long: `Generate a ruleset from a JSON project description.

The description is read from --input (a file, or "-" for stdin). Without
--input, the interactive wizard runs when stdin is a terminal and stdin is
read otherwise. Example:

  echo '{"project_category":"backend","backend_language":"python"}' | rulesetgen generate

Markdown output is rendered for the terminal unless --raw is set or the
output is not a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, g, f)
		},
	}

	cmd.Flags().StringVarP(&f.Input, "input", "i", "", `Project description JSON file ("-" for stdin)`)
	cmd.Flags().BoolVarP(&f.Wizard, "wizard", "w", false, "Describe the project interactively")
	cmd.Flags().StringVarP(&f.Format, "format", "f", formatMarkdown, "Output format (markdown/json/yaml)")
	cmd.Flags().StringVarP(&f.OutputPath, "output", "o", "", "Write the result to a file instead of stdout")
	cmd.Flags().BoolVar(&f.Raw, "raw", false, "Print markdown without terminal rendering")
	return cmd
}

func runGenerate(cmd *cobra.Command, g *globalFlags, f *generateFlags) error {
	switch f.Format {
	case formatMarkdown, formatJSON, formatYAML:
	default:
		return errors.Validation("format", fmt.Sprintf("unsupported output format %q", f.Format)).
			WithContext("allowed", []string{formatMarkdown, formatJSON, formatYAML})
	}

	ctx := telemetry.WithTransport(cmd.Context(), "cli")
	info, err := readProject(cmd, f)
	if err != nil {
		return err
	}

	a, err := g.newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	rs := withProgress(cmd.ErrOrStderr(), a.Generator.ProviderName(), func() ruleset.Ruleset {
		return a.Generator.Generate(ctx, info)
	})
	if rs.IsFallback() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: AI generation unavailable, using fallback template (%s)\n", rs.FailureReason)
	}

	if f.OutputPath == "" {
		out := cmd.OutOrStdout()
		render := f.Format == formatMarkdown && !f.Raw && isTerminal(out)
		return writeRuleset(out, rs, f.Format, render)
	}
	return writeRulesetFile(f.OutputPath, rs, f.Format)
}

// writeRulesetFile writes rs to path without terminal rendering. A failed
// close is reported, since it may hide a failed flush.
func writeRulesetFile(path string, rs ruleset.Ruleset, format string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.New(errors.CodeInternal, "failed to create output file", err).
			WithContext("path", path)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.New(errors.CodeInternal, "failed to close output file", cerr).
				WithContext("path", path)
		}
	}()

	if err := writeRuleset(file, rs, format, false); err != nil {
		return errors.New(errors.CodeInternal, "failed to write output file", err).
			WithContext("path", path)
	}
	return nil
}

func readProject(cmd *cobra.Command, f *generateFlags) (project.Info, error) {
	in := cmd.InOrStdin()

	switch {
	case f.Wizard || (f.Input == "" && isTerminal(in)):
		return wizard.New(nil, wizard.WithIO(in, cmd.ErrOrStderr())).Run(cmd.Context())
	case f.Input == "" || f.Input == "-":
		return project.Decode(in)
	default:
		file, err := os.Open(f.Input)
		if err != nil {
			return project.Info{}, errors.New(errors.CodeInvalidInput, "failed to open project description", err).
				WithContext("path", f.Input)
		}
		defer file.Close()
		return project.Decode(file)
	}
}

func writeRuleset(w io.Writer, rs ruleset.Ruleset, format string, render bool) error {
	var out []byte
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(rs, "", "  ")
		if err != nil {
			return err
		}
		out = append(data, '\n')
	case formatYAML:
		data, err := yaml.Marshal(rs)
		if err != nil {
			return err
		}
		out = data
	default:
		content := rs.Content
		if render {
			rendered, err := renderMarkdown(content)
			if err == nil {
				content = rendered
			}
		}
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		out = []byte(content)
	}
	_, err := w.Write(out)
	return err
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
