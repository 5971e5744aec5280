// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jllopis/rulesetgen/pkg/errors"
	"github.com/jllopis/rulesetgen/pkg/ruleset"
)

func newHealthCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the configured AI provider",
		Long:  "Check the configured AI provider. Exits non-zero when it is unavailable.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := g.newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			report := a.Generator.Health(ctx)
			if err := printHealth(cmd.OutOrStdout(), report, g.JSON); err != nil {
				return err
			}
			if !report.Healthy() {
				return errors.Provider(report.ProviderName, report.Message, nil)
			}
			return nil
		},
	}
	return cmd
}

func printHealth(w io.Writer, report ruleset.HealthReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "STATUS\t%s\n", report.Status)
	fmt.Fprintf(tw, "PROVIDER\t%s\n", report.ProviderName)
	if report.Model != "" {
		fmt.Fprintf(tw, "MODEL\t%s\n", report.Model)
	}
	fmt.Fprintf(tw, "AVAILABLE\t%t\n", report.Available)
	fmt.Fprintf(tw, "MESSAGE\t%s\n", report.Message)
	fmt.Fprintf(tw, "CHECKED\t%s\n", report.CheckedAt.Format(time.RFC3339))
	return tw.Flush()
}
