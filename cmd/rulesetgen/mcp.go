// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/jllopis/rulesetgen/pkg/app"
)

func newMCPCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the ruleset tools over MCP on stdio",
		Long: `Serve the generate_ruleset and provider_health tools over the Model
Context Protocol on stdin/stdout. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := g.newApp(ctx, app.WithLogOutput(cmd.ErrOrStderr()), app.WithStdoutReserved())
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			return a.MCPServer().ServeStdio(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
