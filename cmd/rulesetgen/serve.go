// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jllopis/rulesetgen/pkg/app"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var (
		host     string
		port     int
		grpcAddr string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and optional gRPC health server)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var extra []string
			if cmd.Flags().Changed("host") {
				extra = append(extra, "server.host="+host)
			}
			if cmd.Flags().Changed("port") {
				extra = append(extra, fmt.Sprintf("server.port=%d", port))
			}
			if cmd.Flags().Changed("grpc-addr") {
				extra = append(extra, "server.grpc_addr="+grpcAddr)
			}

			cfg, err := g.loadConfig(extra...)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			return a.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides server.host)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides server.port)")
	cmd.Flags().StringVar(&grpcAddr, "grpc-addr", "", "gRPC health listen address (overrides server.grpc_addr)")
	return cmd
}
