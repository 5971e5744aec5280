// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package main implements the rulesetgen CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jllopis/rulesetgen/pkg/app"
	"github.com/jllopis/rulesetgen/pkg/config"
)

type globalFlags struct {
	ConfigPath string
	Set        []string
	EnvFiles   []string
	JSON       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := &globalFlags{}
	if err := newRootCmd(g).ExecuteContext(ctx); err != nil {
		wrapError(err).Print(os.Stderr, g.JSON)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(g *globalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "rulesetgen",
		Short: "Generate rulesets for AI coding assistants",
		Long: `rulesetgen turns a description of a project's technology choices into a
ruleset document for AI coding assistants.

The document is written by the configured AI provider (gemini, openai,
anthropic, ollama or qwen). When the provider is unavailable a static
template is returned instead, so generation always produces a document.`,
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.ConfigPath, "config", "", "YAML config file")
	pf.StringArrayVar(&g.Set, "set", nil, "Override a config key (key=value, repeatable)")
	pf.StringSliceVar(&g.EnvFiles, "env-file", nil, "Load variables from .env files (default: .env)")
	pf.BoolVar(&g.JSON, "json", false, "Print reports and errors as JSON")

	root.AddCommand(
		newServeCmd(g),
		newGenerateCmd(g),
		newHealthCmd(g),
		newMCPCmd(g),
		newCatalogCmd(),
	)
	return root
}

// loadConfig applies .env files, then the layered configuration.
func (g *globalFlags) loadConfig(extra ...string) (*config.Config, error) {
	if err := config.LoadDotEnv(g.EnvFiles...); err != nil {
		return nil, err
	}
	return config.Load(g.ConfigPath, append(append([]string{}, g.Set...), extra...)...)
}

// newApp loads the configuration and builds the application.
func (g *globalFlags) newApp(ctx context.Context, opts ...app.Option) (*app.App, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, opts...)
}
