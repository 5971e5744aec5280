// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package mcp exposes ruleset generation as Model Context Protocol tools so
// coding assistants can request a ruleset directly.
package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"maps"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jllopis/rulesetgen/pkg/errors"
	"github.com/jllopis/rulesetgen/pkg/project"
	"github.com/jllopis/rulesetgen/pkg/ruleset"
	"github.com/jllopis/rulesetgen/pkg/telemetry"
)

// Tool names.
const (
	ToolGenerateRuleset = "generate_ruleset"
	ToolProviderHealth  = "provider_health"
)

// Generator is the orchestration behind the tools.
type Generator interface {
	Generate(ctx context.Context, info project.Info) ruleset.Ruleset
	Health(ctx context.Context) ruleset.HealthReport
}

// Server wraps the mcp-go server with the ruleset tools registered.
type Server struct {
	mcpServer *server.MCPServer
	gen       Generator
	logger    *slog.Logger
}

// NewServer creates a new MCP server.
func NewServer(name, version string, gen Generator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		mcpServer: server.NewMCPServer(name, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		gen:    gen,
		logger: logger,
	}
	s.mcpServer.AddTool(generateTool(), s.handleGenerate)
	s.mcpServer.AddTool(healthTool(), s.handleHealth)
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the protocol on in and out until ctx is cancelled or
// the input is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
}

func generateTool() mcp.Tool {
	categories := make([]string, 0, len(project.Categories))
	for _, c := range project.Categories {
		categories = append(categories, string(c))
	}
	return mcp.NewTool(ToolGenerateRuleset,
		mcp.WithDescription("Generate a ruleset document for AI coding assistants from a project description. Falls back to a static template when the AI provider is unavailable."),
		mcp.WithString("project_category", mcp.Required(), mcp.Enum(categories...),
			mcp.Description("Kind of project")),
		mcp.WithString("project_type", mcp.Description("Free-form project label, e.g. \"REST API\"")),
		mcp.WithString("frontend_framework"),
		mcp.WithString("styling_approach"),
		mcp.WithString("state_management"),
		mcp.WithString("http_client"),
		mcp.WithString("ui_library"),
		mcp.WithString("build_tool"),
		mcp.WithString("testing_framework"),
		mcp.WithString("backend_language"),
		mcp.WithString("backend_framework"),
		mcp.WithString("database_type"),
		mcp.WithString("auth_method"),
		mcp.WithString("api_style"),
		mcp.WithString("orm_tool"),
		mcp.WithString("code_style"),
		mcp.WithBoolean("testing_requirement", mcp.Description("Whether automated tests are required")),
		mcp.WithString("deployment_platform"),
		mcp.WithArray("additional_requirements", mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("notes"),
		mcp.WithString("format", mcp.Enum("markdown", "json"),
			mcp.Description("Result format, markdown by default")),
	)
}

func healthTool() mcp.Tool {
	return mcp.NewTool(ToolProviderHealth,
		mcp.WithDescription("Report whether the configured AI provider is available."),
	)
}

func (s *Server) handleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := maps.Clone(req.GetArguments())
	format := req.GetString("format", "markdown")
	delete(args, "format")

	raw, err := json.Marshal(args)
	if err != nil {
		return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
	}
	info, err := project.Unmarshal(raw)
	if err != nil {
		e := errors.AsError(err)
		return mcp.NewToolResultError(e.Message), nil
	}

	ctx = telemetry.WithTransport(ctx, "mcp")
	rs := s.gen.Generate(ctx, info)
	s.logger.InfoContext(ctx, "mcp ruleset generated", telemetry.LogKeyRulesetID, rs.ID, "source", rs.SourceKind)

	if format == "json" {
		out, err := json.MarshalIndent(rs, "", "  ")
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(out)), nil
	}
	return mcp.NewToolResultText(rs.Content), nil
}

func (s *Server) handleHealth(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(s.gen.Health(ctx))
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}
