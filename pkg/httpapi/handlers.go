// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jllopis/rulesetgen/pkg/errors"
	"github.com/jllopis/rulesetgen/pkg/project"
	"github.com/jllopis/rulesetgen/pkg/ruleset"
)

// GenerateResponse is the body returned by POST /generate-ruleset.
type GenerateResponse struct {
	Markdown string      `json:"markdown"`
	JSONData RulesetData `json:"json_data"`
}

// RulesetData is the structured half of GenerateResponse.
type RulesetData struct {
	ID             string             `json:"id"`
	ProjectInfo    project.Info       `json:"project_info"`
	GeneratedAt    time.Time          `json:"generated_at"`
	AIProvider     string             `json:"ai_provider"`
	RulesetContent string             `json:"ruleset_content"`
	SourceKind     ruleset.SourceKind `json:"source_kind"`
	FailureReason  string             `json:"failure_reason,omitempty"`
	Tools          []string           `json:"tools,omitempty"`
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   s.name,
		"version":   s.version,
		"status":    "active",
		"timestamp": s.now().Format(time.RFC3339),
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, s.gen.Health(c.Request.Context()))
}

func (s *Server) generate(c *gin.Context) {
	info, err := project.Decode(c.Request.Body)
	if err != nil {
		e := errors.AsError(err)
		status := http.StatusInternalServerError
		if errors.IsValidation(err) {
			status = http.StatusBadRequest
		}
		detail := e.Message
		if e.Err != nil {
			detail += ": " + e.Err.Error()
		}
		c.JSON(status, gin.H{"detail": detail, "code": e.Code})
		return
	}

	rs := s.gen.Generate(c.Request.Context(), info)
	c.JSON(http.StatusOK, GenerateResponse{
		Markdown: rs.Content,
		JSONData: RulesetData{
			ID:             rs.ID,
			ProjectInfo:    rs.Project,
			GeneratedAt:    rs.GeneratedAt,
			AIProvider:     rs.ProviderName,
			RulesetContent: rs.Content,
			SourceKind:     rs.SourceKind,
			FailureReason:  rs.FailureReason,
			Tools:          rs.Tools,
		},
	})
}

func (s *Server) projectTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"project_types": s.catalog.ProjectTypes})
}

func (s *Server) frameworks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"frameworks": s.catalog.Frameworks})
}

func (s *Server) projectCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.CategoriesDocument())
}
