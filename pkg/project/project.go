// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package project defines the validated description of a project's
// technology choices that drives ruleset generation.
package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jllopis/rulesetgen/pkg/errors"
)

// Category is the kind of project being described.
type Category string

const (
	CategoryFrontend  Category = "frontend"
	CategoryBackend   Category = "backend"
	CategoryFullstack Category = "fullstack"
	CategoryMobile    Category = "mobile"
)

// Categories lists every supported category in display order.
var Categories = []Category{CategoryFrontend, CategoryBackend, CategoryFullstack, CategoryMobile}

// ParseCategory maps s to a Category, ignoring case and surrounding space.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		if s == "" {
			return "", errors.Validation("project_category", "project category is required")
		}
		return "", errors.Validation("project_category", fmt.Sprintf("unsupported project category: %q", s)).
			WithContext("allowed", Categories)
	}
	return c, nil
}

// Valid reports whether c is one of the supported categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Info describes a project. Values are constructed once per request through
// New or Decode and are not modified afterwards.
type Info struct {
	Category    Category `json:"project_category" yaml:"project_category"`
	ProjectType string   `json:"project_type" yaml:"project_type"`

	// Frontend
	FrontendFramework string `json:"frontend_framework,omitempty" yaml:"frontend_framework,omitempty"`
	StylingApproach   string `json:"styling_approach,omitempty" yaml:"styling_approach,omitempty"`
	StateManagement   string `json:"state_management,omitempty" yaml:"state_management,omitempty"`
	HTTPClient        string `json:"http_client,omitempty" yaml:"http_client,omitempty"`
	UILibrary         string `json:"ui_library,omitempty" yaml:"ui_library,omitempty"`
	BuildTool         string `json:"build_tool,omitempty" yaml:"build_tool,omitempty"`
	TestingFramework  string `json:"testing_framework,omitempty" yaml:"testing_framework,omitempty"`

	// Backend
	BackendLanguage  string `json:"backend_language,omitempty" yaml:"backend_language,omitempty"`
	BackendFramework string `json:"backend_framework,omitempty" yaml:"backend_framework,omitempty"`
	DatabaseType     string `json:"database_type,omitempty" yaml:"database_type,omitempty"`
	AuthMethod       string `json:"auth_method,omitempty" yaml:"auth_method,omitempty"`
	APIStyle         string `json:"api_style,omitempty" yaml:"api_style,omitempty"`
	ORMTool          string `json:"orm_tool,omitempty" yaml:"orm_tool,omitempty"`

	// Common
	CodeStyle              string   `json:"code_style,omitempty" yaml:"code_style,omitempty"`
	TestingRequirement     bool     `json:"testing_requirement" yaml:"testing_requirement"`
	DeploymentPlatform     string   `json:"deployment_platform,omitempty" yaml:"deployment_platform,omitempty"`
	AdditionalRequirements []string `json:"additional_requirements" yaml:"additional_requirements"`
	Notes                  string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// New validates info and returns a normalized copy: the category is
// canonicalized, string fields are trimmed and empty requirement entries
// are dropped. An unknown category yields a ValidationError.
func New(info Info) (Info, error) {
	category, err := ParseCategory(string(info.Category))
	if err != nil {
		return Info{}, err
	}

	out := info
	out.Category = category
	for _, f := range out.stringFields() {
		*f = strings.TrimSpace(*f)
	}

	out.AdditionalRequirements = make([]string, 0, len(info.AdditionalRequirements))
	for _, r := range info.AdditionalRequirements {
		if r = strings.TrimSpace(r); r != "" {
			out.AdditionalRequirements = append(out.AdditionalRequirements, r)
		}
	}
	return out, nil
}

// wireInfo accepts the legacy "database" key as an alias of database_type.
type wireInfo struct {
	Info
	Database string `json:"database,omitempty"`
}

// Decode reads a JSON project description from r and validates it.
func Decode(r io.Reader) (Info, error) {
	var w wireInfo
	dec := json.NewDecoder(r)
	if err := dec.Decode(&w); err != nil {
		return Info{}, errors.New(errors.CodeInvalidInput, "malformed project description", err)
	}
	if w.DatabaseType == "" {
		w.DatabaseType = w.Database
	}
	return New(w.Info)
}

// Unmarshal is Decode for an in-memory document.
func Unmarshal(data []byte) (Info, error) {
	return Decode(bytes.NewReader(data))
}

// Language returns the field most representative of the project's primary
// language: the backend language, else the frontend framework.
func (i Info) Language() string {
	if i.BackendLanguage != "" {
		return i.BackendLanguage
	}
	return i.FrontendFramework
}

func (i *Info) stringFields() []*string {
	return []*string{
		&i.ProjectType,
		&i.FrontendFramework, &i.StylingApproach, &i.StateManagement, &i.HTTPClient,
		&i.UILibrary, &i.BuildTool, &i.TestingFramework,
		&i.BackendLanguage, &i.BackendFramework, &i.DatabaseType, &i.AuthMethod,
		&i.APIStyle, &i.ORMTool,
		&i.CodeStyle, &i.DeploymentPlatform, &i.Notes,
	}
}
