// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"strings"
	"testing"

	"github.com/jllopis/rulesetgen/pkg/errors"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{in: "frontend", want: CategoryFrontend},
		{in: "Backend", want: CategoryBackend},
		{in: "  FULLSTACK ", want: CategoryFullstack},
		{in: "mobile", want: CategoryMobile},
		{in: "desktop", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				if !errors.IsValidation(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestNewNormalizes(t *testing.T) {
	reqs := []string{" i18n ", "", "a11y"}
	info, err := New(Info{
		Category:               "Frontend",
		ProjectType:            " Web Application ",
		FrontendFramework:      "React ",
		AdditionalRequirements: reqs,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if info.Category != CategoryFrontend {
		t.Errorf("expected canonical category, got %q", info.Category)
	}
	if info.ProjectType != "Web Application" || info.FrontendFramework != "React" {
		t.Errorf("expected trimmed fields, got %q / %q", info.ProjectType, info.FrontendFramework)
	}
	if len(info.AdditionalRequirements) != 2 || info.AdditionalRequirements[0] != "i18n" {
		t.Errorf("unexpected requirements: %v", info.AdditionalRequirements)
	}

	reqs[2] = "mutated"
	if info.AdditionalRequirements[1] != "a11y" {
		t.Errorf("expected requirements to be copied, got %v", info.AdditionalRequirements)
	}
}

func TestNewDefaults(t *testing.T) {
	info, err := New(Info{Category: CategoryBackend})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if info.TestingRequirement {
		t.Errorf("expected testing requirement to default to false")
	}
	if info.AdditionalRequirements == nil || len(info.AdditionalRequirements) != 0 {
		t.Errorf("expected empty non-nil requirements, got %#v", info.AdditionalRequirements)
	}
}

func TestNewRejectsUnknownCategory(t *testing.T) {
	_, err := New(Info{Category: "embedded", ProjectType: "Firmware"})
	if !errors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "embedded") {
		t.Errorf("expected category in message, got %q", err.Error())
	}
}

func TestDecode(t *testing.T) {
	body := `{
		"project_category": "backend",
		"project_type": "API/Microservice",
		"backend_language": "python",
		"backend_framework": "fastapi",
		"database": "postgresql",
		"testing_requirement": true,
		"additional_requirements": ["OpenAPI docs", "Docker"]
	}`

	info, err := Decode(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if info.Category != CategoryBackend {
		t.Errorf("expected backend, got %s", info.Category)
	}
	if info.DatabaseType != "postgresql" {
		t.Errorf("expected database alias to populate database_type, got %q", info.DatabaseType)
	}
	if !info.TestingRequirement {
		t.Errorf("expected testing requirement true")
	}
	if got := strings.Join(info.AdditionalRequirements, "|"); got != "OpenAPI docs|Docker" {
		t.Errorf("unexpected requirements order: %s", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: `{"project_category": `},
		{name: "unknown category", body: `{"project_category": "desktop", "project_type": "App"}`},
		{name: "missing category", body: `{"project_type": "App"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.body)); !errors.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestLanguage(t *testing.T) {
	if got := (Info{BackendLanguage: "Go", FrontendFramework: "React"}).Language(); got != "Go" {
		t.Errorf("expected backend language to win, got %q", got)
	}
	if got := (Info{FrontendFramework: "Vue.js"}).Language(); got != "Vue.js" {
		t.Errorf("expected frontend framework, got %q", got)
	}
	if got := (Info{}).Language(); got != "" {
		t.Errorf("expected empty language, got %q", got)
	}
}
