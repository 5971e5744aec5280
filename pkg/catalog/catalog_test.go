package catalog

import (
	"slices"
	"testing"

	"github.com/jllopis/rulesetgen/pkg/errors"
	"github.com/jllopis/rulesetgen/pkg/project"
)

func TestDefault(t *testing.T) {
	c := Default()

	if len(c.ProjectTypes) != 15 || c.ProjectTypes[0] != "Web Application" {
		t.Errorf("unexpected project types %v", c.ProjectTypes)
	}
	for _, area := range []string{"frontend", "backend", "mobile", "database"} {
		if len(c.Frameworks[area]) == 0 {
			t.Errorf("missing frameworks for %s", area)
		}
	}
	for _, cat := range project.Categories {
		if len(c.Options(cat)) == 0 {
			t.Errorf("missing options for %s", cat)
		}
	}
	if Default() != c {
		t.Error("Default should parse the embedded catalog once")
	}
}

func TestChoices(t *testing.T) {
	c := Default()

	tests := []struct {
		category project.Category
		group    string
		first    string
	}{
		{project.CategoryBackend, "languages", "Python"},
		{project.CategoryFrontend, "build_tools", "Vite"},
		{project.CategoryMobile, "frameworks", "React Native"},
		{project.CategoryFullstack, "code_styles", "Standard"}, // from common
	}
	for _, tt := range tests {
		got := c.Choices(tt.category, tt.group)
		if len(got) == 0 || got[0] != tt.first {
			t.Errorf("Choices(%s, %s) = %v", tt.category, tt.group, got)
		}
	}

	got := c.Choices(project.CategoryBackend, "languages")
	got[0] = "changed"
	if c.Choices(project.CategoryBackend, "languages")[0] != "Python" {
		t.Error("Choices should return a copy")
	}
	if c.Choices(project.CategoryBackend, "unknown") != nil {
		t.Error("expected nil for unknown group")
	}
}

func TestCategoriesDocument(t *testing.T) {
	doc := Default().CategoriesDocument()

	cats, ok := doc["categories"].([]string)
	if !ok || !slices.Equal(cats, []string{"frontend", "backend", "fullstack", "mobile"}) {
		t.Errorf("unexpected categories %v", doc["categories"])
	}
	for _, key := range []string{"frontend_options", "backend_options", "fullstack_options", "mobile_options", "common_options"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing %s", key)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid yaml", "project_types: [unclosed"},
		{"missing category", "project_types: [A]\ncategories:\n  frontend: {}\n"},
		{"no project types", "categories:\n  frontend: {}\n  backend: {}\n  fullstack: {}\n  mobile: {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.IsConfiguration(err) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}
