package wizard

import (
	"slices"
	"testing"

	"github.com/jllopis/rulesetgen/pkg/catalog"
	"github.com/jllopis/rulesetgen/pkg/project"
)

func TestQuestions(t *testing.T) {
	c := catalog.Default()

	tests := []struct {
		category project.Category
		groups   []string
	}{
		{project.CategoryFrontend, []string{"frameworks", "styling_approaches", "state_management", "http_clients", "ui_libraries", "build_tools", "testing_frameworks", "code_styles", "deployment_platforms"}},
		{project.CategoryBackend, []string{"languages", "frameworks", "databases", "auth_methods", "api_styles", "orm_tools", "code_styles", "deployment_platforms"}},
		// deployment_platforms is asked once, from the category block.
		{project.CategoryFullstack, []string{"frameworks", "databases", "deployment_platforms", "code_styles"}},
		{project.CategoryMobile, []string{"frameworks", "state_management", "ui_libraries", "code_styles", "deployment_platforms"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			qs := Questions(c, tt.category)
			var groups []string
			for _, q := range qs {
				groups = append(groups, q.Group)
				if len(q.Choices) == 0 {
					t.Errorf("question %s has no choices", q.Group)
				}
			}
			if !slices.Equal(groups, tt.groups) {
				t.Errorf("expected %v, got %v", tt.groups, groups)
			}
		})
	}
}

func TestQuestionFieldBinding(t *testing.T) {
	qs := Questions(catalog.Default(), project.CategoryBackend)

	var info project.Info
	*qs[0].Field(&info) = qs[0].Choices[0]
	if info.BackendLanguage != "Python" {
		t.Errorf("expected first backend language bound to the field, got %+v", info)
	}
}

func TestQuestionsSkipEmptyGroups(t *testing.T) {
	c, err := catalog.Parse([]byte(`
project_types: [Other]
categories:
  frontend: {frameworks: [React]}
  backend: {}
  fullstack: {}
  mobile: {}
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	qs := Questions(c, project.CategoryBackend)
	if len(qs) != 0 {
		t.Errorf("expected no questions, got %d", len(qs))
	}
	if qs := Questions(c, project.CategoryFrontend); len(qs) != 1 || qs[0].Title != "Frontend framework" {
		t.Errorf("unexpected frontend questions %+v", qs)
	}
}

func TestSplitRequirements(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"Docker", []string{"Docker"}},
		{" Docker , CI/CD,, ", []string{"Docker", "CI/CD"}},
	}
	for _, tt := range tests {
		if got := SplitRequirements(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("SplitRequirements(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewDefaultsCatalog(t *testing.T) {
	w := New(nil, WithAccessible(true))
	if w.catalog != catalog.Default() || !w.accessible {
		t.Errorf("unexpected wizard %+v", w)
	}
}
