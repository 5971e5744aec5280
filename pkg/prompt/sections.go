// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import "github.com/jllopis/rulesetgen/pkg/project"

// Section is one entry of the document checklist sent to the provider.
type Section struct {
	Title       string
	Description string
}

var frontendSections = []Section{
	{"Agent Role Definition", "Frontend developer persona for AI assistants"},
	{"Technology Stack", "Specific frontend technologies and their usage patterns"},
	{"Component Architecture", "Component structure, atomic design, file organization"},
	{"Styling Guidelines", "CSS/SCSS/Styled-components best practices"},
	{"State Management", "How to handle local and global state"},
	{"API Integration", "HTTP client usage, data fetching patterns"},
	{"Performance Optimization", "Bundle size, lazy loading, memoization"},
	{"Accessibility Standards", "A11Y guidelines and semantic HTML"},
	{"Testing Strategy", "Unit, integration, and E2E testing approaches"},
	{"Code Organization", "File structure, naming conventions"},
	{"Development Workflow", "Git workflow, PR guidelines, code review"},
	{"Build and Deployment", "Bundling, optimization, deployment strategies"},
}

var backendSections = []Section{
	{"Agent Role Definition", "Backend developer persona for AI assistants"},
	{"Technology Stack", "Specific backend technologies and frameworks"},
	{"API Design Principles", "RESTful/GraphQL design patterns"},
	{"Database Design", "Schema design, migrations, queries"},
	{"Authentication & Authorization", "Security patterns and implementations"},
	{"Error Handling", "Exception management and error responses"},
	{"Testing Strategy", "Unit, integration, and API testing"},
	{"Performance & Optimization", "Caching, indexing, query optimization"},
	{"Security Guidelines", "Input validation, SQL injection prevention"},
	{"Code Architecture", "Clean architecture, SOLID principles"},
	{"Documentation Standards", "API documentation, code comments"},
	{"Deployment & DevOps", "Containerization, CI/CD, monitoring"},
}

var fullstackSections = []Section{
	{"Agent Role Definition", "Full-stack developer persona for AI assistants"},
	{"Technology Stack", "Complete frontend and backend technologies"},
	{"Project Architecture", "Monorepo vs separate repos, folder structure"},
	{"API Design", "Backend API design and frontend integration"},
	{"Database Design", "Schema design and frontend data handling"},
	{"Authentication Flow", "End-to-end auth implementation"},
	{"State Management", "Frontend state with backend synchronization"},
	{"Testing Strategy", "Full-stack testing approach"},
	{"Performance", "Both frontend and backend optimization"},
	{"Security", "Comprehensive security measures"},
	{"Development Workflow", "Full-stack development practices"},
	{"Deployment", "Complete application deployment strategy"},
}

// Sections returns the fixed checklist requested for category. Mobile
// projects share the fullstack checklist.
func Sections(category project.Category) []Section {
	var s []Section
	switch category {
	case project.CategoryFrontend:
		s = frontendSections
	case project.CategoryBackend:
		s = backendSections
	default:
		s = fullstackSections
	}
	out := make([]Section, len(s))
	copy(out, s)
	return out
}
