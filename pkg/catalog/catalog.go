// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog exposes the static lists of project types, frameworks and
// per-category options that clients offer when describing a project.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jllopis/rulesetgen/pkg/errors"
	"github.com/jllopis/rulesetgen/pkg/project"
)

//go:embed catalog.yaml
var embedded []byte

// Options maps an option group (e.g. "frameworks") to its choices.
type Options map[string][]string

// Catalog is the full set of static choices.
type Catalog struct {
	ProjectTypes []string            `yaml:"project_types" json:"project_types"`
	Frameworks   map[string][]string `yaml:"frameworks" json:"frameworks"`
	Categories   map[string]Options  `yaml:"categories" json:"categories"`
	Common       Options             `yaml:"common" json:"common"`
}

// Parse decodes a catalog document. Every project category must have an
// options block.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Configuration("failed to parse catalog", err)
	}
	for _, cat := range project.Categories {
		if _, ok := c.Categories[string(cat)]; !ok {
			return nil, errors.Configuration(fmt.Sprintf("catalog has no options for category %q", cat), nil)
		}
	}
	if len(c.ProjectTypes) == 0 {
		return nil, errors.Configuration("catalog has no project types", nil)
	}
	return &c, nil
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(embedded)
})

// Default returns the built-in catalog. It panics if the embedded document
// is invalid, which the package tests rule out.
func Default() *Catalog {
	c, err := loadDefault()
	if err != nil {
		panic(err)
	}
	return c
}

// Options returns the option groups for category, or nil when unknown.
func (c *Catalog) Options(category project.Category) Options {
	return c.Categories[string(category)]
}

// Choices returns the choices of one option group, falling back to the
// common groups.
func (c *Catalog) Choices(category project.Category, group string) []string {
	if choices, ok := c.Options(category)[group]; ok {
		return slices.Clone(choices)
	}
	return slices.Clone(c.Common[group])
}

// CategoriesDocument returns the project categories response: the category
// list plus "<category>_options" and "common_options" groups.
func (c *Catalog) CategoriesDocument() map[string]any {
	categories := make([]string, 0, len(project.Categories))
	doc := map[string]any{}
	for _, cat := range project.Categories {
		categories = append(categories, string(cat))
		doc[string(cat)+"_options"] = c.Categories[string(cat)]
	}
	doc["categories"] = categories
	doc["common_options"] = c.Common
	return doc
}
