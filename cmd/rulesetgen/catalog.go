// Copyright 2026 © The Rulesetgen Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jllopis/rulesetgen/pkg/catalog"
	"github.com/jllopis/rulesetgen/pkg/errors"
)

var catalogSections = []string{"project-types", "frameworks", "categories"}

func newCatalogCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:       "catalog [project-types|frameworks|categories]",
		Short:     "Print the project choices offered by the API and wizard",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: catalogSections,
		RunE: func(cmd *cobra.Command, args []string) error {
			section := ""
			if len(args) == 1 {
				section = args[0]
			}
			return printCatalog(cmd.OutOrStdout(), catalog.Default(), section, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatYAML, "Output format (json/yaml)")
	return cmd
}

func catalogSection(c *catalog.Catalog, section string) any {
	switch section {
	case "project-types":
		return map[string]any{"project_types": c.ProjectTypes}
	case "frameworks":
		return c.Frameworks
	case "categories":
		return c.CategoriesDocument()
	default:
		return c
	}
}

func printCatalog(w io.Writer, c *catalog.Catalog, section, format string) error {
	doc := catalogSection(c, section)
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case formatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return errors.Validation("format", fmt.Sprintf("unsupported output format %q", format))
	}
}
