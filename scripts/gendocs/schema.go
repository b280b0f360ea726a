package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leapsp/internal/cli/config"
	"github.com/leapstack-labs/leapsp/pkg/op"
)

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
	Category    string // "project", "target", "decimal"
}

// getConfigSchema returns the configuration schema definition.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "state_path", Type: "string", Default: config.DefaultStateFile, Description: "Run history database, relative to the project root", Category: "project"},
		{Name: "environment", Type: "string", Default: config.DefaultEnv, Description: "Environment name", Category: "project"},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "Output format: auto, text, markdown, json, yaml", Category: "project"},
		{Name: "log_level", Type: "string", Default: config.DefaultLogLevel, Description: "Log level: debug, info, warn, error", Category: "project"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Verbose output and debug logging", Category: "project"},

		{Name: "type", Type: "string", Default: config.DefaultTargetType, Description: "Adapter: duckdb, sqlite, postgres", Category: "target"},
		{Name: "database", Type: "string", Default: ":memory:", Description: "File path (duckdb, sqlite) or database name (postgres)", Category: "target"},
		{Name: "schema", Type: "string", Description: "Default schema", Category: "target"},
		{Name: "host", Type: "string", Description: "Database host (postgres)", Category: "target"},
		{Name: "port", Type: "int", Default: "5432", Description: "Database port (postgres)", Category: "target"},
		{Name: "user", Type: "string", Description: "Database username (postgres)", Category: "target"},
		{Name: "password", Type: "string", Description: "Database password (postgres)", Category: "target"},
		{Name: "options", Type: "map[string]string", Description: "Driver options; PRAGMAs for sqlite, settings for duckdb", Category: "target"},

		{Name: "precision", Type: "int", Default: fmt.Sprint(op.DefaultPrecision), Description: "Significant digits kept by NUMERIC division", Category: "decimal"},
		{Name: "rounding", Type: "string", Default: "half_up", Description: "Rounding mode: half_up, half_even, half_down, down, up, ceiling, floor, 05up", Category: "decimal"},
		{Name: "scale", Type: "int", Description: "Fixed result scale for NUMERIC division (unset keeps the natural scale)", Category: "decimal"},
	}
}

// generateSchemaDocs generates the configuration reference.
func generateSchemaDocs(outDir string) error {
	log.Printf("Generating configuration docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "leapsp configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("leapsp is configured via `leapsp.yaml` in your project root.")

	sections := []struct {
		category, title, intro string
	}{
		{"project", "Project Settings", "Top-level keys:"},
		{"target", "Target", "The database procedures run against, under the `target` key:"},
		{"decimal", "Decimal Arithmetic", "NUMERIC division settings, under the `decimal` key:"},
	}
	for _, s := range sections {
		w.Header(2, s.title)
		w.Paragraph(s.intro)
		var rows [][]string
		for _, f := range getConfigSchema() {
			if f.Category != s.category {
				continue
			}
			def := "-"
			if f.Default != "" {
				def = InlineCode(f.Default)
			}
			rows = append(rows, []string{InlineCode(f.Name), f.Type, def, f.Description})
		}
		w.Table([]string{"Field", "Type", "Default", "Description"}, rows)
	}

	w.Header(2, "Environments")
	w.Paragraph("Each entry under `environments` may override `target` and `decimal`. Select one with `--target`.")

	w.Header(2, "Full Configuration Example")
	w.CodeBlock("yaml", `# leapsp.yaml
target:
  type: duckdb
  database: dev.duckdb

decimal:
  precision: 38
  rounding: half_up

state_path: .leapsp/runs.db

environments:
  prod:
    target:
      type: postgres
      host: db.example.com
      user: leapsp
      password: ${PROD_DB_PASSWORD}
      database: hr
    decimal:
      rounding: half_even
      scale: 2`)

	w.Header(2, "Environment Variables")
	w.Paragraph("Use `${VAR_NAME}` syntax to reference environment variables in target settings.")

	filename := filepath.Join(outDir, "configuration.md")
	if err := os.WriteFile(filename, w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}
