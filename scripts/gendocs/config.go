package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/ontolint/internal/cli/config"
)

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
	Category    string // "catalog", "run", "release", "validator"
}

// getConfigSchema returns the configuration schema, with defaults taken
// from config.Default.
func getConfigSchema() []ConfigField {
	d := config.Default()
	return []ConfigField{
		{Name: "catalog_path", Type: "string", Default: d.CatalogPath, Description: "Catalog root", Category: "catalog"},
		{Name: "models_dir", Type: "string", Default: d.ModelsDir, Description: "Datasets directory inside the catalog", Category: "catalog"},
		{Name: "ontology_file", Type: "string", Default: d.OntologyFile, Description: "Ontology file name inside each dataset", Category: "catalog"},

		{Name: "results_dir", Type: "string", Default: d.ResultsDir, Description: "Directory for the CSV reports", Category: "run"},
		{Name: "log_dir", Type: "string", Default: d.LogDir, Description: "Directory for run log files, empty to disable", Category: "run"},
		{Name: "checks", Type: "[]string", Default: strings.Join(d.Checks, ","), Description: "Checks to run, in run order", Category: "run"},
		{Name: "state_path", Type: "string", Default: d.StatePath, Description: "Run ledger database, empty to disable", Category: "run"},
		{Name: "metrics_file", Type: "string", Description: "Prometheus textfile written after each run, empty to disable", Category: "run"},
		{Name: "output", Type: "string", Default: d.OutputFormat, Description: "Output format: auto, text, markdown, json", Category: "run"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Log debug messages to the console", Category: "run"},

		{Name: "release.output_dir", Type: "string", Default: d.Release.OutputDir, Description: "Directory for the release file", Category: "release"},
		{Name: "release.exclude", Type: "[]string", Default: strings.Join(d.Release.Exclude, ","), Description: "Base-name patterns left out of the release", Category: "release"},
		{Name: "release.prefixes", Type: "map[string]string", Description: "Prefixes bound in the release file, merged with the defaults", Category: "release"},

		{Name: "validator.command", Type: "[]string", Default: strings.Join(d.Validator.Command, " "), Description: "Validator program and leading arguments", Category: "validator"},
		{Name: "validator.success_marker", Type: "string", Default: d.Validator.SuccessMarker, Description: "Output text marking a valid file", Category: "validator"},
	}
}

// generateConfigDocs generates the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating configuration docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "ontolint configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("ontolint reads `ontolint.yaml` from the working directory, or the file given with `--config`. " +
		"Relative paths in the file resolve against the directory holding it.")

	sections := []struct {
		category string
		title    string
	}{
		{"catalog", "Catalog Layout"},
		{"run", "Verification Runs"},
		{"release", "Release Packaging"},
		{"validator", "Syntax Validation"},
	}

	fields := getConfigSchema()
	for _, sec := range sections {
		w.Header(2, sec.title)
		var rows [][]string
		for _, f := range fields {
			if f.Category != sec.category {
				continue
			}
			defVal := "-"
			if f.Default != "" {
				defVal = InlineCode(f.Default)
			}
			rows = append(rows, []string{InlineCode(f.Name), f.Type, defVal, f.Description})
		}
		w.Table([]string{"Field", "Type", "Default", "Description"}, rows)
	}

	w.Header(2, "Default Prefixes")
	prefixes := config.Default().Release.Prefixes
	names := make([]string, 0, len(prefixes))
	for p := range prefixes {
		names = append(names, p)
	}
	sort.Strings(names)
	var rows [][]string
	for _, p := range names {
		rows = append(rows, []string{InlineCode(p), prefixes[p]})
	}
	w.Table([]string{"Prefix", "Namespace"}, rows)

	w.Header(2, "Example")
	w.CodeBlock("yaml", `models_dir: models
results_dir: results
checks: [char, ends, gens, ster]
state_path: .ontolint/state.db
release:
  output_dir: dist
  exclude: ["*-shape.ttl", vocabulary.ttl]
validator:
  command: [ttl]`)

	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600)
}
