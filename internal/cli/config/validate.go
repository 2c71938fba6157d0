package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/leapstack-labs/ontolint/pkg/quality"
)

// validOutputs lists the accepted output modes.
var validOutputs = []string{"", "auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ModelsDir == "" {
		return fmt.Errorf("models_dir is required")
	}
	if c.OntologyFile == "" {
		return fmt.Errorf("ontology_file is required")
	}
	if _, err := c.CheckIDs(); err != nil {
		return fmt.Errorf("invalid checks: %w", err)
	}

	valid := false
	for _, o := range validOutputs {
		if c.OutputFormat == o {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid output format %q (expected one of: %s)",
			c.OutputFormat, strings.Join(validOutputs[1:], ", "))
	}

	// Only validate directory existence if we're running a command that needs it
	// This allows help commands to work without a valid directory
	return nil
}

// CheckIDs returns the selected checks in run order. An empty selection
// means every check.
func (c *Config) CheckIDs() ([]quality.CheckID, error) {
	if len(c.Checks) == 0 {
		return quality.AllChecks(), nil
	}
	return quality.ParseCheckIDs(c.Checks)
}

// ValidateCatalog checks that the catalog path exists and is a directory.
func (c *Config) ValidateCatalog() error {
	info, err := os.Stat(c.CatalogPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("catalog path does not exist: %s\nHint: Pass the catalog directory as an argument or set catalog_path", c.CatalogPath)
	}
	if err != nil {
		return fmt.Errorf("failed to stat catalog path %s: %w", c.CatalogPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("catalog path is not a directory: %s", c.CatalogPath)
	}
	return nil
}
