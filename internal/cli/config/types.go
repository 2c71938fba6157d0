// Package config provides configuration management for the ontolint CLI.
//
// Values are layered with koanf: built-in defaults, then ontolint.yaml,
// then ONTOLINT_ environment variables, then explicitly set flags.
package config

import (
	"github.com/leapstack-labs/ontolint/internal/syntax"
	"github.com/leapstack-labs/ontolint/pkg/ontology"
	"github.com/leapstack-labs/ontolint/pkg/quality"
)

// Config holds all CLI configuration options.
type Config struct {
	CatalogPath  string          `koanf:"catalog_path" yaml:"catalog_path" json:"catalog_path"`
	ModelsDir    string          `koanf:"models_dir" yaml:"models_dir" json:"models_dir"`
	OntologyFile string          `koanf:"ontology_file" yaml:"ontology_file" json:"ontology_file"`
	ResultsDir   string          `koanf:"results_dir" yaml:"results_dir" json:"results_dir"`
	LogDir       string          `koanf:"log_dir" yaml:"log_dir" json:"log_dir"`
	Verbose      bool            `koanf:"verbose" yaml:"verbose" json:"verbose"`
	OutputFormat string          `koanf:"output" yaml:"output" json:"output"`
	Checks       []string        `koanf:"checks" yaml:"checks" json:"checks"`
	StatePath    string          `koanf:"state_path" yaml:"state_path" json:"state_path"`
	MetricsFile  string          `koanf:"metrics_file" yaml:"metrics_file" json:"metrics_file"`
	Release      ReleaseConfig   `koanf:"release" yaml:"release" json:"release"`
	Validator    ValidatorConfig `koanf:"validator" yaml:"validator" json:"validator"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-" yaml:"-" json:"project_root"`
}

// ReleaseConfig configures the release command.
type ReleaseConfig struct {
	OutputDir string            `koanf:"output_dir" yaml:"output_dir" json:"output_dir"`
	Exclude   []string          `koanf:"exclude" yaml:"exclude" json:"exclude"`
	Prefixes  map[string]string `koanf:"prefixes" yaml:"prefixes" json:"prefixes"`
}

// ValidatorConfig configures the external syntax validator.
type ValidatorConfig struct {
	Command       []string `koanf:"command" yaml:"command" json:"command"`
	SuccessMarker string   `koanf:"success_marker" yaml:"success_marker" json:"success_marker"`
}

// Default configuration values.
const (
	DefaultCatalogPath  = "."
	DefaultModelsDir    = "models"
	DefaultOntologyFile = "ontology.ttl"
	DefaultResultsDir   = "results"
	DefaultLogDir       = "logs"
	DefaultStateFile    = ".ontolint/state.db"
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultReleaseDir   = "."
)

// DefaultReleaseExclude lists the base-name patterns left out of a release.
func DefaultReleaseExclude() []string {
	return []string{"*-shape.ttl", "vocabulary.ttl"}
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		CatalogPath:  DefaultCatalogPath,
		ModelsDir:    DefaultModelsDir,
		OntologyFile: DefaultOntologyFile,
		ResultsDir:   DefaultResultsDir,
		LogDir:       DefaultLogDir,
		OutputFormat: DefaultOutput,
		Checks:       defaultChecks(),
		StatePath:    DefaultStateFile,
		Release: ReleaseConfig{
			OutputDir: DefaultReleaseDir,
			Exclude:   DefaultReleaseExclude(),
			Prefixes:  ontology.DefaultPrefixes(),
		},
		Validator: ValidatorConfig{
			Command:       []string{syntax.DefaultCommand},
			SuccessMarker: syntax.DefaultSuccessMarker,
		},
	}
}

func defaultChecks() []string {
	ids := quality.AllChecks()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// defaultsMap flattens Default into koanf keys.
func defaultsMap() map[string]interface{} {
	d := Default()
	prefixes := make(map[string]interface{}, len(d.Release.Prefixes))
	for p, ns := range d.Release.Prefixes {
		prefixes[p] = ns
	}
	return map[string]interface{}{
		"catalog_path":             d.CatalogPath,
		"models_dir":               d.ModelsDir,
		"ontology_file":            d.OntologyFile,
		"results_dir":              d.ResultsDir,
		"log_dir":                  d.LogDir,
		"verbose":                  false,
		"output":                   d.OutputFormat,
		"checks":                   d.Checks,
		"state_path":               d.StatePath,
		"metrics_file":             "",
		"release.output_dir":       d.Release.OutputDir,
		"release.exclude":          d.Release.Exclude,
		"release.prefixes":         prefixes,
		"validator.command":        d.Validator.Command,
		"validator.success_marker": d.Validator.SuccessMarker,
	}
}
