package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/ontolint/internal/cli/config"
	"github.com/leapstack-labs/ontolint/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the configuration file written by init.
const ConfigFileName = "ontolint.yaml"

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter ontolint.yaml into a catalog",
		Long: `Write an ontolint.yaml holding the default configuration into a catalog.

This creates:
  - ontolint.yaml with every setting at its default value
  - models/ directory for the catalog datasets, when missing

Paths in the file are relative to the file itself.`,
		Example: `  # Initialize the catalog in the current directory
  ontolint init

  # Initialize another catalog
  ontolint init ../ontouml-models

  # Force overwrite existing config
  ontolint init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", ConfigFileName)
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	header := "# ontolint configuration. Environment variables (ONTOLINT_*) and flags override these values.\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	r.StatusLine(ConfigFileName, "success", "")

	modelsDir := filepath.Join(dir, config.DefaultModelsDir)
	if _, err := os.Stat(modelsDir); os.IsNotExist(err) {
		if err := os.MkdirAll(modelsDir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", modelsDir, err)
		}
		r.StatusLine(config.DefaultModelsDir+"/", "success", "")
	}

	r.Println("")
	r.Success("ontolint catalog initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Add one directory per dataset to models/, each with an ontology.ttl")
	r.Println("  2. Run 'ontolint doctor' to check the catalog")
	r.Println("  3. Run 'ontolint verify' to write the CSV reports")

	return nil
}

