package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/leapstack-labs/ontolint/internal/cli/output"
	"github.com/leapstack-labs/ontolint/internal/syntax"
	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return newValidateCommand(syntax.ExecRunner)
}

func newValidateCommand(runner syntax.Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [catalog]",
		Short: "Check the Turtle syntax of every catalog file",
		Long: `Run an external Turtle validator on every *.ttl file of the catalog.

The validator (validator.command, default "ttl") is run once per file with
the file path appended. A file is valid when the validator output contains
validator.success_marker. The command fails when any file is invalid.`,
		Example: `  # Validate the current catalog with the default ttl validator
  ontolint validate

  # Validate with a different validator
  ONTOLINT_VALIDATOR__COMMAND="riot --validate" ontolint validate`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, runner)
		},
	}
	return cmd
}

// ValidateJSONOutput is the JSON output structure for a validation.
type ValidateJSONOutput struct {
	Files   []syntax.FileResult `json:"files"`
	Invalid []string            `json:"invalid"`
	Valid   bool                `json:"valid"`
}

func runValidate(cmd *cobra.Command, args []string, runner syntax.Runner) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	if len(args) > 0 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid catalog path %s: %w", args[0], err)
		}
		cfg.CatalogPath = abs
	}
	if err := cfg.ValidateCatalog(); err != nil {
		return err
	}

	v := syntax.NewValidator(syntax.Config{
		Command:       cfg.Validator.Command,
		SuccessMarker: cfg.Validator.SuccessMarker,
		Runner:        runner,
		Logger:        cmdCtx.Logger,
	})
	res, err := v.Validate(cmd.Context(), cfg.CatalogPath)
	if err != nil && !errors.Is(err, syntax.ErrInvalidFiles) {
		return err
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if jerr := r.JSON(ValidateJSONOutput{Files: res.Files, Invalid: res.Invalid, Valid: len(res.Invalid) == 0}); jerr != nil {
			return jerr
		}
	default:
		for _, f := range res.Files {
			rel, rerr := filepath.Rel(cfg.CatalogPath, f.Path)
			if rerr != nil {
				rel = f.Path
			}
			if f.Valid {
				r.StatusLine(rel, "success", "")
			} else {
				r.StatusLine(rel, "failed", f.Output)
			}
		}
		if len(res.Invalid) == 0 {
			r.Success(fmt.Sprintf("%d files valid", len(res.Files)))
		}
	}
	return err
}
