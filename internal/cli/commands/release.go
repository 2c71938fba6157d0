package commands

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/leapstack-labs/ontolint/internal/cli/output"
	"github.com/leapstack-labs/ontolint/internal/release"
	"github.com/spf13/cobra"
)

// ReleaseOptions holds options for the release command.
type ReleaseOptions struct {
	OutputDir string
}

// NewReleaseCommand creates the release command.
func NewReleaseCommand() *cobra.Command {
	opts := &ReleaseOptions{}
	cmd := &cobra.Command{
		Use:   "release [catalog]",
		Short: "Merge every catalog Turtle file into one release file",
		Long: `Merge every Turtle file of the catalog into a single release file.

All *.ttl files under the catalog are parsed, skipping hidden directories and
the base-name patterns in release.exclude. Their triples are unioned without
duplicates, the configured prefixes are bound, and the result is written to
<output_dir>/ontouml-models-<YYYYMMDD>.ttl.`,
		Example: `  # Build a release of the current catalog
  ontolint release

  # Write the release file somewhere else
  ontolint release ../ontouml-models --output-dir dist`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelease(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "Directory for the release file (default: release.output_dir)")
	return cmd
}

func runRelease(cmd *cobra.Command, args []string, opts *ReleaseOptions) error {
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

	outDir := cfg.Release.OutputDir
	if opts.OutputDir != "" {
		outDir = opts.OutputDir
	}

	res, err := release.Build(cmd.Context(), release.Config{
		CatalogPath: cfg.CatalogPath,
		OutputDir:   outDir,
		Exclude:     cfg.Release.Exclude,
		Prefixes:    cfg.Release.Prefixes,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(map[string]any{
			"path":    res.Path,
			"files":   res.Files,
			"triples": res.Triples,
		})
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Release"))
		r.Println("")
		r.Println(output.FormatKeyValue("Path", res.Path))
		r.Println(output.FormatKeyValue("Files", strconv.Itoa(res.Files)))
		r.Println(output.FormatKeyValue("Triples", strconv.Itoa(res.Triples)))
	default:
		r.Success(fmt.Sprintf("Merged %d files (%d triples)", res.Files, res.Triples))
		r.Println(r.Styles().Path.Render(res.Path))
	}
	return nil
}
