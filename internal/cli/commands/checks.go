package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/ontolint/internal/cli/output"
	"github.com/leapstack-labs/ontolint/internal/report"
	"github.com/leapstack-labs/ontolint/pkg/quality"
	"github.com/spf13/cobra"
)

// ChecksOptions holds options for the checks command.
type ChecksOptions struct {
	Verbose bool // Show full documentation
}

// NewChecksCommand creates the checks command.
func NewChecksCommand() *cobra.Command {
	opts := &ChecksOptions{}
	cmd := &cobra.Command{
		Use:   "checks [check-id]",
		Short: "List the data quality checks",
		Long: `List the data quality checks with their report columns.

Each check writes its findings to results_<id>.csv. Use a check id to see
why the convention exists and how to fix a finding.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all checks
  ontolint checks

  # Show details for the generalization check
  ontolint checks gens

  # Output as JSON
  ontolint checks -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showCheck(cmd, args[0])
			}
			return listChecks(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	return cmd
}

// CheckInfo is the serializable description of a check.
type CheckInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	File        string   `json:"file"`
	Columns     []string `json:"columns"`
	Rationale   string   `json:"rationale,omitempty"`
	Fix         string   `json:"fix,omitempty"`
}

// ChecksJSONOutput is the JSON output structure for the checks listing.
type ChecksJSONOutput struct {
	Checks []CheckInfo `json:"checks"`
	Count  int         `json:"count"`
}

func checkInfo(def quality.CheckDef) CheckInfo {
	header, _ := quality.Header(def.ID)
	return CheckInfo{
		ID:          def.ID.String(),
		Name:        def.Name,
		Description: def.Description,
		File:        report.FileName(def.ID),
		Columns:     header,
		Rationale:   def.Rationale,
		Fix:         def.Fix,
	}
}

func listChecks(cmd *cobra.Command, opts *ChecksOptions) error {
	r := NewCommandContext(cmd).Renderer

	var checks []CheckInfo
	for _, def := range quality.Definitions() {
		checks = append(checks, checkInfo(def))
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(ChecksJSONOutput{Checks: checks, Count: len(checks)})
	case output.ModeMarkdown:
		return listChecksMarkdown(r, checks, opts.Verbose)
	default:
		return listChecksText(r, checks, opts.Verbose)
	}
}

func showCheck(cmd *cobra.Command, arg string) error {
	r := NewCommandContext(cmd).Renderer

	id, err := quality.ParseCheckID(arg)
	if err != nil {
		return fmt.Errorf("check %q not found (available: %s)", arg, strings.Join(checkCodes(quality.AllChecks()), ", "))
	}
	def, err := quality.Definition(id)
	if err != nil {
		return err
	}
	info := checkInfo(def)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(info)
	case output.ModeMarkdown:
		return showCheckMarkdown(r, info)
	default:
		return showCheckText(r, info)
	}
}

// listChecksText outputs checks in styled text format.
func listChecksText(r *output.Renderer, checks []CheckInfo, verbose bool) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Data Quality Checks (%d)", len(checks))))
	r.Println("")

	rows := make([][]string, 0, len(checks))
	for _, c := range checks {
		rows = append(rows, []string{c.ID, c.Name, c.File, c.Description})
	}
	r.Table([]string{"id", "name", "report", "description"}, rows)

	if verbose {
		r.Println("")
		for _, c := range checks {
			r.Println(styles.Bold.Render("  " + c.ID))
			r.Println(styles.Muted.Render("    Columns: " + strings.Join(c.Columns, ", ")))
			if c.Rationale != "" {
				r.Println(styles.Muted.Render("    Why: " + c.Rationale))
			}
			r.Println("")
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'ontolint checks <check-id>' for detailed documentation"))
	r.Println("")
	return nil
}

// listChecksMarkdown outputs checks in markdown format.
func listChecksMarkdown(r *output.Renderer, checks []CheckInfo, verbose bool) error {
	r.Println("# Data Quality Checks")
	r.Println("")

	for _, c := range checks {
		r.Printf("- **%s** - %s (`%s`)\n", c.ID, c.Description, c.File)
		if verbose {
			r.Printf("  Columns: `%s`\n", strings.Join(c.Columns, "`, `"))
			if c.Rationale != "" {
				r.Println("  > " + c.Rationale)
			}
		}
	}

	r.Println("")
	return nil
}

// showCheckText displays detailed check info in text format.
func showCheckText(r *output.Renderer, c CheckInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", c.ID, c.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Report"), c.File)
	r.Printf("  %s: %s\n", styles.Bold.Render("Columns"), strings.Join(c.Columns, ", "))
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + c.Description)
	r.Println("")

	if c.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + c.Rationale)
		r.Println("")
	}

	if c.Fix != "" {
		r.Println(styles.Bold.Render("How to Fix"))
		r.Println("  " + c.Fix)
		r.Println("")
	}
	return nil
}

// showCheckMarkdown displays detailed check info in markdown format.
func showCheckMarkdown(r *output.Renderer, c CheckInfo) error {
	r.Printf("# %s - %s\n\n", c.ID, c.Name)
	r.Printf("**Report:** `%s` | **Columns:** `%s`\n\n", c.File, strings.Join(c.Columns, ","))
	r.Println(c.Description)
	r.Println("")

	if c.Rationale != "" {
		r.Println("## Why This Matters")
		r.Println("")
		r.Println(c.Rationale)
		r.Println("")
	}

	if c.Fix != "" {
		r.Println("## How to Fix")
		r.Println("")
		r.Println(c.Fix)
		r.Println("")
	}
	return nil
}
