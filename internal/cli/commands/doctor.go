package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/ontolint/internal/catalog"
	"github.com/leapstack-labs/ontolint/internal/cli/output"
	"github.com/leapstack-labs/ontolint/internal/syntax"
	"github.com/leapstack-labs/ontolint/pkg/ontology"
	"github.com/spf13/cobra"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	SkipParse bool // Do not parse the dataset ontologies
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor [catalog]",
		Short: "Check that a catalog and the environment are ready for verification",
		Long: `Check the catalog layout and the tools ontolint depends on before a run.

The doctor command reports:
- Catalog summary (datasets, Turtle files, release files)
- Catalog checks (models directory, ontology files, Turtle parsing)
- Environment checks (syntax validator, run ledger, results directory)
- Health score (0-100)
- Actionable recommendations

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check the catalog in the current directory
  ontolint doctor

  # Check another catalog without parsing every dataset
  ontolint doctor ../ontouml-models --skip-parse

  # Output as JSON
  ontolint doctor -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.SkipParse, "skip-parse", false, "Skip parsing the dataset ontology files")
	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary         CatalogSummary `json:"summary"`
	HealthChecks    []HealthCheck  `json:"health_checks"`
	Score           int            `json:"score"`
	Recommendations []string       `json:"recommendations"`
	IssueCount      int            `json:"issue_count"`
}

// CatalogSummary contains catalog-level statistics.
type CatalogSummary struct {
	Catalog      string `json:"catalog"`
	Datasets     int    `json:"datasets"`
	TurtleFiles  int    `json:"turtle_files"`
	ReleaseFiles int    `json:"release_files"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"` // "pass", "warn", "error"
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
}

func newHealthCheck(id, name, group, severity string, details []string) HealthCheck {
	status := "pass"
	if len(details) > 0 {
		status = severity
	}
	return HealthCheck{ID: id, Name: name, Group: group, Status: status, IssueCount: len(details), Details: details}
}

func runDoctor(cmd *cobra.Command, args []string, opts *DoctorOptions) error {
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

	out, err := buildDoctorOutput(cmdCtx, opts)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, out)
	default:
		return renderDoctorText(r, out)
	}
}

func buildDoctorOutput(cmdCtx *CommandContext, opts *DoctorOptions) (*DoctorOutput, error) {
	cfg := cmdCtx.Cfg
	summary := CatalogSummary{Catalog: cfg.CatalogPath}

	turtle, err := catalog.TurtleFiles(cfg.CatalogPath, nil)
	if err != nil {
		return nil, err
	}
	summary.TurtleFiles = len(turtle)
	release, err := catalog.TurtleFiles(cfg.CatalogPath, cfg.Release.Exclude)
	if err != nil {
		return nil, err
	}
	summary.ReleaseFiles = len(release)

	var checks []HealthCheck
	datasets, err := catalog.Discover(cfg.CatalogPath, cfg.ModelsDir)
	switch {
	case errors.Is(err, catalog.ErrModelsDirMissing):
		checks = append(checks, newHealthCheck("CA01", "Models directory", "catalog", "error", []string{err.Error()}))
	case err != nil:
		return nil, err
	default:
		summary.Datasets = len(datasets)
		checks = append(checks,
			newHealthCheck("CA01", "Models directory", "catalog", "error", nil),
			checkOntologyFiles(datasets, cfg.OntologyFile))
		if !opts.SkipParse {
			checks = append(checks, checkTurtleParsing(cmdCtx, datasets, cfg.OntologyFile))
		}
	}

	checks = append(checks,
		checkValidator(cfg.Validator.Command),
		checkLedger(cmdCtx),
		checkResultsDir(cfg.ResultsDir))

	sort.SliceStable(checks, func(i, j int) bool {
		if checks[i].Group != checks[j].Group {
			return checks[i].Group < checks[j].Group
		}
		return checks[i].ID < checks[j].ID
	})

	issues := 0
	for _, c := range checks {
		issues += c.IssueCount
	}

	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    checks,
		Score:           calculateHealthScore(checks, summary.Datasets),
		Recommendations: generateRecommendations(checks),
		IssueCount:      issues,
	}, nil
}

func checkOntologyFiles(datasets []catalog.Dataset, file string) HealthCheck {
	var details []string
	for _, ds := range datasets {
		if _, err := os.Stat(ds.OntologyPath(file)); err != nil {
			details = append(details, fmt.Sprintf("%s: no %s", ds.Name, file))
		}
	}
	return newHealthCheck("CA02", "Ontology files", "catalog", "error", details)
}

func checkTurtleParsing(cmdCtx *CommandContext, datasets []catalog.Dataset, file string) HealthCheck {
	var details []string
	for _, ds := range datasets {
		path := ds.OntologyPath(file)
		if _, err := os.Stat(path); err != nil {
			continue // reported by CA02
		}
		if _, err := ontology.ReadTurtle(path); err != nil {
			details = append(details, fmt.Sprintf("%s: %v", ds.Name, err))
			continue
		}
		cmdCtx.Logger.Debug("ontology parsed", "dataset", ds.Name)
	}
	return newHealthCheck("CA03", "Turtle parsing", "catalog", "error", details)
}

func checkValidator(command []string) HealthCheck {
	program := syntax.DefaultCommand
	if len(command) > 0 {
		program = command[0]
	}
	var details []string
	if _, err := exec.LookPath(program); err != nil {
		details = append(details, fmt.Sprintf("%s not found in PATH", program))
	}
	return newHealthCheck("EN01", "Syntax validator", "environment", "warn", details)
}

func checkLedger(cmdCtx *CommandContext) HealthCheck {
	var details []string
	store, cleanup, err := cmdCtx.OpenLedger()
	switch {
	case err != nil:
		details = append(details, err.Error())
	case store != nil:
		defer cleanup()
		if _, verr := store.GetMigrationVersion(); verr != nil {
			details = append(details, verr.Error())
		}
	}
	return newHealthCheck("EN02", "Run ledger", "environment", "error", details)
}

func checkResultsDir(dir string) HealthCheck {
	var details []string
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// created on the first run
	case err != nil:
		details = append(details, err.Error())
	case !info.IsDir():
		details = append(details, dir+" is not a directory")
	}
	return newHealthCheck("EN03", "Results directory", "environment", "error", details)
}

// calculateHealthScore computes a health score from 0-100.
// Errors cost twice as much as warnings, and larger catalogs lower the
// cost of each issue.
func calculateHealthScore(checks []HealthCheck, datasetCount int) int {
	if len(checks) == 0 {
		return 100
	}

	score := 100.0

	basePenalty := 5.0
	if datasetCount > 10 {
		basePenalty = 3.0
	}
	if datasetCount > 50 {
		basePenalty = 2.0
	}
	if datasetCount > 100 {
		basePenalty = 1.0
	}

	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * basePenalty * 2
		case "warn":
			score -= float64(check.IssueCount) * basePenalty
		}
	}

	if score < 0 {
		score = 0
	}
	return int(score)
}

// generateRecommendations creates actionable recommendations based on findings.
func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	for _, check := range checks {
		if check.IssueCount == 0 {
			continue
		}
		if rec := getRecommendation(check.ID); rec != "" {
			recommendations = append(recommendations, rec)
		}
	}
	return recommendations
}

func getRecommendation(id string) string {
	switch id {
	case "CA01":
		return "Point --catalog at the catalog root or set models_dir"
	case "CA02":
		return "Add the ontology file to every dataset directory or set ontology_file"
	case "CA03":
		return "Fix the Turtle syntax of the listed datasets; verify aborts on the first parse error"
	case "EN01":
		return "Install the validator or set validator.command"
	case "EN02":
		return "Remove or repair the state database, or unset state_path"
	case "EN03":
		return "Set results_dir to a directory"
	default:
		return ""
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("ontolint Catalog Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Catalog Summary"))
	r.Println("   " + styles.Path.Render(out.Summary.Catalog))
	r.Printf("   Datasets: %d | Turtle files: %d | Release files: %d\n",
		out.Summary.Datasets, out.Summary.TurtleFiles, out.Summary.ReleaseFiles)
	r.Println("")

	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.StatusSuccess.Render("✓")
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.StatusFailed.Render("✗")
		}

		status := fmt.Sprintf("%s %s: %s", icon, check.ID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println(output.FormatHeader(1, "Catalog Health Report"))
	r.Println("")

	r.Println(output.FormatHeader(2, "Catalog Summary"))
	r.Println("")
	r.Println(output.FormatKeyValue("Catalog", out.Summary.Catalog))
	r.Printf("- **Datasets:** %d\n", out.Summary.Datasets)
	r.Printf("- **Turtle files:** %d\n", out.Summary.TurtleFiles)
	r.Printf("- **Release files:** %d\n", out.Summary.ReleaseFiles)
	r.Println("")

	r.Println(output.FormatHeader(2, "Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(output.FormatHeader(3, titleCaser.String(currentGroup)))
			r.Println("")
		}

		line := fmt.Sprintf("- **[%s]** %s: %s", strings.ToUpper(check.Status), check.ID, check.Name)
		if check.IssueCount > 0 {
			line += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println(line)

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println(output.FormatHeader(2, "Health Score"))
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(output.FormatHeader(2, "Recommendations"))
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}
