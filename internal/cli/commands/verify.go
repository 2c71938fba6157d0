package commands

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/leapstack-labs/ontolint/internal/catalog"
	"github.com/leapstack-labs/ontolint/internal/cli/output"
	"github.com/leapstack-labs/ontolint/internal/metrics"
	"github.com/leapstack-labs/ontolint/internal/report"
	"github.com/leapstack-labs/ontolint/pkg/quality"
	"github.com/spf13/cobra"
)

// NewVerifyCommand creates the verify command.
func NewVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [catalog]",
		Short: "Run the data quality checks over every catalog dataset",
		Long: `Run the data quality checks over every dataset of an OntoUML catalog.

Each first-level directory under <catalog>/<models_dir> is a dataset holding
an ontology file. Datasets are evaluated in name order and every finding is
appended to one CSV report per check in the results directory:

  results_char.csv   character problems in names
  results_ends.csv   association ends that look like multiplicities
  results_gens.csv   generalization and generalization set problems
  results_ster.csv   stereotypes replaced in OntoUML 2

Findings are data, not failures: the command exits 0 when the run completes.
A dataset that cannot be read or a report that cannot be written aborts the run.`,
		Example: `  # Verify the catalog in the current directory
  ontolint verify

  # Verify another catalog, writing reports to ./out
  ontolint verify ../ontouml-models --results-dir out

  # Run only the character and old stereotype checks
  ontolint verify --check char,ster`,
		Args: cobra.MaximumNArgs(1),
		RunE: runVerify,
	}
	return cmd
}

// VerifyJSONOutput is the JSON output structure for a verify run.
type VerifyJSONOutput struct {
	RunID    string              `json:"run_id,omitempty"`
	Catalog  string              `json:"catalog"`
	Checks   []string            `json:"checks"`
	Datasets []DatasetJSONOutput `json:"datasets"`
	Totals   map[string]int      `json:"totals"`
	Files    []string            `json:"files"`
	Duration float64             `json:"duration_seconds"`
}

// DatasetJSONOutput is the problem count of one dataset.
type DatasetJSONOutput struct {
	Name     string         `json:"name"`
	Problems map[string]int `json:"problems"`
	Total    int            `json:"total"`
}

func runVerify(cmd *cobra.Command, args []string) error {
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

	checks, err := cfg.CheckIDs()
	if err != nil {
		return err
	}

	ledger, cleanup, err := cmdCtx.OpenLedger()
	if err != nil {
		return err
	}
	defer cleanup()

	vcfg := catalog.Config{
		CatalogPath:  cfg.CatalogPath,
		ModelsDir:    cfg.ModelsDir,
		OntologyFile: cfg.OntologyFile,
		Checks:       checks,
		Reports:      report.NewWriter(cfg.ResultsDir, cmdCtx.Logger),
		Logger:       cmdCtx.Logger,
	}
	if ledger != nil {
		vcfg.Ledger = ledger
	}
	var collector *metrics.Collector
	if cfg.MetricsFile != "" {
		collector = metrics.NewCollector()
		vcfg.Metrics = collector
	}

	verifier, err := catalog.NewVerifier(vcfg)
	if err != nil {
		return err
	}

	summary, err := verifier.Run(cmd.Context())
	if err != nil {
		return err
	}

	if collector != nil {
		if err := collector.WriteFile(cfg.MetricsFile); err != nil {
			return err
		}
		cmdCtx.Logger.Debug("metrics written", "path", cfg.MetricsFile)
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(verifyJSON(cfg.CatalogPath, summary))
	case output.ModeMarkdown:
		renderVerifyMarkdown(r, summary)
	default:
		renderVerifyText(r, summary)
	}
	return nil
}

func verifyJSON(catalogPath string, s *catalog.Summary) VerifyJSONOutput {
	out := VerifyJSONOutput{
		RunID:    s.RunID,
		Catalog:  catalogPath,
		Checks:   checkCodes(s.Checks),
		Datasets: make([]DatasetJSONOutput, 0, len(s.Datasets)),
		Totals:   make(map[string]int, len(s.Checks)),
		Files:    s.Files,
		Duration: s.Duration.Seconds(),
	}
	for id, n := range s.Problems() {
		out.Totals[id.String()] = n
	}
	for _, d := range s.Datasets {
		ds := DatasetJSONOutput{Name: d.Name, Problems: make(map[string]int, len(d.Problems)), Total: d.Total()}
		for id, n := range d.Problems {
			ds.Problems[id.String()] = n
		}
		out.Datasets = append(out.Datasets, ds)
	}
	return out
}

// summaryTable lays out one row per dataset with a column per check.
func summaryTable(s *catalog.Summary) ([]string, [][]string) {
	headers := append([]string{"dataset"}, checkCodes(s.Checks)...)
	headers = append(headers, "total")

	rows := make([][]string, 0, len(s.Datasets))
	for _, d := range s.Datasets {
		row := []string{d.Name}
		for _, id := range s.Checks {
			row = append(row, strconv.Itoa(d.Problems[id]))
		}
		rows = append(rows, append(row, strconv.Itoa(d.Total())))
	}
	return headers, rows
}

func renderVerifyText(r *output.Renderer, s *catalog.Summary) {
	styles := r.Styles()
	totals := s.Problems()

	r.Println("")
	r.Header(1, fmt.Sprintf("Verified %d datasets", len(s.Datasets)))
	if len(s.Datasets) > 0 {
		headers, rows := summaryTable(s)
		r.Table(headers, rows)
		r.Println("")
	}

	for _, id := range s.Checks {
		line := fmt.Sprintf("  %-6s %d", id, totals[id])
		if totals[id] > 0 {
			r.Println(styles.Warning.Render(line))
		} else {
			r.Println(styles.Muted.Render(line))
		}
	}
	r.Println("")
	for _, f := range s.Files {
		r.StatusLine(f, "success", "")
	}
	if s.RunID != "" {
		r.Muted("Run " + s.RunID)
	}
	r.Success(fmt.Sprintf("Completed in %s", s.Duration.Round(time.Millisecond)))
}

func renderVerifyMarkdown(r *output.Renderer, s *catalog.Summary) {
	totals := s.Problems()

	r.Println(output.FormatHeader(1, "Verification Results"))
	r.Println("")
	r.Println(output.FormatKeyValue("Datasets", strconv.Itoa(len(s.Datasets))))
	for _, id := range s.Checks {
		r.Println(output.FormatKeyValue("Problems ("+id.String()+")", strconv.Itoa(totals[id])))
	}
	if s.RunID != "" {
		r.Println(output.FormatKeyValue("Run", s.RunID))
	}
	r.Println("")

	if len(s.Datasets) > 0 {
		r.Println(output.FormatHeader(2, "Datasets"))
		r.Println("")
		headers, rows := summaryTable(s)
		r.Table(headers, rows)
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Reports"))
	r.Println("")
	for _, f := range s.Files {
		r.Println("- " + f)
	}
}

func checkCodes(ids []quality.CheckID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
