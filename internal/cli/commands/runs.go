package commands

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/ontolint/internal/cli/output"
	"github.com/leapstack-labs/ontolint/internal/state"
	"github.com/spf13/cobra"
)

// RunsOptions holds options for the runs command.
type RunsOptions struct {
	Limit int
}

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	opts := &RunsOptions{}
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List recorded verification runs",
		Long: `List the verification runs recorded in the state database.

Every verify run is recorded with its status, dataset count and the number of
problems each check found per dataset. Pass a run id to see those counts.`,
		Example: `  # Show the 20 most recent runs
  ontolint runs

  # Show the last 5 runs as JSON
  ontolint runs --limit 5 -o json

  # Show the per-dataset counts of one run
  ontolint runs 3f0c8a3e-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of runs to list")
	return cmd
}

// RunDetailJSONOutput is the JSON output structure for a single run.
type RunDetailJSONOutput struct {
	*state.Run
	Results []state.DatasetResult `json:"results"`
}

func runRuns(cmd *cobra.Command, args []string, opts *RunsOptions) error {
	cmdCtx := NewCommandContext(cmd)
	store, cleanup, err := cmdCtx.OpenLedger()
	if err != nil {
		return err
	}
	defer cleanup()
	if store == nil {
		return errors.New("run ledger is disabled: set state_path or --state")
	}

	ctx := cmd.Context()
	r := cmdCtx.Renderer

	if len(args) > 0 {
		run, err := store.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		results, err := store.GetDatasetResults(ctx, run.ID)
		if err != nil {
			return err
		}
		if r.EffectiveMode() == output.ModeJSON {
			return r.JSON(RunDetailJSONOutput{Run: run, Results: results})
		}
		renderRunDetail(r, run, results)
		return nil
	}

	runs, err := store.ListRuns(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if r.EffectiveMode() == output.ModeJSON {
		if runs == nil {
			runs = []*state.Run{}
		}
		return r.JSON(runs)
	}

	if len(runs) == 0 {
		r.Muted("No runs recorded")
		return nil
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			string(run.Status),
			run.StartedAt.Local().Format(time.DateTime),
			runDuration(run),
			strconv.Itoa(run.Datasets),
			strconv.Itoa(run.Problems),
		})
	}
	r.Table([]string{"id", "status", "started", "duration", "datasets", "problems"}, rows)
	return nil
}

func renderRunDetail(r *output.Renderer, run *state.Run, results []state.DatasetResult) {
	if r.EffectiveMode() == output.ModeText {
		r.Header(1, "Run "+run.ID)
		r.StatusLine(run.CatalogPath, string(run.Status), run.Error)
		r.Println("")
	} else {
		r.Println(output.FormatHeader(1, "Run "+run.ID))
		r.Println("")
		r.Println(output.FormatKeyValue("Catalog", run.CatalogPath))
		r.Println(output.FormatKeyValue("Status", string(run.Status)))
		if run.Error != "" {
			r.Println(output.FormatKeyValue("Error", run.Error))
		}
		r.Println("")
	}

	r.Println(output.FormatKeyValue("Checks", strings.Join(run.Checks, ", ")))
	r.Println(output.FormatKeyValue("Started", run.StartedAt.Local().Format(time.DateTime)))
	r.Println(output.FormatKeyValue("Duration", runDuration(run)))
	r.Println(output.FormatKeyValue("Datasets", strconv.Itoa(run.Datasets)))
	r.Println(output.FormatKeyValue("Problems", strconv.Itoa(run.Problems)))
	r.Println("")

	if len(results) == 0 {
		return
	}
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rows = append(rows, []string{res.Dataset, res.Check, strconv.Itoa(res.Problems)})
	}
	r.Table([]string{"dataset", "check", "problems"}, rows)
}

func runDuration(run *state.Run) string {
	if run.CompletedAt == nil {
		return "-"
	}
	return run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
}
