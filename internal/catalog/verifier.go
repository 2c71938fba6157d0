package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/ontolint/internal/report"
	"github.com/leapstack-labs/ontolint/internal/state"
	"github.com/leapstack-labs/ontolint/pkg/ontology"
	"github.com/leapstack-labs/ontolint/pkg/quality"
)

// Ledger records the progress of a run. Implemented by *state.SQLiteStore.
type Ledger interface {
	StartRun(ctx context.Context, catalogPath string, checks []string) (string, error)
	RecordDataset(ctx context.Context, runID, dataset string, counts []state.DatasetResult) error
	FinishRun(ctx context.Context, runID string, runErr error) error
}

// Recorder observes problem counts. Implemented by *metrics.Collector.
type Recorder interface {
	ObserveProblems(dataset string, check quality.CheckID, n int)
	ObserveRun(datasets int, d time.Duration)
}

// Config configures a Verifier.
type Config struct {
	// CatalogPath is the catalog root
	CatalogPath string
	// ModelsDir is the datasets directory, relative to CatalogPath
	ModelsDir string
	// OntologyFile is the ontology file name inside each dataset
	OntologyFile string
	// Checks to run, in run order. Empty means all checks.
	Checks []quality.CheckID
	// Reports receives the findings (required)
	Reports *report.Writer
	// Ledger records the run (optional)
	Ledger Ledger
	// Metrics observes problem counts (optional)
	Metrics Recorder
	// Logger for run progress (optional)
	Logger *slog.Logger
}

// Verifier runs the data quality checks over every dataset of a catalog.
type Verifier struct {
	cfg    Config
	checks []quality.CheckID
	logger *slog.Logger
}

// DatasetSummary is the number of problems each check found in a dataset.
type DatasetSummary struct {
	Name     string
	Problems map[quality.CheckID]int
}

// Total returns the number of problems across all checks.
func (d DatasetSummary) Total() int {
	n := 0
	for _, c := range d.Problems {
		n += c
	}
	return n
}

// Summary describes a completed run.
type Summary struct {
	RunID    string
	Checks   []quality.CheckID
	Datasets []DatasetSummary
	Files    []string
	Duration time.Duration
}

// Problems returns the total per check across all datasets.
func (s *Summary) Problems() map[quality.CheckID]int {
	totals := make(map[quality.CheckID]int, len(s.Checks))
	for _, d := range s.Datasets {
		for id, n := range d.Problems {
			totals[id] += n
		}
	}
	return totals
}

// NewVerifier validates cfg and creates a Verifier.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.Reports == nil {
		return nil, errors.New("report writer is required")
	}
	if cfg.ModelsDir == "" {
		cfg.ModelsDir = "models"
	}
	if cfg.OntologyFile == "" {
		cfg.OntologyFile = "ontology.ttl"
	}

	checks := quality.AllChecks()
	if len(cfg.Checks) > 0 {
		ids := make([]string, len(cfg.Checks))
		for i, id := range cfg.Checks {
			ids[i] = id.String()
		}
		var err error
		if checks, err = quality.ParseCheckIDs(ids); err != nil {
			return nil, err
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Verifier{cfg: cfg, checks: checks, logger: logger}, nil
}

// Checks returns the checks the Verifier runs, in run order.
func (v *Verifier) Checks() []quality.CheckID {
	return append([]quality.CheckID(nil), v.checks...)
}

// Run evaluates every dataset in name order. Report files are initialized
// before the first dataset. The first load, check or write failure aborts
// the run. Cancellation is honoured between datasets.
func (v *Verifier) Run(ctx context.Context) (summary *Summary, err error) {
	start := time.Now()

	datasets, err := Discover(v.cfg.CatalogPath, v.cfg.ModelsDir)
	if err != nil {
		return nil, err
	}

	summary = &Summary{Checks: v.Checks()}
	if v.cfg.Ledger != nil {
		codes := make([]string, len(v.checks))
		for i, id := range v.checks {
			codes[i] = id.String()
		}
		var runID string
		runID, err = v.cfg.Ledger.StartRun(ctx, v.cfg.CatalogPath, codes)
		if err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
		summary.RunID = runID
		defer func() {
			// record the outcome even when ctx was cancelled
			if ferr := v.cfg.Ledger.FinishRun(context.WithoutCancel(ctx), runID, err); ferr != nil && err == nil {
				err = fmt.Errorf("failed to complete run: %w", ferr)
			}
		}()
	}

	for _, id := range v.checks {
		if err := v.cfg.Reports.Initialize(id); err != nil {
			return nil, err
		}
	}
	summary.Files = v.cfg.Reports.Files()

	for i, ds := range datasets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v.logger.Info(fmt.Sprintf("Evaluating dataset %d/%d: %s", i+1, len(datasets), ds.Name))

		result, err := v.evaluate(ctx, ds)
		if err != nil {
			return nil, err
		}
		summary.Datasets = append(summary.Datasets, result)

		if v.cfg.Ledger != nil {
			if err := v.cfg.Ledger.RecordDataset(ctx, summary.RunID, ds.Name, v.ledgerRows(result)); err != nil {
				return nil, fmt.Errorf("failed to record dataset %s: %w", ds.Name, err)
			}
		}
	}

	summary.Duration = time.Since(start)
	if v.cfg.Metrics != nil {
		v.cfg.Metrics.ObserveRun(len(datasets), summary.Duration)
	}

	v.logger.Info(fmt.Sprintf("Evaluation of problems concluded for all %d datasets. "+
		"The evaluation results are available in the csv files.", len(datasets)),
		"files", summary.Files)
	return summary, nil
}

// evaluate loads one dataset's graph, runs every check and appends the
// findings. The graph is released before returning.
func (v *Verifier) evaluate(ctx context.Context, ds Dataset) (DatasetSummary, error) {
	result := DatasetSummary{Name: ds.Name, Problems: make(map[quality.CheckID]int, len(v.checks))}

	g, err := ontology.Load(ds.OntologyPath(v.cfg.OntologyFile))
	if err != nil {
		return result, err
	}
	defer func() { _ = g.Close() }()
	v.logger.Debug("ontology loaded", "dataset", ds.Name, "triples", g.Len())

	for _, id := range v.checks {
		problems, err := quality.Run(ctx, id, g)
		if err != nil {
			return result, fmt.Errorf("dataset %s: %w", ds.Name, err)
		}
		result.Problems[id] = len(problems)
		if v.cfg.Metrics != nil {
			v.cfg.Metrics.ObserveProblems(ds.Name, id, len(problems))
		}
		if len(problems) == 0 {
			continue
		}

		if err := v.cfg.Reports.Append(ds.Name, id, problems); err != nil {
			return result, err
		}
		v.logger.Warn(fmt.Sprintf("Dataset %s has %d problem_%s case(s).", ds.Name, len(problems), id),
			"dataset", ds.Name, "check", id.String(), "problems", len(problems))
	}
	return result, nil
}

func (v *Verifier) ledgerRows(result DatasetSummary) []state.DatasetResult {
	rows := make([]state.DatasetResult, 0, len(v.checks))
	for _, id := range v.checks {
		rows = append(rows, state.DatasetResult{
			Dataset:  result.Name,
			Check:    id.String(),
			Problems: result.Problems[id],
		})
	}
	return rows
}
