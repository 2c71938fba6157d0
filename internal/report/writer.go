// Package report writes data quality findings to one CSV file per check.
//
// Rows use encoding/csv quoting, so a field with a leading space is quoted:
// A," Person",Class,starts with space. Readers get the unquoted value back.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/ontolint/pkg/quality"
)

// ErrNotInitialized is returned when appending to a report that was not
// initialized in the current run.
var ErrNotInitialized = errors.New("report not initialized")

// Writer owns the CSV report files of a run. It is not safe for concurrent use.
type Writer struct {
	dir         string
	logger      *slog.Logger
	initialized map[quality.CheckID]bool
}

// NewWriter creates a Writer for reports under dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{
		dir:         dir,
		logger:      logger,
		initialized: make(map[quality.CheckID]bool),
	}
}

// FileName returns the base name of the report for id.
func FileName(id quality.CheckID) string {
	return "results_" + id.String() + ".csv"
}

// Path returns the report path for id.
func (w *Writer) Path(id quality.CheckID) string {
	return filepath.Join(w.dir, FileName(id))
}

// Files returns the paths of every report initialized so far, in run order.
func (w *Writer) Files() []string {
	var files []string
	for _, id := range quality.AllChecks() {
		if w.initialized[id] {
			files = append(files, w.Path(id))
		}
	}
	return files
}

// Initialize creates or truncates the report for id and writes its header.
func (w *Writer) Initialize(id quality.CheckID) error {
	header, err := quality.Header(id)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return fmt.Errorf("could not create results directory %s: %w", w.dir, err)
	}

	path := w.Path(id)
	f, err := os.Create(path) //nolint:gosec // path built from configured results dir
	if err != nil {
		return fmt.Errorf("could not create csv output file for %s check %s: %w", id, path, err)
	}
	if err := writeRows(f, [][]string{header}); err != nil {
		return fmt.Errorf("could not write csv output file for %s check %s: %w", id, path, err)
	}

	w.initialized[id] = true
	w.logger.Debug("CSV output file successfully created", "path", path)
	return nil
}

// Append writes one row per problem to the report for id, each prefixed with
// the dataset name. Every problem must belong to check id.
func (w *Writer) Append(dataset string, id quality.CheckID, problems []quality.Problem) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %q", quality.ErrUnknownCheck, id)
	}
	if !w.initialized[id] {
		return fmt.Errorf("%w: %s", ErrNotInitialized, id)
	}

	rows := make([][]string, 0, len(problems))
	for _, p := range problems {
		if p.Check() != id {
			return fmt.Errorf("cannot append %s problem to %s report", p.Check(), id)
		}
		rows = append(rows, append([]string{dataset}, p.Fields()...))
	}

	path := w.Path(id)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0) //nolint:gosec // path built from configured results dir
	if err != nil {
		return fmt.Errorf("could not open csv output file for %s check %s: %w", id, path, err)
	}
	if err := writeRows(f, rows); err != nil {
		return fmt.Errorf("could not write csv output content for %s check %s: %w", id, path, err)
	}

	w.logger.Debug("CSV output file successfully updated",
		"dataset", dataset, "check", id.String(), "entries", len(problems))
	return nil
}

// writeRows writes rows with CRLF terminators and closes f.
func writeRows(f *os.File, rows [][]string) error {
	cw := csv.NewWriter(f)
	cw.UseCRLF = true
	if err := cw.WriteAll(rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
