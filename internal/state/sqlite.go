package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// SQLiteStore records runs in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store. The logger may be nil.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens the database at path, creating parent directories, and applies
// migrations. Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := ":memory:?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create state directory %s: %w", dir, err)
			}
		}
		dsn = "file:" + path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database %s: %w", path, err)
	}
	if err := MigrateWithDB(db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	s.path = path
	s.logger.Debug("state store opened", slog.String("path", path))
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// --- Run operations ---

// StartRun records a new running run and returns its id.
func (s *SQLiteStore) StartRun(ctx context.Context, catalogPath string, checks []string) (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("database not opened")
	}

	id := generateID()
	s.logger.Debug("creating run", slog.String("id", id), slog.String("catalog", catalogPath))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, catalog_path, checks, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, catalogPath, strings.Join(checks, ","), string(RunStatusRunning), formatTime(time.Now()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// RecordDataset stores the problem count of every check for one dataset.
func (s *SQLiteStore) RecordDataset(ctx context.Context, runID, dataset string, counts []DatasetResult) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range counts {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO dataset_results (run_id, dataset, check_id, problems) VALUES (?, ?, ?, ?)`,
			runID, dataset, c.Check, c.Problems,
		)
		if err != nil {
			return fmt.Errorf("failed to record %s results for dataset %s: %w", c.Check, dataset, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `UPDATE runs SET datasets = datasets + 1 WHERE id = ?`, runID); err != nil {
		return fmt.Errorf("failed to update run %s: %w", runID, err)
	}

	return tx.Commit()
}

// FinishRun marks a run as succeeded, or failed when runErr is not nil.
func (s *SQLiteStore) FinishRun(ctx context.Context, runID string, runErr error) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	status := RunStatusSuccess
	var errMsg *string
	if runErr != nil {
		status = RunStatusFailed
		msg := runErr.Error()
		errMsg = &msg
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, completed_at = ?, error = ? WHERE id = ?`,
		string(status), formatTime(time.Now()), errMsg, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx, runSelect+` WHERE r.id = ? GROUP BY r.id`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		runSelect+` GROUP BY r.id ORDER BY r.started_at DESC, r.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetDatasetResults returns the per-dataset counts of a run ordered by
// dataset, then check.
func (s *SQLiteStore) GetDatasetResults(ctx context.Context, runID string) ([]DatasetResult, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT dataset, check_id, problems FROM dataset_results WHERE run_id = ? ORDER BY dataset, check_id`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []DatasetResult
	for rows.Next() {
		var r DatasetResult
		if err := rows.Scan(&r.Dataset, &r.Check, &r.Problems); err != nil {
			return nil, fmt.Errorf("failed to scan dataset result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// --- helpers ---

const runSelect = `SELECT r.id, r.catalog_path, r.checks, r.status, r.started_at, r.completed_at,
       r.datasets, r.error, COALESCE(SUM(d.problems), 0)
  FROM runs r
  LEFT JOIN dataset_results d ON d.run_id = r.id`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	run := &Run{}
	var (
		checks, status, startedAt string
		completedAt, errMsg       sql.NullString
	)
	if err := row.Scan(&run.ID, &run.CatalogPath, &checks, &status, &startedAt, &completedAt,
		&run.Datasets, &errMsg, &run.Problems); err != nil {
		return nil, err
	}

	run.Status = RunStatus(status)
	if checks != "" {
		run.Checks = strings.Split(checks, ",")
	}
	t, err := parseTime(startedAt)
	if err != nil {
		return nil, err
	}
	run.StartedAt = t
	if completedAt.Valid {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return nil, err
		}
		run.CompletedAt = &t
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	return run, nil
}

// timeLayout has fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
