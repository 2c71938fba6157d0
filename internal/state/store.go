// Package state keeps a ledger of verification runs in SQLite.
// It records each run and the number of problems every check found per dataset.
package state

import "time"

// RunStatus is the lifecycle state of a run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// Run is one recorded verification run.
type Run struct {
	ID          string     `json:"id"`
	CatalogPath string     `json:"catalog_path"`
	Checks      []string   `json:"checks"`
	Status      RunStatus  `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Datasets    int        `json:"datasets"`
	Error       string     `json:"error,omitempty"`
	Problems    int        `json:"problems"` // total across all datasets and checks
}

// DatasetResult is the problem count of one check on one dataset.
type DatasetResult struct {
	Dataset  string `json:"dataset"`
	Check    string `json:"check"`
	Problems int    `json:"problems"`
}
