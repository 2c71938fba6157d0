package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/ontolint/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_OpenCreatesFileAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ontolint", "state.db")
	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(path))
	defer store.Close()

	assert.FileExists(t, path)
	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestSQLiteStore_ClosedStore(t *testing.T) {
	store := NewSQLiteStore(nil)
	ctx := context.Background()

	_, err := store.StartRun(ctx, ".", nil)
	require.Error(t, err)
	_, err = store.ListRuns(ctx, 5)
	require.Error(t, err)
	require.Error(t, store.FinishRun(ctx, "x", nil))
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.StartRun(ctx, "/catalog", []string{"char", "ends"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run, err := store.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Equal(t, "/catalog", run.CatalogPath)
	assert.Equal(t, []string{"char", "ends"}, run.Checks)
	assert.Nil(t, run.CompletedAt)

	require.NoError(t, store.RecordDataset(ctx, id, "a", []DatasetResult{
		{Check: "char", Problems: 2},
		{Check: "ends", Problems: 0},
	}))
	require.NoError(t, store.RecordDataset(ctx, id, "b", []DatasetResult{
		{Check: "char", Problems: 1},
		{Check: "ends", Problems: 3},
	}))
	require.NoError(t, store.FinishRun(ctx, id, nil))

	run, err = store.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, RunStatusSuccess, run.Status)
	assert.Equal(t, 2, run.Datasets)
	assert.Equal(t, 6, run.Problems)
	require.NotNil(t, run.CompletedAt)
	assert.False(t, run.CompletedAt.Before(run.StartedAt))

	results, err := store.GetDatasetResults(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []DatasetResult{
		{Dataset: "a", Check: "char", Problems: 2},
		{Dataset: "a", Check: "ends", Problems: 0},
		{Dataset: "b", Check: "char", Problems: 1},
		{Dataset: "b", Check: "ends", Problems: 3},
	}, results)
}

func TestSQLiteStore_FailedRun(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.StartRun(ctx, ".", []string{"char"})
	require.NoError(t, err)
	require.NoError(t, store.FinishRun(ctx, id, errors.New("could not parse ontology file")))

	run, err := store.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, run.Status)
	assert.Equal(t, "could not parse ontology file", run.Error)
}

func TestSQLiteStore_FinishUnknownRun(t *testing.T) {
	store := setupTestStore(t)
	err := store.FinishRun(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestSQLiteStore_GetRunNotFound(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := store.StartRun(ctx, ".", []string{"char"})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)

	all, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
