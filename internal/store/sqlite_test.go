package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celiapp/catalog-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "Products", true)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusLoaded, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "Products", got.SheetID)
	assert.True(t, got.TestMode)
	assert.Nil(t, got.Summary)
	assert.True(t, got.FinishedAt.IsZero())
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "nope")
	assert.Error(t, err)
}

func TestSQLite_UpdateRunStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "Products", true)
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusDeduplicated))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusDeduplicated, got.Status)
}

func TestSQLite_UpdateRunStatus_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateRunStatus(context.Background(), "nope", model.RunStatusLoaded)
	assert.Error(t, err)
}

func TestSQLite_CompleteRun_PersistsSummary(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "Products", false)
	require.NoError(t, err)

	summary := &model.Summary{
		RecordsLoaded: 120,
		MergeGroups:   3,
		RowsMerged:    4,
		AIFilled:      7,
		Cost:          &model.CostEstimate{RecordCount: 7, EstimatedTokens: 1050, EstimatedCost: 0.002},
	}
	require.NoError(t, st.CompleteRun(ctx, run.ID, model.RunStatusCommitted, summary))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusCommitted, got.Status)
	assert.False(t, got.FinishedAt.IsZero())
	require.NotNil(t, got.Summary)
	assert.Equal(t, 120, got.Summary.RecordsLoaded)
	assert.Equal(t, 4, got.Summary.RowsMerged)
	require.NotNil(t, got.Summary.Cost)
	assert.Equal(t, 1050, got.Summary.Cost.EstimatedTokens)
}

func TestSQLite_ListRuns_FilterAndOrder(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a, err := st.CreateRun(ctx, "Products", true)
	require.NoError(t, err)
	b, err := st.CreateRun(ctx, "Inventory", true)
	require.NoError(t, err)
	require.NoError(t, st.CompleteRun(ctx, b.ID, model.RunStatusAborted, &model.Summary{}))

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	aborted, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusAborted})
	require.NoError(t, err)
	require.Len(t, aborted, 1)
	assert.Equal(t, b.ID, aborted[0].ID)

	bySheet, err := st.ListRuns(ctx, RunFilter{SheetID: "Products"})
	require.NoError(t, err)
	require.Len(t, bySheet, 1)
	assert.Equal(t, a.ID, bySheet[0].ID)

	limited, err := st.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
