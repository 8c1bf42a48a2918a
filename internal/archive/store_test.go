package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ponder-agent/ponder/internal/config"
	"github.com/ponder-agent/ponder/internal/orchestrator"
	"github.com/ponder-agent/ponder/internal/plan"
	"github.com/ponder-agent/ponder/internal/session"
	"github.com/ponder-agent/ponder/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "ponder.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func newTestResult(status session.Status) *orchestrator.Result {
	return &orchestrator.Result{
		ID:         types.NewID(),
		Input:      "create a file called notes.txt",
		Effort:     config.EffortMedium,
		Actions:    []plan.Action{{ID: types.NewID(), Type: plan.ActionCreateFile}},
		Iterations: 1,
		Duration:   120 * time.Millisecond,
		TokensUsed: 558,
		Confidence: 0.9,
		Status:     status,
		Metadata: orchestrator.Metadata{
			Timestamp: time.Now(),
			Version:   "test",
		},
	}
}

func TestStoreSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved := newTestResult(session.StatusCompleted)
	require.NoError(t, store.Save(ctx, saved))

	got, err := store.Get(ctx, saved.ID)
	require.NoError(t, err)

	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, saved.Input, got.Input)
	assert.Equal(t, saved.Effort, got.Effort)
	assert.Equal(t, saved.Status, got.Status)
	assert.Equal(t, saved.TokensUsed, got.TokensUsed)
	assert.InDelta(t, saved.Confidence, got.Confidence, 1e-9)
	require.Len(t, got.Actions, 1)
	assert.Equal(t, saved.Actions[0].ID, got.Actions[0].ID)
}

func TestStoreGetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), types.NewID())
	require.Error(t, err)
	assert.Equal(t, types.ARCHIVE_NOT_FOUND, types.CodeOf(err))
}

func TestStoreSaveRejectsMissingID(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(context.Background(), &orchestrator.Result{})
	require.Error(t, err)
	assert.Equal(t, types.ARCHIVE_QUERY_FAILED, types.CodeOf(err))
}

func TestStoreList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := newTestResult(session.StatusCompleted)
	first.Metadata.Timestamp = time.Now().Add(-time.Hour)
	second := newTestResult(session.StatusCompletedWithErrors)

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	entries, err := store.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, 120*time.Millisecond, entries[0].Duration)

	filtered, err := store.List(ctx, ListFilter{Status: session.StatusCompletedWithErrors})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, second.ID, filtered[0].ID)

	limited, err := store.List(ctx, ListFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStorePrune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := newTestResult(session.StatusCompleted)
	old.Metadata.Timestamp = time.Now().Add(-48 * time.Hour)
	recent := newTestResult(session.StatusCompleted)

	require.NoError(t, store.Save(ctx, old))
	require.NoError(t, store.Save(ctx, recent))

	removed, err := store.Prune(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = store.Get(ctx, old.ID)
	assert.Equal(t, types.ARCHIVE_NOT_FOUND, types.CodeOf(err))

	_, err = store.Get(ctx, recent.ID)
	assert.NoError(t, err)
}
