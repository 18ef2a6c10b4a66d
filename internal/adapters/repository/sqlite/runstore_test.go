package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcanvas/flowcanvas/internal/app/dto"
	"github.com/flowcanvas/flowcanvas/internal/core/graph"
	"github.com/flowcanvas/flowcanvas/internal/core/template"
	"github.com/flowcanvas/flowcanvas/pkg/serialization"
)

func newTestStore(t *testing.T) *RunStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := NewRunStore(db, serialization.New())
	require.NoError(t, store.CreateTables(context.Background()))
	return store
}

func sampleRun(runID, graphID string, start time.Time) *dto.RunResult {
	return &dto.RunResult{
		RunID:     runID,
		GraphID:   graphID,
		Status:    dto.RunStatusPartial,
		Nodes: []dto.NodeRecord{
			{NodeID: "a", Kind: template.KindInput, Status: graph.StatusCompleted, Output: "seed"},
			{NodeID: "b", Kind: template.KindTransform, Status: graph.StatusFailed, Error: "unknown operation"},
		},
		Skipped:   []string{"c"},
		StartTime: start,
		EndTime:   start.Add(2 * time.Second),
		Duration:  2 * time.Second,
	}
}

func TestRunStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, sampleRun("r1", "g1", base)))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "g1", got.GraphID)
	assert.Equal(t, dto.RunStatusPartial, got.Status)
	require.Len(t, got.Nodes, 2)
	assert.Equal(t, "unknown operation", got.Nodes[1].Error)
	assert.Equal(t, []string{"c"}, got.Skipped)

	t.Run("missing run", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, dto.ErrRunNotFound)
	})

	t.Run("save replaces", func(t *testing.T) {
		updated := sampleRun("r1", "g1", base)
		updated.Status = dto.RunStatusSuccess
		require.NoError(t, store.Save(ctx, updated))
		got, err := store.Get(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, dto.RunStatusSuccess, got.Status)
	})

	t.Run("rejects empty run id", func(t *testing.T) {
		assert.ErrorIs(t, store.Save(ctx, nil), dto.ErrRunNotFound)
		assert.ErrorIs(t, store.Save(ctx, &dto.RunResult{}), dto.ErrRunNotFound)
	})
}

func TestRunStore_List(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, sampleRun("r2", "g1", base.Add(time.Minute))))
	require.NoError(t, store.Save(ctx, sampleRun("r1", "g1", base)))
	require.NoError(t, store.Save(ctx, sampleRun("other", "g2", base)))

	ids, err := store.List(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, ids)

	ids, err = store.List(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRunStore_PruneBefore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, sampleRun("old", "g1", base.Add(-time.Hour))))
	require.NoError(t, store.Save(ctx, sampleRun("new", "g1", base)))

	pruned, err := store.PruneBefore(ctx, base.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	_, err = store.Get(ctx, "old")
	assert.ErrorIs(t, err, dto.ErrRunNotFound)
	_, err = store.Get(ctx, "new")
	assert.NoError(t, err)
}

func TestRunStore_WithTableName(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := NewRunStore(db, serialization.New()).WithTableName("run_history")
	require.NoError(t, store.CreateTables(context.Background()))
	require.NoError(t, store.Save(context.Background(), sampleRun("r1", "g1", time.Now())))

	t.Run("unsafe identifier is ignored", func(t *testing.T) {
		assert.Equal(t, "run_history", store.WithTableName("runs; DROP TABLE runs").tableName)
	})
}
