// Package integration exercises the whole stack together: prebuilt
// pipelines, the execution engine, code generation, snapshot persistence,
// and the SQLite run log.
package integration

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcanvas/flowcanvas/internal/adapters/collaborator/stub"
	"github.com/flowcanvas/flowcanvas/internal/adapters/repository/sqlite"
	"github.com/flowcanvas/flowcanvas/internal/app/codegen"
	"github.com/flowcanvas/flowcanvas/internal/app/dto"
	"github.com/flowcanvas/flowcanvas/internal/app/services"
	"github.com/flowcanvas/flowcanvas/internal/app/usecases"
	"github.com/flowcanvas/flowcanvas/internal/core/graph"
	"github.com/flowcanvas/flowcanvas/internal/core/template"
	"github.com/flowcanvas/flowcanvas/pkg/prebuilt"
	"github.com/flowcanvas/flowcanvas/pkg/serialization"
)

func newSQLiteRunStore(t *testing.T) *sqlite.RunStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store := sqlite.NewRunStore(db, serialization.New())
	require.NoError(t, store.CreateTables(context.Background()))
	return store
}

func TestPipeline_EndToEnd(t *testing.T) {
	ctx := context.Background()
	out := stub.NewOutput()
	events := services.NewMemorySink()
	runs := newSQLiteRunStore(t)

	engine := usecases.NewEngine(usecases.Collaborators{
		AI:     &stub.AI{Reply: "summary text"},
		HTTP:   &stub.HTTP{Body: `{"facts": true}`},
		Output: out,
		Events: events,
		Runs:   runs,
	})

	g, err := prebuilt.NewEnrichmentPipeline(template.Builtin(), "https://example.com/data")
	require.NoError(t, err)

	result, err := engine.Run(ctx, g)
	require.NoError(t, err)
	assert.Equal(t, dto.RunStatusSuccess, result.Status)
	require.Len(t, result.Nodes, 4)

	t.Run("every stage produced output", func(t *testing.T) {
		for _, n := range result.Nodes {
			assert.Equal(t, graph.StatusCompleted, n.Status, "node %s", n.NodeID)
		}
	})

	t.Run("run survives the SQLite round trip", func(t *testing.T) {
		stored, err := runs.Get(ctx, result.RunID)
		require.NoError(t, err)
		assert.Equal(t, result.RunID, stored.RunID)
		assert.Equal(t, dto.RunStatusSuccess, stored.Status)
		assert.Len(t, stored.Nodes, 4)

		ids, err := runs.List(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{result.RunID}, ids)
	})

	t.Run("snapshot restore preserves behavior", func(t *testing.T) {
		restored, err := graph.FromSnapshot(g.Snapshot(), template.Builtin())
		require.NoError(t, err)

		again, err := engine.Run(ctx, restored)
		require.NoError(t, err)
		assert.Equal(t, dto.RunStatusSuccess, again.Status)

		origOrder, err := g.TopologicalOrder()
		require.NoError(t, err)
		restoredOrder, err := restored.TopologicalOrder()
		require.NoError(t, err)
		assert.Equal(t, origOrder, restoredOrder)
	})

	t.Run("generated code is stable across snapshot restores", func(t *testing.T) {
		gen := codegen.New()
		code, err := gen.Generate(g)
		require.NoError(t, err)

		restored, err := graph.FromSnapshot(g.Snapshot(), template.Builtin())
		require.NoError(t, err)
		codeAgain, err := gen.Generate(restored)
		require.NoError(t, err)
		assert.Equal(t, code, codeAgain)
	})
}

func TestPipeline_PartialFailureEndToEnd(t *testing.T) {
	ctx := context.Background()
	out := stub.NewOutput()
	runs := newSQLiteRunStore(t)

	// The HTTP collaborator answers with a server error, failing the
	// api_call stage and blocking everything downstream of it.
	engine := usecases.NewEngine(usecases.Collaborators{
		AI:     &stub.AI{},
		HTTP:   &stub.HTTP{Status: 502, Body: "bad gateway"},
		Output: out,
		Runs:   runs,
	})

	g, err := prebuilt.NewEnrichmentPipeline(template.Builtin(), "https://example.com/data")
	require.NoError(t, err)

	result, err := engine.Run(ctx, g)
	require.NoError(t, err)
	assert.Equal(t, dto.RunStatusPartial, result.Status)
	assert.Len(t, result.Skipped, 2) // ai_process and output downstream of the failed call

	t.Run("downstream nodes stay pending", func(t *testing.T) {
		for _, id := range result.Skipped {
			assert.Equal(t, graph.StatusPending, g.Nodes[id].Status)
		}
		for _, n := range g.Nodes {
			if n.Kind == template.KindOutput {
				_, wrote := out.Value(n.ID)
				assert.False(t, wrote)
			}
		}
	})

	t.Run("partial run is logged", func(t *testing.T) {
		stored, err := runs.Get(ctx, result.RunID)
		require.NoError(t, err)
		assert.Equal(t, dto.RunStatusPartial, stored.Status)
		assert.Equal(t, result.Skipped, stored.Skipped)
	})
}

func TestPipeline_FailureLocalization(t *testing.T) {
	// In the fan-out shape a failing chain must not touch the detached
	// branch.
	out := stub.NewOutput()
	engine := usecases.NewEngine(usecases.Collaborators{
		AI:     &stub.AI{},
		HTTP:   &stub.HTTP{},
		Output: out,
	})

	g, err := prebuilt.NewFanOutPipeline(template.Builtin())
	require.NoError(t, err)
	for _, n := range g.Nodes {
		if n.Kind == template.KindTransform {
			n.Properties["operation"] = "explode"
		}
	}

	result, err := engine.Run(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, dto.RunStatusPartial, result.Status)

	var completedInputs int
	for _, n := range result.Nodes {
		if n.Kind == template.KindInput {
			assert.Equal(t, graph.StatusCompleted, n.Status)
			completedInputs++
		}
	}
	assert.Equal(t, 2, completedInputs, "both input branches ran")
	assert.Len(t, result.Skipped, 1, "only the chain's output was blocked")
}
