package graphrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcanvas/flowcanvas/internal/core/graph"
	"github.com/flowcanvas/flowcanvas/internal/core/template"
)

func TestInMemoryGraphRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryGraphRepository()

	g := graph.New("stored")
	tpl, err := template.Builtin().Get(template.KindInput)
	require.NoError(t, err)
	_, err = g.AddNode(tpl, nil)
	require.NoError(t, err)

	t.Run("save and get", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, g))
		got, err := repo.Get(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, g.Name, got.Name)
	})

	t.Run("missing graph", func(t *testing.T) {
		_, err := repo.Get(ctx, "nope")
		assert.ErrorIs(t, err, graph.ErrGraphNotFound)
	})

	t.Run("rejects structurally invalid graphs", func(t *testing.T) {
		broken := graph.New("broken")
		broken.Edges["e1"] = &graph.Edge{ID: "e1", Source: "ghost", SourcePort: "out", Target: "ghost2", TargetPort: "in"}
		assert.Error(t, repo.Save(ctx, broken))
		_, err := repo.Get(ctx, broken.ID)
		assert.ErrorIs(t, err, graph.ErrGraphNotFound)
	})

	t.Run("list ordered by id", func(t *testing.T) {
		second := graph.New("another")
		require.NoError(t, repo.Save(ctx, second))
		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.LessOrEqual(t, all[0].ID, all[1].ID)
	})
}
