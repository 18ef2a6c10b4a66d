package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coregraph "github.com/flowcanvas/flowcanvas/internal/core/graph"
	"github.com/flowcanvas/flowcanvas/internal/core/template"
)

func TestValidateGraph(t *testing.T) {
	t.Run("nil graph", func(t *testing.T) {
		assert.Error(t, ValidateGraph(nil))
	})

	t.Run("missing id", func(t *testing.T) {
		g := coregraph.New("anon")
		g.ID = ""
		assert.ErrorIs(t, ValidateGraph(g), coregraph.ErrInvalidGraphID)
	})

	t.Run("executable graph passes", func(t *testing.T) {
		g := coregraph.New("ok")
		tpl, err := template.Builtin().Get(template.KindInput)
		require.NoError(t, err)
		_, err = g.AddNode(tpl, nil)
		require.NoError(t, err)
		assert.NoError(t, ValidateGraph(g))
	})

	t.Run("aggregates issues into GraphError", func(t *testing.T) {
		g := coregraph.New("broken")
		g.Edges["e1"] = &coregraph.Edge{ID: "e1", Source: "ghost", SourcePort: "out", Target: "ghost2", TargetPort: "in"}

		err := ValidateGraph(g)
		require.Error(t, err)
		var gerr *GraphError
		require.ErrorAs(t, err, &gerr)
		assert.NotEmpty(t, gerr.Issues)
		assert.Contains(t, err.Error(), "graph is invalid")
	})
}

func TestValidateStruct_Snapshot(t *testing.T) {
	tests := []struct {
		name    string
		snap    coregraph.Snapshot
		wantErr bool
	}{
		{
			name: "valid",
			snap: coregraph.Snapshot{
				ID: "g1",
				Nodes: []coregraph.NodeSnapshot{
					{ID: "node.1", Kind: template.KindInput},
				},
			},
		},
		{
			name:    "missing graph id",
			snap:    coregraph.Snapshot{},
			wantErr: true,
		},
		{
			name: "node id with illegal characters",
			snap: coregraph.Snapshot{
				ID: "g1",
				Nodes: []coregraph.NodeSnapshot{
					{ID: "bad id!", Kind: template.KindInput},
				},
			},
			wantErr: true,
		},
		{
			name: "node id with leading separator",
			snap: coregraph.Snapshot{
				ID: "g1",
				Nodes: []coregraph.NodeSnapshot{
					{ID: "-leading", Kind: template.KindInput},
				},
			},
			wantErr: true,
		},
		{
			name: "edge missing endpoints",
			snap: coregraph.Snapshot{
				ID:    "g1",
				Edges: []coregraph.EdgeSnapshot{{ID: "e1"}},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.snap)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
