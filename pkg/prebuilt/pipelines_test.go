package prebuilt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcanvas/flowcanvas/internal/core/graph"
	"github.com/flowcanvas/flowcanvas/internal/core/template"
)

func TestPrebuiltPipelines(t *testing.T) {
	reg := template.Builtin()

	tests := []struct {
		name  string
		build func() (*graph.Graph, error)
		nodes int
		edges int
	}{
		{
			name:  "summarize",
			build: func() (*graph.Graph, error) { return NewSummarizePipeline(reg, "some document") },
			nodes: 4,
			edges: 3,
		},
		{
			name:  "fan out",
			build: func() (*graph.Graph, error) { return NewFanOutPipeline(reg) },
			nodes: 4,
			edges: 2,
		},
		{
			name:  "enrichment",
			build: func() (*graph.Graph, error) { return NewEnrichmentPipeline(reg, "https://example.com/data") },
			nodes: 4,
			edges: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := tt.build()
			require.NoError(t, err)
			assert.Len(t, g.Nodes, tt.nodes)
			assert.Len(t, g.Edges, tt.edges)
			assert.Empty(t, g.Validate())
			order, err := g.TopologicalOrder()
			require.NoError(t, err)
			assert.Len(t, order, tt.nodes)
		})
	}
}

func TestNewSummarizePipeline_SeedsDocument(t *testing.T) {
	g, err := NewSummarizePipeline(template.Builtin(), "the document body")
	require.NoError(t, err)

	var seeded bool
	for _, n := range g.Nodes {
		if n.Kind == template.KindInput {
			assert.Equal(t, "the document body", n.Properties["value"])
			seeded = true
		}
	}
	assert.True(t, seeded)
}
