// Package graphrepo provides an in-memory graph repository. Persistence
// beyond the session is an external collaborator; this repository backs
// the facade and the debug server.
package graphrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/flowcanvas/flowcanvas/internal/core/graph"
	"github.com/flowcanvas/flowcanvas/pkg/validation"
)

// InMemoryGraphRepository stores graphs in a map. Thread-safe.
type InMemoryGraphRepository struct {
	mu     sync.RWMutex
	graphs map[string]*graph.Graph
}

// NewInMemoryGraphRepository creates an empty repository.
func NewInMemoryGraphRepository() *InMemoryGraphRepository {
	return &InMemoryGraphRepository{graphs: make(map[string]*graph.Graph)}
}

// Save validates the graph structure and stores it.
func (r *InMemoryGraphRepository) Save(ctx context.Context, g *graph.Graph) error {
	if err := validation.ValidateGraph(g); err != nil {
		return fmt.Errorf("invalid graph: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.graphs[g.ID] = g
	return nil
}

// Get returns a stored graph.
func (r *InMemoryGraphRepository) Get(ctx context.Context, id string) (*graph.Graph, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.graphs[id]
	if !ok {
		return nil, graph.ErrGraphNotFound
	}
	return g, nil
}

// List returns all stored graphs ordered by id.
func (r *InMemoryGraphRepository) List(ctx context.Context) ([]*graph.Graph, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*graph.Graph, 0, len(r.graphs))
	for _, g := range r.graphs {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
