package graph

import (
	"sort"
	"time"

	"github.com/flowcanvas/flowcanvas/internal/core/template"
)

// Snapshot is the plain serialized form of a graph handed to and from the
// excluded persistence layer. It references nodes by id only; no object
// pointers, so the serialized form is trivially acyclic.
type Snapshot struct {
	ID    string         `json:"id" validate:"required"`
	Name  string         `json:"name"`
	Nodes []NodeSnapshot `json:"nodes" validate:"dive"`
	Edges []EdgeSnapshot `json:"edges" validate:"dive"`
}

// NodeSnapshot carries a node's identity and configuration. Ports are not
// stored; they are re-derived from the template registry on restore.
type NodeSnapshot struct {
	ID         string            `json:"id" validate:"required,node_id"`
	Kind       template.Kind     `json:"kind" validate:"required"`
	Label      string            `json:"label"`
	Properties map[string]string `json:"properties,omitempty"`
	Position   *Position         `json:"position,omitempty"`
}

// EdgeSnapshot carries an edge's endpoints by id.
type EdgeSnapshot struct {
	ID         string `json:"id" validate:"required"`
	Source     string `json:"source" validate:"required"`
	SourcePort string `json:"source_port" validate:"required"`
	Target     string `json:"target" validate:"required"`
	TargetPort string `json:"target_port" validate:"required"`
}

// Snapshot captures the graph's structure. Node and edge lists are sorted
// by id so the same graph always snapshots identically. Execution status
// is deliberately not captured; a restored graph starts pending.
func (g *Graph) Snapshot() *Snapshot {
	s := &Snapshot{
		ID:    g.ID,
		Name:  g.Name,
		Nodes: make([]NodeSnapshot, 0, len(g.Nodes)),
		Edges: make([]EdgeSnapshot, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		s.Nodes = append(s.Nodes, NodeSnapshot{
			ID:         n.ID,
			Kind:       n.Kind,
			Label:      n.Label,
			Properties: copyProps(n.Properties),
			Position:   n.Position,
		})
	}
	for _, e := range g.Edges {
		s.Edges = append(s.Edges, EdgeSnapshot{
			ID:         e.ID,
			Source:     e.Source,
			SourcePort: e.SourcePort,
			Target:     e.Target,
			TargetPort: e.TargetPort,
		})
	}
	sort.Slice(s.Nodes, func(i, j int) bool { return s.Nodes[i].ID < s.Nodes[j].ID })
	sort.Slice(s.Edges, func(i, j int) bool { return s.Edges[i].ID < s.Edges[j].ID })
	return s
}

// FromSnapshot rebuilds a graph, re-deriving ports from the registry and
// replaying every edge through the normal invariant checks. A snapshot
// that violates any invariant fails to load.
func FromSnapshot(s *Snapshot, reg *template.Registry) (*Graph, error) {
	if s.ID == "" {
		return nil, ErrInvalidGraphID
	}
	now := time.Now()
	g := &Graph{
		ID:        s.ID,
		Name:      s.Name,
		Nodes:     make(map[string]*Node, len(s.Nodes)),
		Edges:     make(map[string]*Edge, len(s.Edges)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, ns := range s.Nodes {
		tpl, err := reg.Get(ns.Kind)
		if err != nil {
			return nil, err
		}
		label := ns.Label
		if label == "" {
			label = tpl.Label
		}
		node := &Node{
			ID:         ns.ID,
			Kind:       ns.Kind,
			Label:      label,
			Properties: copyProps(ns.Properties),
			Status:     StatusPending,
			Inputs:     append([]template.Port(nil), tpl.InputPorts...),
			Outputs:    append([]template.Port(nil), tpl.OutputPorts...),
			Position:   ns.Position,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if node.Properties == nil {
			node.Properties = make(map[string]string)
		}
		if err := g.restoreNode(node); err != nil {
			return nil, err
		}
	}
	for _, es := range s.Edges {
		if _, exists := g.Edges[es.ID]; exists {
			return nil, ErrDuplicateEdge
		}
		edge, err := g.AddEdge(es.Source, es.SourcePort, es.Target, es.TargetPort)
		if err != nil {
			return nil, err
		}
		// Preserve the stored edge id.
		delete(g.Edges, edge.ID)
		edge.ID = es.ID
		g.Edges[edge.ID] = edge
	}
	return g, nil
}

func copyProps(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
