// Package graph provides the core workflow graph entity: typed nodes and
// edges instantiated from templates, with invariants enforced on every
// mutation.
package graph

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flowcanvas/flowcanvas/internal/core/template"
)

// Graph owns its nodes and edges exclusively; they do not outlive it.
// Mutations are rejected while a run holds the graph (ErrGraphLocked).
// PRINCIPLES:
// - SRP: Responsible for structure and its invariants, not execution
// - KISS: Plain maps, no adjacency caches to keep in sync
type Graph struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Nodes     map[string]*Node `json:"nodes"`
	Edges     map[string]*Edge `json:"edges"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	mu      sync.Mutex
	running bool
}

// New creates an empty graph.
func New(name string) *Graph {
	now := time.Now()
	return &Graph{
		ID:        uuid.NewString(),
		Name:      name,
		Nodes:     make(map[string]*Node),
		Edges:     make(map[string]*Edge),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BeginRun marks the graph as exclusively owned by a run.
// A second run, or any mutation, fails with ErrGraphLocked until EndRun.
func (g *Graph) BeginRun() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return ErrGraphLocked
	}
	g.running = true
	return nil
}

// EndRun releases the run lock.
func (g *Graph) EndRun() {
	g.mu.Lock()
	g.running = false
	g.mu.Unlock()
}

func (g *Graph) locked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

// AddNode instantiates a node from a template. Default properties are
// copied first, then overridden by the supplied properties. Ports are
// copied from the template and immutable afterwards.
func (g *Graph) AddNode(tpl *template.NodeTemplate, properties map[string]string) (*Node, error) {
	if tpl == nil {
		return nil, ErrNilTemplate
	}
	if g.locked() {
		return nil, ErrGraphLocked
	}
	props := make(map[string]string, len(tpl.DefaultProperties)+len(properties))
	for k, v := range tpl.DefaultProperties {
		props[k] = v
	}
	for k, v := range properties {
		props[k] = v
	}
	now := time.Now()
	node := &Node{
		ID:         newNodeID(tpl.Kind),
		Kind:       tpl.Kind,
		Label:      tpl.Label,
		Properties: props,
		Status:     StatusPending,
		Inputs:     append([]template.Port(nil), tpl.InputPorts...),
		Outputs:    append([]template.Port(nil), tpl.OutputPorts...),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	g.Nodes[node.ID] = node
	g.UpdatedAt = now
	return node, nil
}

// restoreNode inserts a fully formed node, used by snapshot loading.
func (g *Graph) restoreNode(node *Node) error {
	if _, exists := g.Nodes[node.ID]; exists {
		return ErrDuplicateNode
	}
	g.Nodes[node.ID] = node
	g.UpdatedAt = time.Now()
	return nil
}

// AddEdge connects an output port to an input port. The mutation is
// rejected, leaving the graph unchanged, when an endpoint or port is
// missing, the data types differ, the input port is taken, or the edge
// would close a directed cycle.
func (g *Graph) AddEdge(sourceID, sourcePort, targetID, targetPort string) (*Edge, error) {
	if g.locked() {
		return nil, ErrGraphLocked
	}
	src, ok := g.Nodes[sourceID]
	if !ok {
		return nil, ErrSourceNodeNotFound
	}
	dst, ok := g.Nodes[targetID]
	if !ok {
		return nil, ErrTargetNodeNotFound
	}
	out, ok := src.OutputPort(sourcePort)
	if !ok {
		return nil, ErrUnknownSourcePort
	}
	in, ok := dst.InputPort(targetPort)
	if !ok {
		return nil, ErrUnknownTargetPort
	}
	if out.DataType != in.DataType {
		return nil, fmt.Errorf("%w: %s -> %s", ErrPortTypeMismatch, out.DataType, in.DataType)
	}
	for _, e := range g.Edges {
		if e.Target == targetID && e.TargetPort == targetPort {
			return nil, ErrPortAlreadyConnected
		}
	}
	// Incremental acyclicity check: the new edge source -> target closes a
	// cycle exactly when source is already reachable from target.
	if sourceID == targetID || g.reachable(targetID, sourceID) {
		return nil, ErrCycleDetected
	}
	edge := &Edge{
		ID:         uuid.NewString(),
		Source:     sourceID,
		SourcePort: sourcePort,
		Target:     targetID,
		TargetPort: targetPort,
	}
	g.Edges[edge.ID] = edge
	g.UpdatedAt = time.Now()
	return edge, nil
}

// RemoveNode removes a node and cascades removal of every edge touching
// it. The cascade is atomic: nothing is removed unless the node exists.
func (g *Graph) RemoveNode(id string) error {
	if g.locked() {
		return ErrGraphLocked
	}
	if _, ok := g.Nodes[id]; !ok {
		return ErrNodeNotFound
	}
	for eid, e := range g.Edges {
		if e.Source == id || e.Target == id {
			delete(g.Edges, eid)
		}
	}
	delete(g.Nodes, id)
	g.UpdatedAt = time.Now()
	return nil
}

// RemoveEdge removes a single edge.
func (g *Graph) RemoveEdge(id string) error {
	if g.locked() {
		return ErrGraphLocked
	}
	if _, ok := g.Edges[id]; !ok {
		return ErrEdgeNotFound
	}
	delete(g.Edges, id)
	g.UpdatedAt = time.Now()
	return nil
}

// Incoming returns the edges entering a node, ordered by target port name.
func (g *Graph) Incoming(nodeID string) []*Edge {
	var edges []*Edge
	for _, e := range g.Edges {
		if e.Target == nodeID {
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].TargetPort < edges[j].TargetPort })
	return edges
}

// Outgoing returns the edges leaving a node, ordered by target node id.
func (g *Graph) Outgoing(nodeID string) []*Edge {
	var edges []*Edge
	for _, e := range g.Edges {
		if e.Source == nodeID {
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Target < edges[j].Target })
	return edges
}

// Descendants returns every node with a directed path from the given
// node, excluding the node itself.
func (g *Graph) Descendants(nodeID string) map[string]bool {
	seen := make(map[string]bool)
	stack := []string{nodeID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range g.Outgoing(id) {
			if seen[e.Target] {
				continue
			}
			seen[e.Target] = true
			stack = append(stack, e.Target)
		}
	}
	return seen
}

// TopologicalOrder computes the execution order with Kahn's algorithm.
// Each round selects the whole set of nodes whose dependencies are
// satisfied and orders it by ascending node id; nodes released during a
// round join the next one. The result is deterministic, and the code
// generator emits units in this same order.
func (g *Graph) TopologicalOrder() ([]string, error) {
	indeg := make(map[string]int, len(g.Nodes))
	for id := range g.Nodes {
		indeg[id] = 0
	}
	adj := g.adjacency()
	for _, e := range g.Edges {
		indeg[e.Target]++
	}

	var ready []string
	for id, d := range indeg {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.Nodes))
	for len(ready) > 0 {
		var next []string
		for _, id := range ready {
			order = append(order, id)
			for _, succ := range adj[id] {
				indeg[succ]--
				if indeg[succ] == 0 {
					next = append(next, succ)
				}
			}
		}
		sort.Strings(next)
		ready = next
	}
	if len(order) != len(g.Nodes) {
		return nil, ErrCycleDetected
	}
	return order, nil
}

// reachable reports whether to is reachable from from along directed edges.
func (g *Graph) reachable(from, to string) bool {
	if from == to {
		return true
	}
	adj := g.adjacency()
	seen := map[string]bool{from: true}
	stack := append([]string(nil), adj[from]...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == to {
			return true
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		stack = append(stack, adj[id]...)
	}
	return false
}

func (g *Graph) adjacency() map[string][]string {
	adj := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}
	return adj
}

func newNodeID(kind template.Kind) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%s", kind, raw[:8])
}
