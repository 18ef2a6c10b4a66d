package graph

import (
	"fmt"
	"sort"
)

// IssueCode classifies a structural violation found by Validate.
type IssueCode string

const (
	IssueDanglingEdge  IssueCode = "dangling_edge"
	IssueUnknownPort   IssueCode = "unknown_port"
	IssueTypeMismatch  IssueCode = "port_type_mismatch"
	IssuePortFanIn     IssueCode = "port_fan_in"
	IssueCycle         IssueCode = "cycle"
	IssueCorruptNode   IssueCode = "corrupt_node"
	IssueIDMismatch    IssueCode = "id_mismatch"
)

// Issue is a single invariant violation. Validate aggregates all of them
// instead of stopping at the first.
type Issue struct {
	Code    IssueCode `json:"code"`
	NodeID  string    `json:"node_id,omitempty"`
	EdgeID  string    `json:"edge_id,omitempty"`
	Message string    `json:"message"`
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s", i.Code, i.Message)
}

// Validate performs a non-destructive structural check and returns the
// full violation set. An empty result means the graph is executable.
// Traversal is sorted so the issue order is deterministic.
func (g *Graph) Validate() []Issue {
	var issues []Issue

	nodeIDs := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Strings(nodeIDs)
	for _, id := range nodeIDs {
		n := g.Nodes[id]
		if n == nil {
			issues = append(issues, Issue{Code: IssueCorruptNode, NodeID: id, Message: fmt.Sprintf("node %q is nil", id)})
			continue
		}
		if n.ID != id {
			issues = append(issues, Issue{Code: IssueIDMismatch, NodeID: id, Message: fmt.Sprintf("node keyed %q carries id %q", id, n.ID)})
		}
		if n.Kind == "" {
			issues = append(issues, Issue{Code: IssueCorruptNode, NodeID: id, Message: fmt.Sprintf("node %q has no kind", id)})
		}
	}

	edgeIDs := make([]string, 0, len(g.Edges))
	for id := range g.Edges {
		edgeIDs = append(edgeIDs, id)
	}
	sort.Strings(edgeIDs)

	// Input fan-in: at most one incoming edge per (target, port).
	inUse := make(map[string]string, len(g.Edges))

	for _, id := range edgeIDs {
		e := g.Edges[id]
		if e == nil {
			issues = append(issues, Issue{Code: IssueDanglingEdge, EdgeID: id, Message: fmt.Sprintf("edge %q is nil", id)})
			continue
		}
		src, srcOK := g.Nodes[e.Source]
		if !srcOK {
			issues = append(issues, Issue{Code: IssueDanglingEdge, EdgeID: id, Message: fmt.Sprintf("edge %q references unknown source node %q", id, e.Source)})
		}
		dst, dstOK := g.Nodes[e.Target]
		if !dstOK {
			issues = append(issues, Issue{Code: IssueDanglingEdge, EdgeID: id, Message: fmt.Sprintf("edge %q references unknown target node %q", id, e.Target)})
		}
		if !srcOK || !dstOK || src == nil || dst == nil {
			continue
		}
		out, ok := src.OutputPort(e.SourcePort)
		if !ok {
			issues = append(issues, Issue{Code: IssueUnknownPort, EdgeID: id, NodeID: e.Source, Message: fmt.Sprintf("node %q has no output port %q", e.Source, e.SourcePort)})
		}
		in, inOK := dst.InputPort(e.TargetPort)
		if !inOK {
			issues = append(issues, Issue{Code: IssueUnknownPort, EdgeID: id, NodeID: e.Target, Message: fmt.Sprintf("node %q has no input port %q", e.Target, e.TargetPort)})
		}
		if ok && inOK && out.DataType != in.DataType {
			issues = append(issues, Issue{Code: IssueTypeMismatch, EdgeID: id, Message: fmt.Sprintf("edge %q connects %s output to %s input", id, out.DataType, in.DataType)})
		}
		key := e.Target + "\x00" + e.TargetPort
		if prev, taken := inUse[key]; taken {
			issues = append(issues, Issue{Code: IssuePortFanIn, EdgeID: id, NodeID: e.Target, Message: fmt.Sprintf("input port %q of node %q already fed by edge %q", e.TargetPort, e.Target, prev)})
		} else {
			inUse[key] = id
		}
	}

	if cycle := g.findCycle(); len(cycle) > 0 {
		issues = append(issues, Issue{Code: IssueCycle, Message: fmt.Sprintf("cycle detected: %v", cycle)})
	}
	return issues
}

// findCycle runs a colored DFS and returns one offending path, or nil.
// Neighbors are visited in sorted order for deterministic reporting.
func (g *Graph) findCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	adj := g.adjacency()
	for _, targets := range adj {
		sort.Strings(targets)
	}
	color := make(map[string]int, len(g.Nodes))
	var path []string
	var cycle []string

	var dfs func(string) bool
	dfs = func(u string) bool {
		color[u] = gray
		path = append(path, u)
		for _, v := range adj[u] {
			if color[v] == gray {
				start := 0
				for i, n := range path {
					if n == v {
						start = i
						break
					}
				}
				cycle = append(append([]string(nil), path[start:]...), v)
				return true
			}
			if color[v] == white && dfs(v) {
				return true
			}
		}
		path = path[:len(path)-1]
		color[u] = black
		return false
	}

	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if color[id] == white && dfs(id) {
			return cycle
		}
	}
	return nil
}
