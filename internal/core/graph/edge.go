// Package graph provides edge definitions
package graph

// Edge is a directed connection from one node's output port to another
// node's input port. An output port may fan out to many edges; an input
// port accepts at most one incoming edge.
type Edge struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	SourcePort string `json:"source_port"`
	Target     string `json:"target"`
	TargetPort string `json:"target_port"`
}
