// Package graph provides node definitions
package graph

import (
	"time"

	"github.com/flowcanvas/flowcanvas/internal/core/template"
)

// Status represents a node's execution state.
// Transitions: pending -> running -> {completed | failed}.
// Terminal states are completed and failed; there is no retry within a run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Position is an opaque canvas hint for the excluded editor surface.
// The engine never reads it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is an instantiated unit of work in a workflow graph.
// Ports are copied from the template at instantiation and never change.
// The editor mutates Label and Properties; the engine mutates Status only.
type Node struct {
	ID         string            `json:"id"`
	Kind       template.Kind     `json:"kind"`
	Label      string            `json:"label"`
	Properties map[string]string `json:"properties"`
	Status     Status            `json:"status"`
	Inputs     []template.Port   `json:"inputs"`
	Outputs    []template.Port   `json:"outputs"`
	Position   *Position         `json:"position,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// InputPort returns the named input port.
func (n *Node) InputPort(name string) (template.Port, bool) {
	for _, p := range n.Inputs {
		if p.Name == name {
			return p, true
		}
	}
	return template.Port{}, false
}

// OutputPort returns the named output port.
func (n *Node) OutputPort(name string) (template.Port, bool) {
	for _, p := range n.Outputs {
		if p.Name == name {
			return p, true
		}
	}
	return template.Port{}, false
}
