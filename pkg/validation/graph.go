// Package validation provides validation utilities for FlowCanvas: an
// aggregated structural check for graphs arriving from external sources
// and struct-level validation for snapshots and templates.
package validation

import (
	"fmt"
	"strings"

	coregraph "github.com/flowcanvas/flowcanvas/internal/core/graph"
)

// GraphError aggregates every structural issue found in a graph. A run
// never begins on a graph with a non-empty issue set.
type GraphError struct {
	Issues []coregraph.Issue
}

func (e *GraphError) Error() string {
	if len(e.Issues) == 0 {
		return "graph is invalid"
	}
	msgs := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		msgs = append(msgs, i.Error())
	}
	return fmt.Sprintf("graph is invalid: %s", strings.Join(msgs, "; "))
}

// ValidateGraph performs the full structural check on a graph. It is
// intended for graphs loaded from external sources where the in-method
// mutation guards may have been bypassed. Returns nil when executable.
func ValidateGraph(g *coregraph.Graph) error {
	if g == nil {
		return fmt.Errorf("graph is nil")
	}
	if g.ID == "" {
		return coregraph.ErrInvalidGraphID
	}
	if issues := g.Validate(); len(issues) > 0 {
		return &GraphError{Issues: issues}
	}
	return nil
}
