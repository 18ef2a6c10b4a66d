package dto

import (
	"time"

	"github.com/flowcanvas/flowcanvas/internal/core/graph"
	"github.com/flowcanvas/flowcanvas/internal/core/template"
)

// RunStatus is the overall outcome of a run.
type RunStatus string

const (
	// RunStatusRunning is the transient status while nodes execute.
	RunStatusRunning RunStatus = "running"
	// RunStatusSuccess means every node completed.
	RunStatusSuccess RunStatus = "success"
	// RunStatusPartial means at least one node failed and its dependents
	// were skipped, while unrelated branches completed.
	RunStatusPartial RunStatus = "partial"
	// RunStatusFailed is an engine-level failure: invalid graph, lock
	// conflict, or cancellation. Distinct from a partial node-failure run.
	RunStatusFailed RunStatus = "failed"
)

// NodeRecord is the per-node outcome within a run.
type NodeRecord struct {
	NodeID     string        `json:"node_id"`
	Kind       template.Kind `json:"kind"`
	Status     graph.Status  `json:"status"`
	Output     any           `json:"output,omitempty"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`
}

// RunResult records a whole run. Runs are logged whether they succeed,
// complete partially, or fail at the engine level.
type RunResult struct {
	RunID     string        `json:"run_id"`
	GraphID   string        `json:"graph_id"`
	GraphName string        `json:"graph_name,omitempty"`
	Status    RunStatus     `json:"status"`
	Nodes     []NodeRecord  `json:"nodes"`
	Skipped   []string      `json:"skipped,omitempty"`
	Error     string        `json:"error,omitempty"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
}

// Record returns the record for a node id, if present.
func (r *RunResult) Record(nodeID string) (*NodeRecord, bool) {
	for i := range r.Nodes {
		if r.Nodes[i].NodeID == nodeID {
			return &r.Nodes[i], true
		}
	}
	return nil, false
}
