package usecases

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flowcanvas/flowcanvas/internal/app/dto"
	"github.com/flowcanvas/flowcanvas/internal/core/graph"
	"github.com/flowcanvas/flowcanvas/internal/core/template"
	"github.com/flowcanvas/flowcanvas/internal/infrastructure/ctxlog"
	"github.com/flowcanvas/flowcanvas/internal/infrastructure/metrics"
)

// Collaborators are the external dependencies the engine dispatches to.
// AI and HTTP are awaited by their node kinds; Events and Runs observe.
type Collaborators struct {
	AI     AIClient
	HTTP   HTTPClient
	Output OutputSink
	Events EventSink
	Runs   RunStore
}

// Engine drives a validated graph in dependency order, one node at a
// time. Execution is single-threaded and cooperative: each handler is an
// awaited unit of work, and cancellation is honored between nodes.
// PRINCIPLES:
// - SRP: Orchestrates execution; structure belongs to the graph
// - DIP: All I/O goes through the Collaborators interfaces
type Engine struct {
	handlers map[template.Kind]NodeHandler
	events   EventSink
	runs     RunStore
}

// NewEngine builds an engine with the closed per-kind handler table.
func NewEngine(c Collaborators) *Engine {
	return &Engine{
		handlers: buildHandlers(c),
		events:   c.Events,
		runs:     c.Runs,
	}
}

// Run executes the graph and returns the run result. The result is
// non-nil whenever a run was attempted; err is non-nil only for
// engine-level failures (invalid graph, lock conflict, cancellation),
// which are distinct from a partial node-failure outcome.
func (e *Engine) Run(ctx context.Context, g *graph.Graph) (*dto.RunResult, error) {
	if g == nil {
		return nil, dto.ErrNilGraph
	}
	result := &dto.RunResult{
		RunID:     uuid.NewString(),
		GraphID:   g.ID,
		GraphName: g.Name,
		Status:    dto.RunStatusRunning,
		StartTime: time.Now(),
	}

	// The graph is exclusively owned by one run at a time; concurrent
	// runs and mid-run mutation are rejected rather than raced.
	if err := g.BeginRun(); err != nil {
		return e.finish(ctx, result, nil, err)
	}
	defer g.EndRun()

	if issues := g.Validate(); len(issues) > 0 {
		return e.finish(ctx, result, nil, fmt.Errorf("%w: %s", dto.ErrGraphInvalid, joinIssues(issues)))
	}
	order, err := g.TopologicalOrder()
	if err != nil {
		return e.finish(ctx, result, nil, err)
	}

	// A graph may be run again after its lock releases; statuses from the
	// previous run must not leak into this one.
	for _, node := range g.Nodes {
		node.Status = graph.StatusPending
	}

	log := ctxlog.FromContext(ctx)
	log.Info("run started", "run_id", result.RunID, "graph_id", g.ID, "nodes", len(order))

	outputs := make(map[string]any, len(order))
	failed := make(map[string]bool)
	skipped := make(map[string]bool)
	var runErr error

	for i, id := range order {
		// Cooperative cancellation checkpoint. A node already running has
		// finished by the time we get here; the rest stay pending.
		if cerr := ctx.Err(); cerr != nil {
			for _, rest := range order[i:] {
				if !skipped[rest] {
					skipped[rest] = true
				}
			}
			runErr = fmt.Errorf("%w: %s", dto.ErrRunCancelled, cerr)
			break
		}

		node := g.Nodes[id]

		// Failure propagation: every descendant of a failed node was marked
		// skipped when the failure happened; it is never executed and stays
		// pending.
		if skipped[id] {
			continue
		}

		handler, ok := e.handlers[node.Kind]
		if !ok {
			runErr = fmt.Errorf("%w: %s", dto.ErrMissingHandler, node.Kind)
			break
		}

		inputs := make(map[string]any)
		for _, in := range g.Incoming(id) {
			inputs[in.TargetPort] = outputs[in.Source]
		}

		node.Status = graph.StatusRunning
		e.emit(dto.Event{Type: dto.EventNodeStarted, RunID: result.RunID, NodeID: id, Timestamp: time.Now()})
		started := time.Now()

		out, herr := handler.Handle(ctx, node, inputs)

		finished := time.Now()
		record := dto.NodeRecord{
			NodeID:     id,
			Kind:       node.Kind,
			StartedAt:  started,
			FinishedAt: finished,
			Duration:   finished.Sub(started),
		}
		metrics.NodeExecuted(string(node.Kind))
		if herr != nil {
			node.Status = graph.StatusFailed
			failed[id] = true
			record.Status = graph.StatusFailed
			record.Error = herr.Error()
			metrics.NodeFailed(string(node.Kind))
			log.Warn("node failed", "run_id", result.RunID, "node_id", id, "error", herr)
			e.emit(dto.Event{Type: dto.EventNodeFailed, RunID: result.RunID, NodeID: id, Timestamp: finished, Detail: herr.Error()})
			for dep := range g.Descendants(id) {
				skipped[dep] = true
			}
		} else {
			node.Status = graph.StatusCompleted
			outputs[id] = out
			record.Status = graph.StatusCompleted
			record.Output = out
			e.emit(dto.Event{Type: dto.EventNodeCompleted, RunID: result.RunID, NodeID: id, Timestamp: finished})
		}
		result.Nodes = append(result.Nodes, record)
	}

	skippedIDs := make([]string, 0, len(skipped))
	for id := range skipped {
		skippedIDs = append(skippedIDs, id)
	}
	sort.Strings(skippedIDs)

	if runErr != nil {
		return e.finish(ctx, result, skippedIDs, runErr)
	}
	if len(failed) > 0 {
		result.Status = dto.RunStatusPartial
	} else {
		result.Status = dto.RunStatusSuccess
	}
	return e.finish(ctx, result, skippedIDs, nil)
}

// finish stamps the result, emits RunFinished, logs the run, and bumps
// metrics. Engine-level errors mark the run failed.
func (e *Engine) finish(ctx context.Context, result *dto.RunResult, skipped []string, err error) (*dto.RunResult, error) {
	result.Skipped = skipped
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	if err != nil {
		result.Status = dto.RunStatusFailed
		result.Error = err.Error()
	}

	switch result.Status {
	case dto.RunStatusPartial:
		metrics.IncRunsPartial()
	case dto.RunStatusFailed:
		metrics.IncRunsFailed()
	}
	metrics.IncRuns()
	metrics.AddSkipped(len(skipped))

	e.emit(dto.Event{
		Type:      dto.EventRunFinished,
		RunID:     result.RunID,
		Timestamp: result.EndTime,
		Detail:    string(result.Status),
	})

	// The run is logged whatever its outcome, including after
	// cancellation, so the save context outlives the run context. A store
	// failure must not change the run result.
	if e.runs != nil {
		if serr := e.runs.Save(context.WithoutCancel(ctx), result); serr != nil {
			ctxlog.FromContext(ctx).Warn("run log save failed", "run_id", result.RunID, "error", serr)
		}
	}
	ctxlog.FromContext(ctx).Info("run finished",
		"run_id", result.RunID, "status", result.Status, "duration", result.Duration)
	return result, err
}

func (e *Engine) emit(event dto.Event) {
	if e.events != nil {
		e.events.Publish(event)
	}
}

func joinIssues(issues []graph.Issue) string {
	msgs := make([]string, 0, len(issues))
	for _, i := range issues {
		msgs = append(msgs, i.Error())
	}
	return strings.Join(msgs, "; ")
}
