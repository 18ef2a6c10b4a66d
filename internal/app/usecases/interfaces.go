package usecases

import (
	"context"

	"github.com/flowcanvas/flowcanvas/internal/app/dto"
	"github.com/flowcanvas/flowcanvas/internal/core/graph"
)

// AIClient is the external AI collaborator awaited by ai_process handlers.
// PRINCIPLES:
// - ISP: One method, nothing about transport or vendors
// - DIP: The engine depends on this abstraction, never on a provider SDK
type AIClient interface {
	Invoke(ctx context.Context, prompt string, context map[string]any) (string, error)
}

// HTTPResponse is the collaborator-neutral result of an outbound call.
type HTTPResponse struct {
	StatusCode int
	Body       []byte
}

// HTTPClient is the external HTTP collaborator awaited by api_call handlers.
type HTTPClient interface {
	Call(ctx context.Context, method, url string, body []byte) (*HTTPResponse, error)
}

// OutputSink receives final data from output nodes.
type OutputSink interface {
	Write(ctx context.Context, nodeID string, value any) error
}

// EventSink observes engine lifecycle events. Sinks never mutate engine
// state; a slow or failing sink must not fail the run.
type EventSink interface {
	Publish(event dto.Event)
}

// RunStore persists run results. Every run is logged, whatever its outcome.
type RunStore interface {
	Save(ctx context.Context, result *dto.RunResult) error
	Get(ctx context.Context, runID string) (*dto.RunResult, error)
	List(ctx context.Context, graphID string) ([]string, error)
}

// GraphRepository defines the interface for graph storage and retrieval.
type GraphRepository interface {
	Save(ctx context.Context, g *graph.Graph) error
	Get(ctx context.Context, id string) (*graph.Graph, error)
	List(ctx context.Context) ([]*graph.Graph, error)
}
