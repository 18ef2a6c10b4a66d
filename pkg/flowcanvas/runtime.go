package flowcanvas

import (
	"context"
	"fmt"

	graphrepo "github.com/flowcanvas/flowcanvas/internal/adapters/repository/graph"
	"github.com/flowcanvas/flowcanvas/internal/adapters/repository/memory"
	"github.com/flowcanvas/flowcanvas/internal/app/codegen"
	"github.com/flowcanvas/flowcanvas/internal/app/dto"
	"github.com/flowcanvas/flowcanvas/internal/app/services"
	"github.com/flowcanvas/flowcanvas/internal/app/usecases"
	coregraph "github.com/flowcanvas/flowcanvas/internal/core/graph"
	"github.com/flowcanvas/flowcanvas/internal/core/template"
	"github.com/flowcanvas/flowcanvas/pkg/validation"
)

// Re-export core types for convenience.
type (
	Graph        = coregraph.Graph
	Node         = coregraph.Node
	Edge         = coregraph.Edge
	Snapshot     = coregraph.Snapshot
	NodeSnapshot = coregraph.NodeSnapshot
	EdgeSnapshot = coregraph.EdgeSnapshot
	Kind         = template.Kind
	NodeTemplate = template.NodeTemplate
	RunResult    = dto.RunResult
	Event        = dto.Event
)

// Collaborators re-exports the engine's dependency bundle.
type Collaborators = usecases.Collaborators

// Runtime is a simple facade wiring the template registry, engine, code
// generator, and in-memory repositories together.
type Runtime struct {
	registry  *template.Registry
	engine    *usecases.Engine
	generator *codegen.Generator
	repo      *graphrepo.InMemoryGraphRepository
	runs      usecases.RunStore
	events    *services.MemorySink
}

// NewRuntime constructs a default runtime with in-memory components. The
// provided collaborators fill the AI/HTTP/output seams; event and run
// sinks are created internally unless supplied.
func NewRuntime(c Collaborators) *Runtime {
	events := services.NewMemorySink()
	if c.Events == nil {
		c.Events = events
	}
	runs := c.Runs
	if runs == nil {
		runs = memory.NewRunStore()
		c.Runs = runs
	}
	return &Runtime{
		registry:  template.Builtin(),
		engine:    usecases.NewEngine(c),
		generator: codegen.New(),
		repo:      graphrepo.NewInMemoryGraphRepository(),
		runs:      runs,
		events:    events,
	}
}

// Registry returns the closed template catalog.
func (rt *Runtime) Registry() *template.Registry {
	return rt.registry
}

// NewGraph creates an empty graph.
func (rt *Runtime) NewGraph(name string) *Graph {
	return coregraph.New(name)
}

// SaveGraph persists a graph to the runtime repository.
func (rt *Runtime) SaveGraph(ctx context.Context, g *Graph) error {
	return rt.repo.Save(ctx, g)
}

// LoadGraph returns a saved graph.
func (rt *Runtime) LoadGraph(ctx context.Context, id string) (*Graph, error) {
	return rt.repo.Get(ctx, id)
}

// Restore rebuilds a graph from its snapshot form. The snapshot struct is
// tag-validated before any node is instantiated, so malformed external
// input is rejected with field-level detail rather than a partial load.
func (rt *Runtime) Restore(s *Snapshot) (*Graph, error) {
	if err := validation.ValidateStruct(s); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return coregraph.FromSnapshot(s, rt.registry)
}

// Run executes a graph.
func (rt *Runtime) Run(ctx context.Context, g *Graph) (*RunResult, error) {
	return rt.engine.Run(ctx, g)
}

// Generate translates a graph into its pipeline script.
func (rt *Runtime) Generate(g *Graph) (string, error) {
	return rt.generator.Generate(g)
}

// RunLog exposes the run history.
func (rt *Runtime) RunLog() *services.RunLogService {
	return services.NewRunLogService(rt.runs)
}

// Events returns the default in-memory event sink. Empty when a custom
// sink was supplied at construction.
func (rt *Runtime) Events() []Event {
	return rt.events.Events()
}
