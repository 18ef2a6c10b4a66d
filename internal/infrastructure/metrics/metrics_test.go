package metrics

import (
	"expvar"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := runsTotal.Value()
	IncRuns()
	IncRuns()
	assert.Equal(t, before+2, runsTotal.Value())

	beforeSkipped := nodesSkipped.Value()
	AddSkipped(3)
	assert.Equal(t, beforeSkipped+3, nodesSkipped.Value())
}

func TestNodeCountersByKind(t *testing.T) {
	NodeExecuted("transform")
	NodeExecuted("transform")
	NodeFailed("transform")

	execs, ok := nodeExecutions.Get("transform").(*expvar.Int)
	require.True(t, ok)
	assert.GreaterOrEqual(t, execs.Value(), int64(2))

	fails, ok := nodeFailures.Get("transform").(*expvar.Int)
	require.True(t, ok)
	assert.GreaterOrEqual(t, fails.Value(), int64(1))
}

func TestPublishedUnderStableNames(t *testing.T) {
	for _, name := range []string{
		"flowcanvas_runs_total",
		"flowcanvas_runs_partial_total",
		"flowcanvas_runs_failed_total",
		"flowcanvas_nodes_skipped_total",
		"flowcanvas_codegen_total",
		"flowcanvas_node_executions_total",
		"flowcanvas_node_failures_total",
	} {
		assert.NotNil(t, expvar.Get(name), name)
	}
}
