package metrics

import (
	"expvar"
)

// Node metrics (counters) using expvar maps keyed by node kind.
var (
	nodeExecutions = expvar.NewMap("flowcanvas_node_executions_total")
	nodeFailures   = expvar.NewMap("flowcanvas_node_failures_total")
)

// Run / generator metrics.
var (
	runsTotal    = new(expvar.Int)
	runsPartial  = new(expvar.Int)
	runsFailed   = new(expvar.Int)
	nodesSkipped = new(expvar.Int)
	codegenTotal = new(expvar.Int)
)

func init() {
	expvar.Publish("flowcanvas_runs_total", runsTotal)
	expvar.Publish("flowcanvas_runs_partial_total", runsPartial)
	expvar.Publish("flowcanvas_runs_failed_total", runsFailed)
	expvar.Publish("flowcanvas_nodes_skipped_total", nodesSkipped)
	expvar.Publish("flowcanvas_codegen_total", codegenTotal)
}

// Node helpers
func NodeExecuted(kind string) { nodeExecutions.Add(kind, 1) }
func NodeFailed(kind string)   { nodeFailures.Add(kind, 1) }

// Run/generator helpers
func IncRuns()         { runsTotal.Add(1) }
func IncRunsPartial()  { runsPartial.Add(1) }
func IncRunsFailed()   { runsFailed.Add(1) }
func AddSkipped(n int) { nodesSkipped.Add(int64(n)) }
func IncCodegen()      { codegenTotal.Add(1) }
