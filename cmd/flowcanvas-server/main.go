// Package main provides a minimal HTTP server exposing debug endpoints
// and a demo workload that exercises the engine to generate metrics.
package main

import (
	"encoding/json"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // register /debug/pprof
	"os"
	"sort"
	"strings"

	"github.com/flowcanvas/flowcanvas/internal/adapters/collaborator/stub"
	"github.com/flowcanvas/flowcanvas/internal/app/usecases"
	"github.com/flowcanvas/flowcanvas/pkg/flowcanvas"
	"github.com/flowcanvas/flowcanvas/pkg/prebuilt"
)

func main() {
	rt := flowcanvas.NewRuntime(usecases.Collaborators{
		AI:     &stub.AI{},
		HTTP:   &stub.HTTP{},
		Output: stub.NewOutput(),
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintln(w, "FlowCanvas server is running. See /healthz, /run/demo, /metrics, /debug/vars, /debug/pprof/")
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "ok")
	})

	// Runs the demo pipeline with stub collaborators and returns the result.
	mux.HandleFunc("/run/demo", func(w http.ResponseWriter, r *http.Request) {
		g, err := prebuilt.NewSummarizePipeline(rt.Registry(), "demo document")
		if err == nil {
			var result *flowcanvas.RunResult
			result, err = rt.Run(r.Context(), g)
			if err == nil {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(result)
				return
			}
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	})

	// Prometheus-compatible metrics endpoint (no external deps)
	mux.HandleFunc("/metrics", promMetricsHandler)
	mux.Handle("/debug/vars", expvar.Handler())
	// pprof registers on the default mux; forward it.
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	addr := ":8080"
	if v := os.Getenv("FLOWCANVAS_ADDR"); v != "" {
		addr = v
	}
	log.Printf("Starting FlowCanvas server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// promMetricsHandler renders expvar-published metrics in Prometheus text
// exposition format. Known FlowCanvas metrics get type/help metadata; maps
// become labeled series.
func promMetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	type meta struct {
		typ, help string
		isMap     bool
		label     string
	}
	metas := map[string]meta{
		"flowcanvas_runs_total":            {typ: "counter", help: "Engine runs started"},
		"flowcanvas_runs_partial_total":    {typ: "counter", help: "Runs with at least one failed node"},
		"flowcanvas_runs_failed_total":     {typ: "counter", help: "Runs failed at the engine level"},
		"flowcanvas_nodes_skipped_total":   {typ: "counter", help: "Nodes skipped downstream of a failure"},
		"flowcanvas_codegen_total":         {typ: "counter", help: "Pipeline code generations"},
		"flowcanvas_node_executions_total": {typ: "counter", help: "Node executions", isMap: true, label: "kind"},
		"flowcanvas_node_failures_total":   {typ: "counter", help: "Node failures", isMap: true, label: "kind"},
	}

	names := make([]string, 0, len(metas))
	expvar.Do(func(kv expvar.KeyValue) {
		if _, known := metas[kv.Key]; known {
			names = append(names, kv.Key)
		}
	})
	sort.Strings(names)

	for _, name := range names {
		m := metas[name]
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", name, m.help, name, m.typ)
		v := expvar.Get(name)
		if !m.isMap {
			fmt.Fprintf(w, "%s %s\n", name, v.String())
			continue
		}
		if mp, ok := v.(*expvar.Map); ok {
			var lines []string
			mp.Do(func(kv expvar.KeyValue) {
				lines = append(lines, fmt.Sprintf("%s{%s=%q} %s", name, m.label, kv.Key, kv.Value.String()))
			})
			sort.Strings(lines)
			fmt.Fprint(w, strings.Join(lines, "\n"))
			if len(lines) > 0 {
				fmt.Fprintln(w)
			}
		}
	}
}
