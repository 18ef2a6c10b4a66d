// Package metrics exposes expvar-published counters used by the FlowCanvas
// engine and code generator. It intentionally avoids external dependencies
// and is consumed by the optional flowcanvas-server for /debug/vars and
// /metrics endpoints.
package metrics
