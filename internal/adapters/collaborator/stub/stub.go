// Package stub provides deterministic stand-in collaborators for tests,
// the CLI demo, and the debug server workload. No network I/O.
package stub

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/flowcanvas/flowcanvas/internal/app/usecases"
)

// AI echoes the prompt with a fixed prefix, or returns a canned reply.
type AI struct {
	// Reply, when set, is returned verbatim for every invocation.
	Reply string
	// Err, when set, fails every invocation.
	Err error
}

// Invoke returns the canned reply or a deterministic echo of the prompt.
func (a *AI) Invoke(_ context.Context, prompt string, callCtx map[string]any) (string, error) {
	if a.Err != nil {
		return "", a.Err
	}
	if a.Reply != "" {
		return a.Reply, nil
	}
	keys := make([]string, 0, len(callCtx))
	for k := range callCtx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := "ai:" + prompt
	for _, k := range keys {
		out += fmt.Sprintf("|%s=%v", k, callCtx[k])
	}
	return out, nil
}

// HTTP returns a fixed status and body without touching the network.
type HTTP struct {
	Status int
	Body   string
	Err    error
}

// Call records nothing and returns the configured response.
func (h *HTTP) Call(_ context.Context, method, url string, _ []byte) (*usecases.HTTPResponse, error) {
	if h.Err != nil {
		return nil, h.Err
	}
	status := h.Status
	if status == 0 {
		status = 200
	}
	body := h.Body
	if body == "" {
		body = fmt.Sprintf("%s %s", method, url)
	}
	return &usecases.HTTPResponse{StatusCode: status, Body: []byte(body)}, nil
}

// Output collects everything written by output nodes. Thread-safe.
type Output struct {
	mu     sync.Mutex
	values map[string]any
}

// NewOutput creates an empty collector.
func NewOutput() *Output {
	return &Output{values: make(map[string]any)}
}

// Write stores the value under the node id.
func (o *Output) Write(_ context.Context, nodeID string, value any) error {
	o.mu.Lock()
	o.values[nodeID] = value
	o.mu.Unlock()
	return nil
}

// Value returns what a node wrote.
func (o *Output) Value(nodeID string) (any, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.values[nodeID]
	return v, ok
}
