package usecases

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/flowcanvas/flowcanvas/internal/app/dto"
	"github.com/flowcanvas/flowcanvas/internal/core/graph"
	"github.com/flowcanvas/flowcanvas/internal/core/template"
)

// NodeHandler executes one node kind. Inputs are keyed by the node's input
// port names; the returned value feeds every edge leaving the node.
type NodeHandler interface {
	Handle(ctx context.Context, node *graph.Node, inputs map[string]any) (any, error)
}

// buildHandlers wires the closed tagged-variant dispatch: one handler per
// builtin kind, resolved at engine construction. Unknown kinds cannot
// reach execution because instantiation already rejects them.
func buildHandlers(c Collaborators) map[template.Kind]NodeHandler {
	return map[template.Kind]NodeHandler{
		template.KindInput:     &inputHandler{},
		template.KindAIProcess: &aiProcessHandler{ai: c.AI},
		template.KindTransform: &transformHandler{},
		template.KindAPICall:   &apiCallHandler{http: c.HTTP},
		template.KindOutput:    &outputHandler{sink: c.Output},
	}
}

// inputHandler produces the seed value declared on the node.
type inputHandler struct{}

func (h *inputHandler) Handle(_ context.Context, node *graph.Node, _ map[string]any) (any, error) {
	return node.Properties["value"], nil
}

// aiProcessHandler forwards the node's prompt plus upstream outputs to the
// AI collaborator and awaits its result.
type aiProcessHandler struct {
	ai AIClient
}

func (h *aiProcessHandler) Handle(ctx context.Context, node *graph.Node, inputs map[string]any) (any, error) {
	if h.ai == nil {
		return nil, fmt.Errorf("%w: ai_process node %s", dto.ErrNilCollaborator, node.ID)
	}
	callCtx := make(map[string]any, len(inputs)+1)
	for port, v := range inputs {
		callCtx[port] = v
	}
	if model := node.Properties["model"]; model != "" {
		callCtx["model"] = model
	}
	return h.ai.Invoke(ctx, node.Properties["prompt"], callCtx)
}

// transformHandler applies the operation declared on the node to the
// upstream data. The operation set is closed; an undeclared operation is a
// runtime node failure, exercising the partial-failure path.
type transformHandler struct{}

func (h *transformHandler) Handle(_ context.Context, node *graph.Node, inputs map[string]any) (any, error) {
	in := coerceString(firstInput(inputs))
	switch op := node.Properties["operation"]; op {
	case "", "passthrough":
		return in, nil
	case "uppercase":
		return strings.ToUpper(in), nil
	case "lowercase":
		return strings.ToLower(in), nil
	case "trim":
		return strings.TrimSpace(in), nil
	case "reverse":
		runes := []rune(in)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes), nil
	default:
		return nil, fmt.Errorf("transform node %s: unknown operation %q", node.ID, op)
	}
}

// apiCallHandler issues the external HTTP call declared on the node. The
// request body is the upstream input when connected, else the body
// property.
type apiCallHandler struct {
	http HTTPClient
}

func (h *apiCallHandler) Handle(ctx context.Context, node *graph.Node, inputs map[string]any) (any, error) {
	if h.http == nil {
		return nil, fmt.Errorf("%w: api_call node %s", dto.ErrNilCollaborator, node.ID)
	}
	method := node.Properties["method"]
	if method == "" {
		method = "GET"
	}
	url := node.Properties["url"]
	if url == "" {
		return nil, fmt.Errorf("api_call node %s: url property is empty", node.ID)
	}
	body := coerceString(firstInput(inputs))
	if body == "" {
		body = node.Properties["body"]
	}
	resp, err := h.http.Call(ctx, method, url, []byte(body))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("api_call node %s: status %d", node.ID, resp.StatusCode)
	}
	return string(resp.Body), nil
}

// outputHandler hands the final value to the external sink.
type outputHandler struct {
	sink OutputSink
}

func (h *outputHandler) Handle(ctx context.Context, node *graph.Node, inputs map[string]any) (any, error) {
	value := firstInput(inputs)
	if h.sink != nil {
		if err := h.sink.Write(ctx, node.ID, value); err != nil {
			return nil, err
		}
	}
	return value, nil
}

// firstInput returns the value of the lowest-named input port. Builtin
// templates declare a single input port, so this is the upstream value.
func firstInput(inputs map[string]any) any {
	if len(inputs) == 0 {
		return nil
	}
	ports := make([]string, 0, len(inputs))
	for p := range inputs {
		ports = append(ports, p)
	}
	sort.Strings(ports)
	return inputs[ports[0]]
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
