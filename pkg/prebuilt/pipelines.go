package prebuilt

import (
	"fmt"

	"github.com/flowcanvas/flowcanvas/internal/core/graph"
	"github.com/flowcanvas/flowcanvas/internal/core/template"
)

// NewSummarizePipeline builds input -> ai_process -> transform -> output:
// seed a document, summarize it, normalize the casing, and emit it.
func NewSummarizePipeline(reg *template.Registry, document string) (*graph.Graph, error) {
	g := graph.New("summarize-pipeline")

	in, err := addNode(g, reg, template.KindInput, map[string]string{"value": document})
	if err != nil {
		return nil, err
	}
	ai, err := addNode(g, reg, template.KindAIProcess, map[string]string{
		"prompt": "Summarize the following text in two sentences.",
	})
	if err != nil {
		return nil, err
	}
	tr, err := addNode(g, reg, template.KindTransform, map[string]string{"operation": "trim"})
	if err != nil {
		return nil, err
	}
	out, err := addNode(g, reg, template.KindOutput, nil)
	if err != nil {
		return nil, err
	}

	if err := connect(g,
		link{in.ID, "out", ai.ID, "in"},
		link{ai.ID, "out", tr.ID, "in"},
		link{tr.ID, "out", out.ID, "in"},
	); err != nil {
		return nil, err
	}
	return g, nil
}

// NewFanOutPipeline builds a main chain plus an independent input branch,
// the shape used to observe failure localization: a failure in the chain
// never touches the detached branch.
func NewFanOutPipeline(reg *template.Registry) (*graph.Graph, error) {
	g := graph.New("fan-out-pipeline")

	in, err := addNode(g, reg, template.KindInput, map[string]string{"value": "primary"})
	if err != nil {
		return nil, err
	}
	tr, err := addNode(g, reg, template.KindTransform, map[string]string{"operation": "uppercase"})
	if err != nil {
		return nil, err
	}
	out, err := addNode(g, reg, template.KindOutput, nil)
	if err != nil {
		return nil, err
	}
	if _, err := addNode(g, reg, template.KindInput, map[string]string{"value": "detached"}); err != nil {
		return nil, err
	}

	if err := connect(g,
		link{in.ID, "out", tr.ID, "in"},
		link{tr.ID, "out", out.ID, "in"},
	); err != nil {
		return nil, err
	}
	return g, nil
}

// NewEnrichmentPipeline builds input -> api_call -> ai_process -> output:
// fetch an external resource, have the model interpret it, emit the result.
func NewEnrichmentPipeline(reg *template.Registry, url string) (*graph.Graph, error) {
	g := graph.New("enrichment-pipeline")

	in, err := addNode(g, reg, template.KindInput, map[string]string{"value": ""})
	if err != nil {
		return nil, err
	}
	call, err := addNode(g, reg, template.KindAPICall, map[string]string{
		"method": "GET",
		"url":    url,
	})
	if err != nil {
		return nil, err
	}
	ai, err := addNode(g, reg, template.KindAIProcess, map[string]string{
		"prompt": "Extract the key facts from this response.",
	})
	if err != nil {
		return nil, err
	}
	out, err := addNode(g, reg, template.KindOutput, nil)
	if err != nil {
		return nil, err
	}

	if err := connect(g,
		link{in.ID, "out", call.ID, "body"},
		link{call.ID, "response", ai.ID, "in"},
		link{ai.ID, "out", out.ID, "in"},
	); err != nil {
		return nil, err
	}
	return g, nil
}

type link struct {
	source, sourcePort, target, targetPort string
}

func addNode(g *graph.Graph, reg *template.Registry, kind template.Kind, props map[string]string) (*graph.Node, error) {
	tpl, err := reg.Get(kind)
	if err != nil {
		return nil, fmt.Errorf("prebuilt: %w", err)
	}
	return g.AddNode(tpl, props)
}

func connect(g *graph.Graph, links ...link) error {
	for _, l := range links {
		if _, err := g.AddEdge(l.source, l.sourcePort, l.target, l.targetPort); err != nil {
			return fmt.Errorf("prebuilt: connect %s -> %s: %w", l.source, l.target, err)
		}
	}
	return nil
}
