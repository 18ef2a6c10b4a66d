package template

import "sort"

// Registry holds the closed catalog of node templates.
// PRINCIPLES:
// - KISS: Simple map keyed by kind
// - SRP: Only responsible for template lookup, no behavior
type Registry struct {
	templates map[Kind]*NodeTemplate
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[Kind]*NodeTemplate)}
}

// Builtin returns a registry preloaded with the five builtin kinds.
// Loaded once at startup; callers treat the result as read-only.
func Builtin() *Registry {
	r := NewRegistry()
	for _, t := range builtinTemplates() {
		// Builtin declarations are static; registration cannot fail.
		_ = r.Register(t)
	}
	return r
}

// Register adds a template to the registry.
// Fails with ErrDuplicateKind if the kind is already present.
func (r *Registry) Register(t *NodeTemplate) error {
	if t == nil {
		return ErrNilTemplate
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if _, exists := r.templates[t.Kind]; exists {
		return ErrDuplicateKind
	}
	r.templates[t.Kind] = t
	return nil
}

// Get returns the template for a kind.
// Fails with ErrUnknownTemplateKind if the kind is not registered.
func (r *Registry) Get(kind Kind) (*NodeTemplate, error) {
	t, ok := r.templates[kind]
	if !ok {
		return nil, ErrUnknownTemplateKind
	}
	return t, nil
}

// Kinds returns the registered kinds in ascending order.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.templates))
	for k := range r.templates {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// builtinTemplates declares the closed catalog.
// Every kind here has a handler in the execution engine and a generation
// strategy in the code generator; adding a kind means extending both.
func builtinTemplates() []*NodeTemplate {
	return []*NodeTemplate{
		{
			Kind:  KindInput,
			Label: "Input",
			OutputPorts: []Port{
				{Name: "out", DataType: DataTypeString, Direction: DirectionOutput},
			},
			DefaultProperties: map[string]string{"value": ""},
		},
		{
			Kind:  KindAIProcess,
			Label: "AI Process",
			InputPorts: []Port{
				{Name: "in", DataType: DataTypeString, Direction: DirectionInput},
			},
			OutputPorts: []Port{
				{Name: "out", DataType: DataTypeString, Direction: DirectionOutput},
			},
			DefaultProperties: map[string]string{
				"prompt": "",
				"model":  "gpt-4o-mini",
			},
		},
		{
			Kind:  KindTransform,
			Label: "Transform",
			InputPorts: []Port{
				{Name: "in", DataType: DataTypeString, Direction: DirectionInput},
			},
			OutputPorts: []Port{
				{Name: "out", DataType: DataTypeString, Direction: DirectionOutput},
			},
			DefaultProperties: map[string]string{"operation": "passthrough"},
		},
		{
			Kind:  KindAPICall,
			Label: "API Call",
			InputPorts: []Port{
				{Name: "body", DataType: DataTypeString, Direction: DirectionInput},
			},
			OutputPorts: []Port{
				{Name: "response", DataType: DataTypeString, Direction: DirectionOutput},
			},
			DefaultProperties: map[string]string{
				"method": "GET",
				"url":    "",
			},
		},
		{
			Kind:  KindOutput,
			Label: "Output",
			InputPorts: []Port{
				{Name: "in", DataType: DataTypeString, Direction: DirectionInput},
			},
		},
	}
}
