// Package template provides the closed catalog of node kinds and the typed
// ports they expose, following Clean Architecture principles with zero
// external dependencies.
package template

// DataType identifies the payload type carried by a port.
type DataType string

const (
	DataTypeObject  DataType = "object"
	DataTypeString  DataType = "string"
	DataTypeNumber  DataType = "number"
	DataTypeBoolean DataType = "boolean"
)

// Direction identifies which side of a node a port sits on.
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// Port is a typed connection point declared by a template.
// Ports are immutable once a node has been instantiated.
type Port struct {
	Name      string    `json:"name"`
	DataType  DataType  `json:"data_type"`
	Direction Direction `json:"direction"`
}

// Kind identifies a node template in the closed catalog.
type Kind string

const (
	// KindInput produces a seed value from node properties.
	KindInput Kind = "input"
	// KindAIProcess forwards properties plus upstream outputs to the AI collaborator.
	KindAIProcess Kind = "ai_process"
	// KindTransform applies a declared operation to upstream data.
	KindTransform Kind = "transform"
	// KindAPICall issues an external HTTP call.
	KindAPICall Kind = "api_call"
	// KindOutput hands final data to an external sink.
	KindOutput Kind = "output"
)

// NodeTemplate declares a node kind: its ports and default configuration.
// Templates are pure data, process-wide and read-only after registration.
type NodeTemplate struct {
	Kind              Kind              `json:"kind" validate:"required"`
	Label             string            `json:"label" validate:"required"`
	InputPorts        []Port            `json:"input_ports" validate:"dive"`
	OutputPorts       []Port            `json:"output_ports" validate:"dive"`
	DefaultProperties map[string]string `json:"default_properties,omitempty"`
}

// Validate ensures template integrity.
func (t *NodeTemplate) Validate() error {
	if t.Kind == "" {
		return ErrInvalidKind
	}
	if t.Label == "" {
		return ErrInvalidLabel
	}
	seen := make(map[string]bool, len(t.InputPorts)+len(t.OutputPorts))
	for _, p := range t.InputPorts {
		if p.Name == "" || !validDataType(p.DataType) {
			return ErrInvalidPort
		}
		if p.Direction != DirectionInput {
			return ErrInvalidPort
		}
		if seen["in:"+p.Name] {
			return ErrDuplicatePort
		}
		seen["in:"+p.Name] = true
	}
	for _, p := range t.OutputPorts {
		if p.Name == "" || !validDataType(p.DataType) {
			return ErrInvalidPort
		}
		if p.Direction != DirectionOutput {
			return ErrInvalidPort
		}
		if seen["out:"+p.Name] {
			return ErrDuplicatePort
		}
		seen["out:"+p.Name] = true
	}
	return nil
}

func validDataType(dt DataType) bool {
	switch dt {
	case DataTypeObject, DataTypeString, DataTypeNumber, DataTypeBoolean:
		return true
	}
	return false
}
