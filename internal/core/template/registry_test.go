package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	reg := Builtin()

	t.Run("catalog is complete", func(t *testing.T) {
		assert.Equal(t, []Kind{KindAIProcess, KindAPICall, KindInput, KindOutput, KindTransform}, reg.Kinds())
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := reg.Get(Kind("webhook"))
		assert.ErrorIs(t, err, ErrUnknownTemplateKind)
	})

	tests := []struct {
		kind    Kind
		inputs  int
		outputs int
	}{
		{KindInput, 0, 1},
		{KindAIProcess, 1, 1},
		{KindTransform, 1, 1},
		{KindAPICall, 1, 1},
		{KindOutput, 1, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			tpl, err := reg.Get(tt.kind)
			require.NoError(t, err)
			assert.Len(t, tpl.InputPorts, tt.inputs)
			assert.Len(t, tpl.OutputPorts, tt.outputs)
			require.NoError(t, tpl.Validate())
		})
	}

	t.Run("ai process defaults", func(t *testing.T) {
		tpl, err := reg.Get(KindAIProcess)
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", tpl.DefaultProperties["model"])
	})
}

func TestRegistry_Register(t *testing.T) {
	valid := func() *NodeTemplate {
		return &NodeTemplate{
			Kind:  "custom",
			Label: "Custom",
			InputPorts: []Port{
				{Name: "in", DataType: DataTypeObject, Direction: DirectionInput},
			},
			OutputPorts: []Port{
				{Name: "out", DataType: DataTypeObject, Direction: DirectionOutput},
			},
		}
	}

	t.Run("accepts a valid template", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Register(valid()))
		got, err := reg.Get("custom")
		require.NoError(t, err)
		assert.Equal(t, "Custom", got.Label)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Register(valid()))
		assert.ErrorIs(t, reg.Register(valid()), ErrDuplicateKind)
	})

	t.Run("rejects nil", func(t *testing.T) {
		assert.ErrorIs(t, NewRegistry().Register(nil), ErrNilTemplate)
	})

	tests := []struct {
		name    string
		mutate  func(*NodeTemplate)
		wantErr error
	}{
		{"empty kind", func(t *NodeTemplate) { t.Kind = "" }, ErrInvalidKind},
		{"empty label", func(t *NodeTemplate) { t.Label = "" }, ErrInvalidLabel},
		{"empty port name", func(t *NodeTemplate) { t.InputPorts[0].Name = "" }, ErrInvalidPort},
		{"bad data type", func(t *NodeTemplate) { t.InputPorts[0].DataType = "tensor" }, ErrInvalidPort},
		{"wrong direction", func(t *NodeTemplate) { t.OutputPorts[0].Direction = DirectionInput }, ErrInvalidPort},
		{"duplicate port", func(t *NodeTemplate) {
			t.InputPorts = append(t.InputPorts, t.InputPorts[0])
		}, ErrDuplicatePort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := valid()
			tt.mutate(tpl)
			assert.ErrorIs(t, NewRegistry().Register(tpl), tt.wantErr)
		})
	}
}
