package arith

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/dynplug/pkg/pluginapi"
)

type captureRegistrar map[string]pluginapi.Function

func (c captureRegistrar) Register(name string, fn pluginapi.Function) { c[name] = fn }

func registered(t *testing.T) captureRegistrar {
	t.Helper()
	r := captureRegistrar{}
	Module{}.Register(r)
	require.Len(t, r, 4)
	return r
}

func TestFunctions(t *testing.T) {
	fns := registered(t)

	testCases := []struct {
		name     string
		function string
		args     []float64
		expected float64
	}{
		{name: "add", function: "add", args: []float64{2, 3}, expected: 5},
		{name: "sub", function: "sub", args: []float64{2, 3}, expected: -1},
		{name: "mul", function: "mul", args: []float64{2.5, 4}, expected: 10},
		{name: "div", function: "div", args: []float64{9, 3}, expected: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := fns[tc.function].Call(tc.args)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestFunctions_ArityMismatch(t *testing.T) {
	fns := registered(t)

	_, err := fns["add"].Call([]float64{2})

	var arity *pluginapi.ArityMismatchError
	require.ErrorAs(t, err, &arity)
	assert.Equal(t, 2, arity.Expected)
	assert.Equal(t, 1, arity.Found)
}

func TestDiv_ByZero(t *testing.T) {
	fns := registered(t)

	_, err := fns["div"].Call([]float64{1, 0})

	var other *pluginapi.OtherError
	require.ErrorAs(t, err, &other)
	assert.Equal(t, "division by zero", other.Message)
}

func TestFunctions_HaveHelp(t *testing.T) {
	for name, fn := range registered(t) {
		h, ok := fn.(pluginapi.Helper)
		require.True(t, ok, "function %q should carry help text", name)
		assert.Contains(t, h.Help(), name+"(")
	}
}
