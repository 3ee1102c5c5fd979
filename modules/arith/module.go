// Package arith provides binary arithmetic functions for the arith plugin.
package arith

import "github.com/vk/dynplug/pkg/pluginapi"

// Module registers the arithmetic functions.
type Module struct{}

// Register registers every function in this package.
func (Module) Register(r pluginapi.Registrar) {
	r.Register("add", pluginapi.WithHelp(binary(add), "add(a, b) returns a + b"))
	r.Register("sub", pluginapi.WithHelp(binary(sub), "sub(a, b) returns a - b"))
	r.Register("mul", pluginapi.WithHelp(binary(mul), "mul(a, b) returns a * b"))
	r.Register("div", pluginapi.WithHelp(binary(div), "div(a, b) returns a / b; b must not be zero"))
}

// binary wraps a two-operand function with the arity check.
func binary(op func(a, b float64) (float64, error)) pluginapi.Function {
	return pluginapi.FunctionFunc(func(args []float64) (float64, error) {
		if err := pluginapi.CheckArity(args, 2); err != nil {
			return 0, err
		}
		return op(args[0], args[1])
	})
}

func add(a, b float64) (float64, error) { return a + b, nil }
func sub(a, b float64) (float64, error) { return a - b, nil }
func mul(a, b float64) (float64, error) { return a * b, nil }

func div(a, b float64) (float64, error) {
	if b == 0 {
		return 0, pluginapi.Errorf("division by zero")
	}
	return a / b, nil
}
