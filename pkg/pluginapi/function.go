package pluginapi

// Function is the capability a plugin exposes under a name. The host passes
// the caller's arguments through untouched; each implementation checks its
// own arity and reports an ArityMismatchError when it is violated.
type Function interface {
	Call(args []float64) (float64, error)
}

// Helper is implemented by functions that carry usage text.
type Helper interface {
	Help() string
}

// FunctionFunc adapts an ordinary func to the Function interface.
type FunctionFunc func(args []float64) (float64, error)

// Call implements Function.
func (f FunctionFunc) Call(args []float64) (float64, error) {
	return f(args)
}

type helpedFunction struct {
	Function
	help string
}

func (h helpedFunction) Help() string { return h.help }

// WithHelp attaches usage text to fn.
func WithHelp(fn Function, help string) Function {
	return helpedFunction{Function: fn, help: help}
}
