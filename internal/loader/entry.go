package loader

import "github.com/vk/dynplug/pkg/pluginapi"

// moduleHandle is one successfully opened module. The registry's
// keep-alive list and every Entry built from the module point at it.
type moduleHandle struct {
	path   string
	seq    int
	module Module
}

// Entry is a registered function together with a claim on the module that
// provided it. Entries are immutable.
type Entry struct {
	name  string
	fn    pluginapi.Function
	owner *moduleHandle
}

// Name returns the name the function was registered under.
func (e *Entry) Name() string { return e.name }

// ModulePath returns the path of the module that registered the function.
func (e *Entry) ModulePath() string { return e.owner.path }

// Call delegates to the wrapped function with args unchanged.
func (e *Entry) Call(args []float64) (float64, error) {
	return e.fn.Call(args)
}

// Help returns the wrapped function's usage text, if it has any.
func (e *Entry) Help() (string, bool) {
	h, ok := e.fn.(pluginapi.Helper)
	if !ok {
		return "", false
	}
	return h.Help(), true
}
