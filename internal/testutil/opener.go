package testutil

import (
	"fmt"
	"io/fs"
	"sync"

	"github.com/vk/dynplug/internal/loader"
	"github.com/vk/dynplug/pkg/pluginapi"
)

// MemoryOpener is a loader.Opener backed by in-memory symbol tables. It
// stands in for .so files so loader behaviour can be tested without
// building plugins.
type MemoryOpener struct {
	mu      sync.Mutex
	modules map[string]map[string]any
	opened  map[string]int
	closed  map[string]int
}

// NewMemoryOpener returns an opener with no modules.
func NewMemoryOpener() *MemoryOpener {
	return &MemoryOpener{
		modules: make(map[string]map[string]any),
		opened:  make(map[string]int),
		closed:  make(map[string]int),
	}
}

// AddSymbols makes a module with the given exported symbols available at path.
func (o *MemoryOpener) AddSymbols(path string, symbols map[string]any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.modules[path] = symbols
}

// AddModule makes a module exporting a declaration stamped with the host's
// identifiers available at path.
func (o *MemoryOpener) AddModule(path string, register func(pluginapi.Registrar)) {
	decl := pluginapi.Declare(register)
	o.AddSymbols(path, map[string]any{pluginapi.DeclarationSymbol: &decl})
}

// AddDeclaration makes a module exporting decl available at path.
func (o *MemoryOpener) AddDeclaration(path string, decl pluginapi.Declaration) {
	o.AddSymbols(path, map[string]any{pluginapi.DeclarationSymbol: &decl})
}

// Open implements loader.Opener.
func (o *MemoryOpener) Open(path string) (loader.Module, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	symbols, ok := o.modules[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	o.opened[path]++
	return &memoryModule{opener: o, path: path, symbols: symbols}, nil
}

// Opened reports how many times path was opened.
func (o *MemoryOpener) Opened(path string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opened[path]
}

// Closed reports how many times a module opened from path was closed.
func (o *MemoryOpener) Closed(path string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed[path]
}

type memoryModule struct {
	opener  *MemoryOpener
	path    string
	symbols map[string]any
}

func (m *memoryModule) Lookup(name string) (any, error) {
	sym, ok := m.symbols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", loader.ErrSymbolNotFound, name, m.path)
	}
	return sym, nil
}

func (m *memoryModule) Close() error {
	m.opener.mu.Lock()
	defer m.opener.mu.Unlock()
	m.opener.closed[m.path]++
	return nil
}

// Register returns a register function that registers every function in
// fns, in map iteration order.
func Register(fns map[string]pluginapi.Function) func(pluginapi.Registrar) {
	return func(r pluginapi.Registrar) {
		for name, fn := range fns {
			r.Register(name, fn)
		}
	}
}

// Const returns a function that ignores its arguments and returns v.
func Const(v float64) pluginapi.Function {
	return pluginapi.FunctionFunc(func([]float64) (float64, error) { return v, nil })
}
