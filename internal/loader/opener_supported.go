//go:build linux || darwin || freebsd

package loader

import (
	"fmt"
	"os"
	"plugin"
)

// NativeOpener opens Go plugins built with -buildmode=plugin.
type NativeOpener struct{}

// Open implements Opener.
func (NativeOpener) Open(path string) (Module, error) {
	// plugin.Open reports missing files as an opaque string; stat first so
	// callers can match fs.ErrNotExist.
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return &nativeModule{path: path, plugin: p}, nil
}

type nativeModule struct {
	path   string
	plugin *plugin.Plugin
}

func (m *nativeModule) Lookup(name string) (any, error) {
	sym, err := m.plugin.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrSymbolNotFound, name, m.path)
	}
	return sym, nil
}

// Close does nothing. The Go runtime never unmaps a plugin once opened.
func (m *nativeModule) Close() error {
	return nil
}
