//go:build !(linux || darwin || freebsd)

package loader

import (
	"fmt"
	"runtime"
)

// NativeOpener reports that dynamic modules are unavailable on this
// platform.
type NativeOpener struct{}

// Open implements Opener.
func (NativeOpener) Open(path string) (Module, error) {
	return nil, fmt.Errorf("dynamic modules are not supported on %s", runtime.GOOS)
}
