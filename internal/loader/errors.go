package loader

import (
	"errors"
	"fmt"
)

// ErrFunctionNotFound is wrapped by Call and Help when no function is
// registered under the requested name.
var ErrFunctionNotFound = errors.New("function not found")

// ErrSymbolNotFound is wrapped by Module.Lookup implementations when the
// module does not export the requested symbol.
var ErrSymbolNotFound = errors.New("symbol not found")

// Kind classifies why a module was rejected.
type Kind int

const (
	// KindIO means the module could not be opened.
	KindIO Kind = iota + 1
	// KindMissingDeclaration means the module does not export the
	// declaration symbol.
	KindMissingDeclaration
	// KindMalformedDeclaration means the symbol exists but is not a usable
	// declaration.
	KindMalformedDeclaration
	// KindVersionMismatch means one of the declared versions differs from
	// the host's.
	KindVersionMismatch
	// KindRegistration means the module's register function panicked.
	KindRegistration
	// KindNameCollision means a name was registered twice while the
	// registry rejects collisions.
	KindNameCollision
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindMissingDeclaration:
		return "missing declaration"
	case KindMalformedDeclaration:
		return "malformed declaration"
	case KindVersionMismatch:
		return "version mismatch"
	case KindRegistration:
		return "registration failed"
	case KindNameCollision:
		return "name collision"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// LoadError is returned by Registry.Load. The registry is left unchanged
// whenever one is returned.
type LoadError struct {
	Path string
	Kind Kind

	// Field, Expected and Found are set for KindVersionMismatch.
	Field    string
	Expected string
	Found    string

	// Name is set for KindNameCollision.
	Name string

	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	switch e.Kind {
	case KindVersionMismatch:
		return fmt.Sprintf("load %s: %s: %s expected %q, found %q", e.Path, e.Kind, e.Field, e.Expected, e.Found)
	case KindNameCollision:
		return fmt.Sprintf("load %s: %s: %q is already registered", e.Path, e.Kind, e.Name)
	}
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Path, e.Kind)
}

// Unwrap returns the underlying cause, if any.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a *LoadError of the given kind.
func IsKind(err error, kind Kind) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == kind
}

func notFound(name string) error {
	return fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
}
