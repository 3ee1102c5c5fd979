package loader

// Module is an opened dynamic module.
type Module interface {
	// Lookup returns the exported symbol with the given name. A missing
	// symbol is reported with an error wrapping ErrSymbolNotFound.
	Lookup(name string) (any, error)
	// Close releases the module. It is only called on modules that were
	// rejected during Load.
	Close() error
}

// Opener opens modules by path. NativeOpener is the production
// implementation; tests substitute an in-memory one.
type Opener interface {
	Open(path string) (Module, error)
}
