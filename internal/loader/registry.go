package loader

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/vk/dynplug/internal/ctxlog"
	"github.com/vk/dynplug/pkg/pluginapi"
)

// CollisionPolicy decides what happens when a name is registered again.
type CollisionPolicy int

const (
	// CollisionOverwrite keeps the most recent registration.
	CollisionOverwrite CollisionPolicy = iota
	// CollisionReject fails the Load that would overwrite a name.
	CollisionReject
)

// Option configures a Registry.
type Option func(*Registry)

// WithCollisionPolicy sets the collision policy. The default is
// CollisionOverwrite.
func WithCollisionPolicy(p CollisionPolicy) Option {
	return func(r *Registry) { r.policy = p }
}

// WithHostIdentity overrides the version strings modules are checked
// against.
func WithHostIdentity(buildID, contractVersion string) Option {
	return func(r *Registry) {
		r.identity = identity{buildID: buildID, contractVersion: contractVersion}
	}
}

// ModuleInfo describes a loaded module.
type ModuleInfo struct {
	Path string
	Seq  int
	// Functions lists the names that currently resolve to this module.
	Functions []string
}

// Registry owns the loaded modules and the table of their functions.
type Registry struct {
	opener   Opener
	identity identity
	policy   CollisionPolicy

	// loadMu serializes Load so module code never runs under mu.
	loadMu sync.Mutex

	mu      sync.RWMutex
	entries map[string]*Entry
	modules []*moduleHandle
}

// New creates an empty Registry that opens modules with opener.
func New(opener Opener, opts ...Option) *Registry {
	r := &Registry{
		opener:   opener,
		identity: hostIdentity(),
		entries:  make(map[string]*Entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load opens the module at path, validates its declaration, runs its
// register function and merges what it registered. On error the registry
// is unchanged and the error is a *LoadError.
func (r *Registry) Load(ctx context.Context, path string) error {
	ctx = ctxlog.With(ctx, "module", path)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading module.")

	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	mod, err := r.opener.Open(path)
	if err != nil {
		logger.Debug("Module could not be opened.", "error", err)
		return &LoadError{Path: path, Kind: KindIO, Err: err}
	}

	r.mu.RLock()
	seq := len(r.modules) + 1
	r.mu.RUnlock()
	handle := &moduleHandle{path: path, seq: seq, module: mod}

	entries, err := r.collect(ctx, handle)
	if err == nil {
		err = r.merge(ctx, handle, entries)
	}
	if err != nil {
		logger.Debug("Module rejected.", "error", err)
		if cerr := mod.Close(); cerr != nil {
			logger.Warn("Closing rejected module failed.", "error", cerr)
		}
		return err
	}

	logger.Info("Module loaded.", "seq", seq, "functions", len(entries))
	return nil
}

// collect performs the handshake and the registration exchange.
func (r *Registry) collect(ctx context.Context, handle *moduleHandle) (map[string]*Entry, error) {
	path := handle.path
	sym, err := handle.module.Lookup(pluginapi.DeclarationSymbol)
	if err != nil {
		kind := KindIO
		if errors.Is(err, ErrSymbolNotFound) {
			kind = KindMissingDeclaration
		}
		return nil, &LoadError{Path: path, Kind: kind, Err: err}
	}

	decl, err := decodeDeclaration(sym)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: KindMalformedDeclaration, Err: err}
	}
	if err := r.identity.verify(path, decl); err != nil {
		return nil, err
	}

	reg := newRegistrar(handle, r.policy, ctxlog.FromContext(ctx))
	if err := reg.run(decl.Register); err != nil {
		return nil, &LoadError{Path: path, Kind: KindRegistration, Err: err}
	}
	if reg.duplicate != "" {
		return nil, &LoadError{Path: path, Kind: KindNameCollision, Name: reg.duplicate}
	}
	return reg.entries, nil
}

// merge commits entries and keeps handle alive. Under CollisionReject the
// whole batch is checked before anything is written.
func (r *Registry) merge(ctx context.Context, handle *moduleHandle, entries map[string]*Entry) error {
	logger := ctxlog.FromContext(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.policy == CollisionReject {
		for _, name := range sortedKeys(entries) {
			if _, exists := r.entries[name]; exists {
				return &LoadError{Path: handle.path, Kind: KindNameCollision, Name: name}
			}
		}
	}
	for name, entry := range entries {
		if prev, exists := r.entries[name]; exists {
			logger.Warn("Function overwritten by a later module.", "function", name, "previous_module", prev.owner.path)
		}
		r.entries[name] = entry
	}
	r.modules = append(r.modules, handle)
	return nil
}

// Call invokes the function registered under name with args unchanged.
func (r *Registry) Call(ctx context.Context, name string, args []float64) (float64, error) {
	entry, ok := r.Lookup(name)
	if !ok {
		return 0, notFound(name)
	}
	ctxlog.FromContext(ctx).Debug("Invoking function.", "function", name, "module", entry.owner.path, "arg_count", len(args))
	return entry.Call(args)
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[name]
	return entry, ok
}

// Help returns the usage text of the function registered under name. The
// boolean is false when the function has none.
func (r *Registry) Help(name string) (string, bool, error) {
	entry, ok := r.Lookup(name)
	if !ok {
		return "", false, notFound(name)
	}
	text, ok := entry.Help()
	return text, ok, nil
}

// Names returns the registered function names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.entries)
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Modules describes the loaded modules in load order.
func (r *Registry) Modules() []ModuleInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]ModuleInfo, 0, len(r.modules))
	for _, m := range r.modules {
		info := ModuleInfo{Path: m.path, Seq: m.seq}
		for _, name := range sortedKeys(r.entries) {
			if r.entries[name].owner == m {
				info.Functions = append(info.Functions, name)
			}
		}
		infos = append(infos, info)
	}
	return infos
}

func sortedKeys(m map[string]*Entry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
