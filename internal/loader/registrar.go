package loader

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/vk/dynplug/pkg/pluginapi"
)

// registrar collects the functions one module registers during a single
// Load. It is sealed when the module's register function returns.
type registrar struct {
	owner  *moduleHandle
	policy CollisionPolicy
	logger *slog.Logger

	mu        sync.Mutex
	entries   map[string]*Entry
	duplicate string
	sealed    bool
}

func newRegistrar(owner *moduleHandle, policy CollisionPolicy, logger *slog.Logger) *registrar {
	return &registrar{
		owner:   owner,
		policy:  policy,
		logger:  logger,
		entries: make(map[string]*Entry),
	}
}

// Register implements pluginapi.Registrar.
func (r *registrar) Register(name string, fn pluginapi.Function) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		r.logger.Warn("Ignoring registration after the register function returned.", "function", name)
		return
	}
	if fn == nil {
		r.logger.Warn("Ignoring registration of a nil function.", "function", name)
		return
	}
	if _, exists := r.entries[name]; exists {
		if r.policy == CollisionReject && r.duplicate == "" {
			r.duplicate = name
		}
		r.logger.Debug("Function registered twice by the same module, keeping the latest.", "function", name)
	}
	r.entries[name] = &Entry{name: name, fn: fn, owner: r.owner}
}

// run hands the registrar to the module's register function and seals it
// afterwards. A panic in module code is returned as an error.
func (r *registrar) run(register func(pluginapi.Registrar)) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("register function panicked: %v", p)
		}
		r.mu.Lock()
		r.sealed = true
		r.mu.Unlock()
	}()
	register(r)
	return nil
}
