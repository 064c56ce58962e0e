package registry

import (
	"fmt"
	"sync"

	"github.com/cloudcore-io/triggers/pkg/core"
	"github.com/cloudcore-io/triggers/pkg/handler"
	"github.com/cloudcore-io/triggers/pkg/security"
)

// Registration is a normalized handler plus its per-registration options.
type Registration struct {
	Handler *handler.Handler
	Options *Options
}

type hookKey struct {
	class string
	kind  core.EventKind
}

// Registry maps (class, event kind) to hook handlers and names to function
// and job handlers. It is safe for concurrent use; writes are visible to
// all subsequent lookups. Registering an existing key replaces the prior
// registration silently, and each key maps to exactly one handler.
type Registry struct {
	mu        sync.RWMutex
	hooks     map[hookKey]*Registration
	functions map[string]*Registration
	jobs      map[string]*Registration
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		hooks:     make(map[hookKey]*Registration),
		functions: make(map[string]*Registration),
		jobs:      make(map[string]*Registration),
	}
}

func newRegistration(fn any, opts []Option) (*Registration, error) {
	h, err := handler.NewHandler(fn)
	if err != nil {
		return nil, err
	}

	o := NewOptions()
	for _, opt := range opts {
		opt.Apply(o)
	}
	h.Timeout = o.Timeout

	return &Registration{Handler: h, Options: o}, nil
}

// RegisterHook stores or replaces the hook for (class, kind). Malformed
// handlers and names fail here, never at invocation time.
func (r *Registry) RegisterHook(class string, kind core.EventKind, fn any, opts ...Option) error {
	if err := security.ValidateClassName(class); err != nil {
		return err
	}
	if !kind.IsHook() {
		return fmt.Errorf("%w: %q", core.ErrInvalidEventKind, kind)
	}

	reg, err := newRegistration(fn, opts)
	if err != nil {
		return fmt.Errorf("hook %s/%s: %w", class, kind, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[hookKey{class: class, kind: kind}] = reg
	return nil
}

// LookupHook returns the hook for (class, kind). Absence is a normal,
// non-error outcome meaning no hook is configured.
func (r *Registry) LookupHook(class string, kind core.EventKind) (*Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.hooks[hookKey{class: class, kind: kind}]
	return reg, ok
}

// UnregisterHook removes the hook for (class, kind). Removing an absent
// mapping is a no-op.
func (r *Registry) UnregisterHook(class string, kind core.EventKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.hooks, hookKey{class: class, kind: kind})
}

// RegisterFunction stores or replaces the named function handler.
func (r *Registry) RegisterFunction(name string, fn any, opts ...Option) error {
	if err := security.ValidateName(name); err != nil {
		return err
	}

	reg, err := newRegistration(fn, opts)
	if err != nil {
		return fmt.Errorf("function %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.functions[name] = reg
	return nil
}

// LookupFunction returns the named function handler.
func (r *Registry) LookupFunction(name string) (*Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.functions[name]
	return reg, ok
}

// UnregisterFunction removes the named function handler.
func (r *Registry) UnregisterFunction(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.functions, name)
}

// RegisterJob stores or replaces the named job handler.
func (r *Registry) RegisterJob(name string, fn any, opts ...Option) error {
	if err := security.ValidateName(name); err != nil {
		return err
	}

	reg, err := newRegistration(fn, opts)
	if err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[name] = reg
	return nil
}

// LookupJob returns the named job handler.
func (r *Registry) LookupJob(name string) (*Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.jobs[name]
	return reg, ok
}

// UnregisterJob removes the named job handler.
func (r *Registry) UnregisterJob(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, name)
}

// JobNames returns all registered job names.
func (r *Registry) JobNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.jobs))
	for name := range r.jobs {
		names = append(names, name)
	}
	return names
}
