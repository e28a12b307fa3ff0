package backend

import (
	"slices"
	"sync"
)

// Factory creates a new backend instance.
type Factory func() Backend

// Registry maps backend names to factories. Unlike a process-wide
// singleton, a Registry is constructed by the caller and handed to
// whatever needs to pick a backend.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	priority  []string
}

// NewRegistry creates an empty registry. priority lists the preferred
// backend names, best first, for Default.
func NewRegistry(priority ...string) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		priority:  slices.Clone(priority),
	}
}

// Register adds a factory. An existing factory with the same name is
// replaced.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Unregister removes a backend from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.factories, name)
}

// Names returns the registered backend names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Get returns a new backend instance by name, or nil if the name is not
// registered.
func (r *Registry) Get(name string) Backend {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return factory()
}

// ordered returns the registered names in priority order followed by the
// remaining names, sorted.
func (r *Registry) ordered() []string {
	names := r.Names()
	out := make([]string, 0, len(names))
	for _, p := range r.priority {
		if slices.Contains(names, p) {
			out = append(out, p)
		}
	}
	for _, n := range names {
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// Default returns the best available backend based on priority, or nil if
// none is available.
func (r *Registry) Default() Backend {
	for _, name := range r.ordered() {
		if b := r.Get(name); b != nil && b.Available() {
			return b
		}
	}
	return nil
}

// Chain returns a chain over every available backend in priority order.
// With names, only those backends are used, in the given order.
func (r *Registry) Chain(names ...string) *Chain {
	if len(names) == 0 {
		names = r.ordered()
	}
	var bs []Backend
	for _, name := range names {
		if b := r.Get(name); b != nil {
			bs = append(bs, b)
		}
	}
	return NewChain(bs...)
}
