package providers

import (
	"errors"
	"sync"
)

// Registry holds the adapters configured at startup. Lookups are safe for
// concurrent use; the set is not expected to change once routing begins.
type Registry struct {
	mu       sync.RWMutex
	adapters map[Identity]Adapter
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[Identity]Adapter),
	}
}

// Register adds an adapter. Each identity may be registered once.
func (r *Registry) Register(adapter Adapter) error {
	if adapter == nil {
		return errors.New("adapter cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := adapter.Identity()
	if id == "" {
		return errors.New("adapter identity cannot be empty")
	}
	if _, exists := r.adapters[id]; exists {
		return ErrProviderAlreadyRegistered
	}

	r.adapters[id] = adapter
	return nil
}

// Get retrieves the adapter for id
func (r *Registry) Get(id Identity) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, exists := r.adapters[id]
	if !exists {
		return nil, ErrProviderNotFound
	}
	return adapter, nil
}

// Available returns the registered identities in enumeration order.
func (r *Registry) Available() []Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Identity, 0, len(r.adapters))
	for _, id := range Identities() {
		if _, ok := r.adapters[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Count returns the number of registered adapters
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.adapters)
}
