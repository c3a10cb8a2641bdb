// Package extract runs the extraction pipeline: it resolves a work item's
// source adapter, renders the page, extracts and normalizes fields, and
// stores the result.
package extract

import (
	"sort"
	"sync"

	"github.com/fwojciec/newsgrab"
)

var _ newsgrab.AdapterRegistry = (*Registry)(nil)

// Registry maps source IDs to adapters. It is populated once at startup
// and is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]newsgrab.SourceAdapter
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]newsgrab.SourceAdapter),
	}
}

// Resolve returns the adapter registered for sourceID.
func (r *Registry) Resolve(sourceID string) (newsgrab.SourceAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[sourceID]
	if !ok {
		return nil, newsgrab.Errorf(newsgrab.EUNKNOWNSOURCE, "no adapter for source %q", sourceID)
	}
	return adapter, nil
}

// Register adds an adapter for a source.
// If an adapter is already registered for the source, it is replaced.
func (r *Registry) Register(sourceID string, adapter newsgrab.SourceAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[sourceID] = adapter
}

// List returns all registered source IDs in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
