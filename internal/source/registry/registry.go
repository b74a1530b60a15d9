// Package registry keeps the catalog sources in priority order.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/davidbz/llmcost/internal/domain"
)

// Registry holds catalog sources in registration order. Earlier sources are
// tried first by the catalog chain.
type Registry struct {
	mu      sync.RWMutex
	sources []domain.CatalogSource
	byName  map[string]domain.CatalogSource
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:      sync.RWMutex{},
		sources: nil,
		byName:  make(map[string]domain.CatalogSource),
	}
}

// Register appends a source to the chain.
func (r *Registry) Register(source domain.CatalogSource) error {
	if source == nil {
		return errors.New("source cannot be nil")
	}

	name := source.Name()
	if name == "" {
		return errors.New("source name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("source %s already registered", name)
	}

	r.sources = append(r.sources, source)
	r.byName[name] = source

	return nil
}

// List returns the source names in priority order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sources))
	for _, s := range r.sources {
		names = append(names, s.Name())
	}

	return names
}

// Sources returns the sources in priority order.
func (r *Registry) Sources() []domain.CatalogSource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CatalogSource, len(r.sources))
	copy(out, r.sources)
	return out
}
