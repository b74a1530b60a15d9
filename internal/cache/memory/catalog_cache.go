// Package memory provides an in-process catalog cache slot.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/davidbz/llmcost/internal/domain"
)

// CatalogCache stores the last loaded catalog in memory.
type CatalogCache struct {
	mu      sync.RWMutex
	catalog domain.Catalog
}

// NewCatalogCache creates an empty in-memory catalog cache.
func NewCatalogCache() *CatalogCache {
	return &CatalogCache{
		mu:      sync.RWMutex{},
		catalog: nil,
	}
}

// Get returns a copy of the cached catalog.
func (c *CatalogCache) Get(_ context.Context) (domain.Catalog, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.catalog == nil {
		return nil, false, nil
	}

	return cloneCatalog(c.catalog), true, nil
}

// Set replaces the cached catalog.
func (c *CatalogCache) Set(_ context.Context, catalog domain.Catalog) error {
	if catalog == nil {
		return errors.New("catalog cannot be nil")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.catalog = cloneCatalog(catalog)
	return nil
}

// Invalidate empties the slot.
func (c *CatalogCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.catalog = nil
	return nil
}

func cloneCatalog(src domain.Catalog) domain.Catalog {
	out := make(domain.Catalog, len(src))
	for id, m := range src {
		out[id] = m
	}
	return out
}
