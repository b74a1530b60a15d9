package domain

import (
	"context"
	"time"
)

// CatalogSource retrieves model specifications from one pricing source.
type CatalogSource interface {
	// Name returns the source identifier used in logs and metrics.
	Name() string

	// Fetch returns the source's models keyed by id.
	Fetch(ctx context.Context) (Catalog, error)
}

// CatalogCache is the single slot holding the last loaded catalog.
type CatalogCache interface {
	// Get returns the cached catalog; ok is false on a miss.
	Get(ctx context.Context) (catalog Catalog, ok bool, err error)

	// Set replaces the cached catalog.
	Set(ctx context.Context, catalog Catalog) error

	// Invalidate empties the slot.
	Invalidate(ctx context.Context) error
}

// CatalogLoader returns the catalog for a calculation session.
type CatalogLoader interface {
	// Load returns the cached catalog, or runs the fallback chain when the
	// cache is empty or forceRefresh is set. It never fails.
	Load(ctx context.Context, forceRefresh bool) Catalog

	// Model resolves one id against the loaded catalog; an absent id yields
	// ErrUnknownModel.
	Model(ctx context.Context, id string) (ModelSpec, error)
}

// MetricsRecorder receives calculator and catalog measurements.
type MetricsRecorder interface {
	// ObserveSourceFetch records one source attempt and its outcome.
	ObserveSourceFetch(source, outcome string, elapsed time.Duration)

	// SetCatalogSize records the number of models in the active catalog.
	SetCatalogSize(source string, size int)

	// ObserveCalculation records one pricing engine call and its outcome.
	ObserveCalculation(operation, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveSourceFetch(string, string, time.Duration) {}
func (noopRecorder) SetCatalogSize(string, int)                       {}
func (noopRecorder) ObserveCalculation(string, string)                {}
