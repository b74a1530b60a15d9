package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davidbz/llmcost/internal/observability"
)

const (
	outcomeSuccess = "success"
	outcomeEmpty   = "empty"
	outcomeFailure = "failure"

	// DefaultFetchTimeout bounds a single source fetch.
	DefaultFetchTimeout = 15 * time.Second
)

// CatalogService loads the model catalog through an ordered chain of sources
// and keeps the result in an explicitly owned cache slot.
type CatalogService struct {
	sources  []CatalogSource
	fallback CatalogSource
	cache    CatalogCache
	timeout  time.Duration
	metrics  MetricsRecorder
}

// NewCatalogService creates a catalog service. Sources are tried in order;
// fallback is the floor of the chain and is expected never to fail.
func NewCatalogService(
	sources []CatalogSource,
	fallback CatalogSource,
	cache CatalogCache,
	timeout time.Duration,
	metrics MetricsRecorder,
) *CatalogService {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &CatalogService{
		sources:  sources,
		fallback: fallback,
		cache:    cache,
		timeout:  timeout,
		metrics:  metrics,
	}
}

// Load returns the cached catalog or runs the fallback chain. Source failures
// are logged and absorbed.
func (s *CatalogService) Load(ctx context.Context, forceRefresh bool) Catalog {
	logger := observability.FromContext(ctx)

	if !forceRefresh {
		cached, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			logger.Warn("catalog cache read failed, reloading", observability.Error(err))
		case ok && len(cached) > 0:
			return cached
		}
	}

	catalog, source := s.fetchChain(ctx)
	s.metrics.SetCatalogSize(source, len(catalog))
	s.warnDataQuality(ctx, catalog)

	if err := s.cache.Set(ctx, catalog); err != nil {
		logger.Warn("catalog cache write failed", observability.Error(err))
	}

	logger.Info("catalog loaded",
		observability.String("source", source),
		observability.Int("models", len(catalog)),
		observability.Bool("force_refresh", forceRefresh))

	return catalog
}

// Invalidate empties the cache so the next Load runs the chain.
func (s *CatalogService) Invalidate(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}

// Model resolves a single model from the loaded catalog.
func (s *CatalogService) Model(ctx context.Context, id string) (ModelSpec, error) {
	m, ok := s.Load(ctx, false).Get(id)
	if !ok {
		return ModelSpec{}, fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}
	return m, nil
}

func (s *CatalogService) fetchChain(ctx context.Context) (Catalog, string) {
	logger := observability.FromContext(ctx)

	for _, src := range s.sources {
		catalog, err := s.fetch(ctx, src)
		if err == nil {
			return catalog, src.Name()
		}
		logger.Warn("catalog source failed, trying next",
			observability.String("source", src.Name()),
			observability.Error(err))
	}

	if s.fallback == nil {
		return Catalog{}, "none"
	}

	catalog, err := s.fetch(ctx, s.fallback)
	if err != nil {
		logger.Error("fallback catalog failed",
			observability.String("source", s.fallback.Name()),
			observability.Error(err))
		return Catalog{}, s.fallback.Name()
	}

	return catalog, s.fallback.Name()
}

// fetch runs one source under the fetch timeout and filters zero-priced models.
func (s *CatalogService) fetch(ctx context.Context, src CatalogSource) (Catalog, error) {
	fetchCtx, cancel := context.WithTimeout(observability.WithSource(ctx, src.Name()), s.timeout)
	defer cancel()

	started := time.Now()
	raw, err := src.Fetch(fetchCtx)
	elapsed := time.Since(started)

	if err != nil {
		s.metrics.ObserveSourceFetch(src.Name(), outcomeFailure, elapsed)
		if !errors.Is(err, ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		return nil, err
	}

	priced := raw.Priced()
	if len(priced) == 0 {
		s.metrics.ObserveSourceFetch(src.Name(), outcomeEmpty, elapsed)
		return nil, fmt.Errorf("%w: %s returned %d entries", ErrEmptyCatalog, src.Name(), len(raw))
	}

	s.metrics.ObserveSourceFetch(src.Name(), outcomeSuccess, elapsed)
	return priced, nil
}

func (s *CatalogService) warnDataQuality(ctx context.Context, catalog Catalog) {
	inconsistent := 0
	for _, m := range catalog {
		if m.MaxOutput > m.ContextWindow {
			inconsistent++
		}
	}
	if inconsistent > 0 {
		observability.FromContext(ctx).Warn("catalog entries with max_output above context_window",
			observability.Int("count", inconsistent))
	}
}
