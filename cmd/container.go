package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/llmcost/internal/cache/memory"
	"github.com/davidbz/llmcost/internal/cache/redis"
	"github.com/davidbz/llmcost/internal/config"
	"github.com/davidbz/llmcost/internal/domain"
	"github.com/davidbz/llmcost/internal/httpserver"
	"github.com/davidbz/llmcost/internal/httpserver/middleware"
	"github.com/davidbz/llmcost/internal/metrics"
	"github.com/davidbz/llmcost/internal/observability"
	"github.com/davidbz/llmcost/internal/reference"
	"github.com/davidbz/llmcost/internal/source/builtin"
	"github.com/davidbz/llmcost/internal/source/litellm"
	"github.com/davidbz/llmcost/internal/source/openrouter"
	"github.com/davidbz/llmcost/internal/source/registry"
)

// buildContainer wires every component. Providers are lazy, so commands only
// construct what they invoke.
func buildContainer() (*dig.Container, error) {
	container := dig.New()

	providers := []struct {
		name        string
		constructor any
	}{
		// Configuration
		{"config", config.Load},
		{"config dependencies", config.ParseDependenciesConfig},

		// Observability
		{"logger", observability.InitLogger},
		{"metrics registry", newMetricsRegistry},
		{"metrics recorder", metrics.NewRecorder},
		{"metrics recorder binding", func(r *metrics.Recorder) domain.MetricsRecorder { return r }},

		// Catalog
		{"catalog sources", newCatalogSources},
		{"catalog cache", newCatalogCache},
		{"catalog service", newCatalogService},
		{"catalog loader binding", func(s *domain.CatalogService) domain.CatalogLoader { return s }},

		// Domain Services
		{"scenario store", func() *domain.ScenarioStore { return domain.NewScenarioStore(nil) }},
		{"calculator service", domain.NewCalculatorService},
		{"reference data", reference.Load},

		// HTTP Layer
		{"middleware chain", middleware.BuildMiddlewareChain},
		{"HTTP handler", httpserver.NewHandler},
		{"HTTP server", httpserver.NewServer},
	}

	for _, p := range providers {
		if err := container.Provide(p.constructor); err != nil {
			return nil, fmt.Errorf("failed to provide %s: %w", p.name, err)
		}
	}

	return container, nil
}

// newMetricsRegistry returns a registry exposed both for registration and scraping.
func newMetricsRegistry() (prometheus.Registerer, prometheus.Gatherer) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, reg
}

// newCatalogSources registers the enabled remote sources in fallback order.
func newCatalogSources(
	logger *zap.Logger,
	litellmCfg *litellm.Config,
	openrouterCfg *openrouter.Config,
) ([]domain.CatalogSource, error) {
	reg := registry.NewRegistry()

	if litellmCfg.Enabled {
		src, err := litellm.NewSource(*litellmCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create LiteLLM source: %w", err)
		}
		if err := reg.Register(src); err != nil {
			return nil, fmt.Errorf("failed to register LiteLLM source: %w", err)
		}
	}

	if openrouterCfg.Enabled {
		src, err := openrouter.NewSource(*openrouterCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenRouter source: %w", err)
		}
		if err := reg.Register(src); err != nil {
			return nil, fmt.Errorf("failed to register OpenRouter source: %w", err)
		}
	}

	logger.Info("catalog sources registered", observability.Strings("order", reg.List()))

	return reg.Sources(), nil
}

func newCatalogCache(catalogCfg *config.CatalogConfig, redisCfg *redis.Config) (domain.CatalogCache, error) {
	switch catalogCfg.CacheBackend {
	case config.CacheBackendMemory:
		return memory.NewCatalogCache(), nil
	case config.CacheBackendRedis:
		cache, err := redis.NewCatalogCache(
			redis.NewClient(*redisCfg),
			redisCfg.Key,
			time.Duration(redisCfg.TTL)*time.Second,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis catalog cache: %w", err)
		}
		return cache, nil
	default:
		return nil, fmt.Errorf("unknown catalog cache backend %q", catalogCfg.CacheBackend)
	}
}

func newCatalogService(
	sources []domain.CatalogSource,
	cache domain.CatalogCache,
	cfg *config.CatalogConfig,
	recorder domain.MetricsRecorder,
) *domain.CatalogService {
	return domain.NewCatalogService(
		sources,
		builtin.NewSource(),
		cache,
		time.Duration(cfg.FetchTimeout)*time.Second,
		recorder,
	)
}
