package httpserver

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers every route on a chi mux. A nil gatherer omits /metrics.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.HandleHealth)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/models", h.HandleModels)
		r.Post("/models/refresh", h.HandleRefresh)
		r.Delete("/models/cache", h.HandleInvalidate)
		r.Get("/providers", h.HandleProviders)

		r.Post("/estimate", h.HandleEstimate)
		r.Post("/estimate/export", h.HandleEstimateExport)
		r.Post("/compare", h.HandleCompare)
		r.Get("/recommendations", h.HandleRecommendations)
		r.Get("/use-cases", h.HandleUseCases)

		r.Route("/platforms", func(r chi.Router) {
			r.Get("/", h.HandlePlatforms)
			r.Get("/recommendations", h.HandlePlatformRecommendations)
			r.Post("/cost", h.HandleStackCost)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.HandleListScenarios)
			r.Post("/", h.HandleSaveScenario)
			r.Delete("/", h.HandleClearScenarios)
			r.Get("/delta", h.HandleScenarioDelta)
			r.Get("/export", h.HandleScenarioExport)
			r.Delete("/{id}", h.HandleDeleteScenario)
		})
	})

	return r
}
