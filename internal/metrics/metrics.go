// Package metrics exposes prometheus collectors for catalog loads and cost calculations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implements domain.MetricsRecorder on top of prometheus collectors.
type Recorder struct {
	sourceFetches *prometheus.CounterVec
	fetchLatency  *prometheus.HistogramVec
	catalogSize   *prometheus.GaugeVec
	calculations  *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		sourceFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "llmcost_catalog_source_fetches_total", Help: "Catalog source fetch attempts"},
			[]string{"source", "outcome"},
		),
		fetchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llmcost_catalog_source_fetch_seconds",
				Help:    "Catalog source fetch latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"source"},
		),
		catalogSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "llmcost_catalog_models", Help: "Models in the active catalog"},
			[]string{"source"},
		),
		calculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "llmcost_calculations_total", Help: "Cost engine calls"},
			[]string{"operation", "outcome"},
		),
	}

	for _, c := range []prometheus.Collector{r.sourceFetches, r.fetchLatency, r.catalogSize, r.calculations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// ObserveSourceFetch records one source attempt.
func (r *Recorder) ObserveSourceFetch(source, outcome string, elapsed time.Duration) {
	r.sourceFetches.WithLabelValues(source, outcome).Inc()
	r.fetchLatency.WithLabelValues(source).Observe(elapsed.Seconds())
}

// SetCatalogSize records the active catalog size. Only the latest source keeps a value.
func (r *Recorder) SetCatalogSize(source string, size int) {
	r.catalogSize.Reset()
	r.catalogSize.WithLabelValues(source).Set(float64(size))
}

// ObserveCalculation records one engine call.
func (r *Recorder) ObserveCalculation(operation, outcome string) {
	r.calculations.WithLabelValues(operation, outcome).Inc()
}
