// Package metrics holds Prometheus instruments that are used across
// datadict.  All collectors are registered with the global registry, so
// mounting promhttp.Handler() is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Validations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datadict_validations_total",
			Help: "Validators constructed, by construction mode.",
		}, []string{"mode"})

	Degraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datadict_degraded_total",
			Help: "Validators or files that fell back to neutral output, by reason.",
		}, []string{"reason"})

	IntegrityErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "datadict_integrity_errors_total",
			Help: "Cumulative number of specifications rejected as inconsistent.",
		})

	SpecfileLoads = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "specfile_loads_total",
			Help: "Cumulative number of specification files read from disk.",
		})

	SpecfileLoadErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "specfile_load_errors_total",
			Help: "Cumulative number of specification file load errors.",
		})

	SpecfileCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "specfile_cache_hits_total",
			Help: "Collection lookups served from the in-memory cache.",
		})

	CachedCollections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "specfile_cached_collections",
			Help: "Number of specification collections currently cached.",
		})
)

func init() {
	prometheus.MustRegister(
		Validations,
		Degraded,
		IntegrityErrors,
		SpecfileLoads,
		SpecfileLoadErrors,
		SpecfileCacheHits,
		CachedCollections,
	)
}
