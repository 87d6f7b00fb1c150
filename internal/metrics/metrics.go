// Package metrics holds Prometheus instrumentation for rate resolution and
// the backfill pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles all collectors. Collectors register against the given
// registerer so tests can use an isolated registry.
type Metrics struct {
	// Per-provider adapter calls
	ProviderAttemptsTotal *prometheus.CounterVec
	ProviderFailuresTotal *prometheus.CounterVec
	ProviderCallDuration  *prometheus.HistogramVec

	// Whole resolutions
	ResolutionsTotal *prometheus.CounterVec

	// Backfill pipeline
	BackfillUnitsTotal *prometheus.CounterVec
	BackfillJobsTotal  *prometheus.CounterVec
}

// New creates and registers all collectors.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProviderAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxrates_provider_attempts_total",
				Help: "Adapter calls made, per provider",
			},
			[]string{"provider"},
		),
		ProviderFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxrates_provider_failures_total",
				Help: "Adapter failures, per provider and failure kind",
			},
			[]string{"provider", "kind"},
		),
		ProviderCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fxrates_provider_call_duration_seconds",
				Help:    "Adapter call latency, per provider",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		ResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxrates_resolutions_total",
				Help: "Rate resolutions, per outcome (success, exhausted)",
			},
			[]string{"outcome"},
		),
		BackfillUnitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxrates_backfill_units_total",
				Help: "Backfill fetch units, per outcome (success, failure)",
			},
			[]string{"outcome"},
		),
		BackfillJobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxrates_backfill_jobs_total",
				Help: "Backfill jobs, per terminal status",
			},
			[]string{"status"},
		),
	}
}
