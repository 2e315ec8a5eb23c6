// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider metrics track upstream calls made through the resilient fetcher
var (
	// ProviderRequestsTotal counts upstream calls by provider and outcome.
	// outcome is "ok" or one of the provider error codes.
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of upstream provider calls",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderRequestDuration measures a complete call including retries
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Upstream provider call duration in seconds, retries included",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"provider"},
	)

	// ProviderRetriesTotal counts extra attempts spent on transient failures
	ProviderRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_retries_total",
			Help: "Total number of retry attempts against upstream providers",
		},
		[]string{"provider"},
	)

	// CircuitBreakerState reports breaker state per circuit: 0 closed, 1 half-open, 2 open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"circuit"},
	)

	// CircuitBreakerTransitionsTotal counts state changes per circuit
	CircuitBreakerTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"circuit", "to"},
	)
)

// Aggregation metrics track the fan-out search pipeline
var (
	// AggregationDuration measures one aggregated search end to end
	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aggregation_duration_seconds",
			Help:    "Aggregated search duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 40},
		},
	)

	// ProviderStatusTotal counts per-search provider outcomes
	ProviderStatusTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregation_provider_status_total",
			Help: "Provider statuses observed during aggregated searches",
		},
		[]string{"provider", "status"},
	)

	// PartialResultsTotal counts searches where at least one provider was not ok
	PartialResultsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aggregation_partial_results_total",
			Help: "Total number of aggregated searches returning partial results",
		},
	)

	// DuplicatesRemovedTotal counts articles collapsed by URL deduplication
	DuplicatesRemovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aggregation_duplicates_removed_total",
			Help: "Total number of duplicate articles removed",
		},
	)
)

// Cache metrics track the article id cache
var (
	// ArticleCacheEntries is the current number of cached articles
	ArticleCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "article_cache_entries",
			Help: "Number of articles held in the id cache",
		},
	)

	// ArticleCacheLookupsTotal counts id lookups by result (hit, miss, refill_hit, not_found)
	ArticleCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_cache_lookups_total",
			Help: "Total number of article id lookups",
		},
		[]string{"result"},
	)

	// CacheWarmRunsTotal counts scheduled warm-up runs by result
	CacheWarmRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_warm_runs_total",
			Help: "Total number of scheduled cache warm-up runs",
		},
		[]string{"result"},
	)
)
