package metrics

import (
	"time"
)

// Circuit breaker state values exported by CircuitBreakerState.
const (
	BreakerClosed   = 0
	BreakerHalfOpen = 1
	BreakerOpen     = 2
)

// RecordProviderRequest records one complete upstream call.
// outcome is "ok" on success, otherwise the provider error code.
// attempts counts every attempt, so attempts-1 retries are added.
func RecordProviderRequest(provider, outcome string, attempts int, duration time.Duration) {
	ProviderRequestsTotal.WithLabelValues(provider, outcome).Inc()
	ProviderRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if attempts > 1 {
		ProviderRetriesTotal.WithLabelValues(provider).Add(float64(attempts - 1))
	}
}

// RecordCircuitBreakerState records a breaker transition.
// to should be one of "closed", "half-open" or "open".
func RecordCircuitBreakerState(circuit, to string) {
	value := BreakerClosed
	switch to {
	case "half-open":
		value = BreakerHalfOpen
	case "open":
		value = BreakerOpen
	}
	CircuitBreakerState.WithLabelValues(circuit).Set(float64(value))
	CircuitBreakerTransitionsTotal.WithLabelValues(circuit, to).Inc()
}

// RecordAggregation records one aggregated search.
// statuses maps provider id to the status it reported.
func RecordAggregation(duration time.Duration, statuses map[string]string, partial bool, duplicatesRemoved int) {
	AggregationDuration.Observe(duration.Seconds())
	for provider, status := range statuses {
		ProviderStatusTotal.WithLabelValues(provider, status).Inc()
	}
	if partial {
		PartialResultsTotal.Inc()
	}
	if duplicatesRemoved > 0 {
		DuplicatesRemovedTotal.Add(float64(duplicatesRemoved))
	}
}

// RecordCacheLookup records the result of an article id lookup.
func RecordCacheLookup(result string) {
	ArticleCacheLookupsTotal.WithLabelValues(result).Inc()
}

// UpdateCacheEntries sets the current number of cached articles.
func UpdateCacheEntries(count int) {
	ArticleCacheEntries.Set(float64(count))
}

// RecordCacheWarm records a scheduled warm-up run.
func RecordCacheWarm(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	CacheWarmRunsTotal.WithLabelValues(result).Inc()
}
