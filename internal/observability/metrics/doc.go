// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the domain metrics of the aggregator:
//   - Upstream provider calls (outcome, duration, retries)
//   - Circuit breaker state
//   - Aggregated searches (duration, provider statuses, partial results, duplicates)
//   - The article id cache and its scheduled warm-up
//
// HTTP server metrics live next to the HTTP middleware that records them.
// All metrics are registered with the Prometheus default registry and exposed via /metrics.
//
// Example usage:
//
//	start := time.Now()
//	info, err := client.GetJSON(ctx, url, &payload)
//	metrics.RecordProviderRequest("guardian", "ok", info.Attempts, time.Since(start))
package metrics
