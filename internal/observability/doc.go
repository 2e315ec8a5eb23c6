// Package observability groups the process-wide telemetry used by the aggregator.
//
// Subpackages:
//   - logging: slog construction and request-scoped loggers
//   - metrics: Prometheus collectors for provider calls, aggregation and the article cache
//   - tracing: OpenTelemetry provider setup, HTTP server spans and per-provider child spans
package observability
