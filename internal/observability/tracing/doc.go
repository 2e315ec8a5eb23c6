// Package tracing provides OpenTelemetry tracing integration.
//
// Every inbound HTTP request gets a server span, and the aggregator opens one
// child span per provider call so a slow upstream is visible in the trace.
//
// Example usage:
//
//	tp := tracing.Setup("news-hub", version)
//	defer func() { _ = tp.Shutdown(context.Background()) }()
//
//	func search(ctx context.Context) {
//	    ctx, span := tracing.StartSpan(ctx, "provider.search", attribute.String("provider", "nyt"))
//	    defer span.End()
//	}
package tracing
