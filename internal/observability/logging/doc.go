// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for the logging patterns used throughout the service.
//
// Example usage:
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	func handleRequest(ctx context.Context) {
//	    logger := logging.WithRequestID(ctx, logging.FromContext(ctx))
//	    logger.Info("aggregating", slog.Int("providers", 3))
//	}
package logging
