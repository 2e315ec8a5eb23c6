// Package resilience provides the fault tolerance used when calling upstream news providers.
//
// Subpackages:
//   - retry: bounded exponential backoff with jitter for retryable failures
//   - circuitbreaker: per-provider breakers so a failing upstream fails fast
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.ProviderAPIConfig("guardian"))
//	body, err := circuitbreaker.Execute(cb, func() ([]byte, error) {
//	    return callUpstream()
//	})
package resilience
