package entity

import "fmt"

// ProviderStatus is the health of a provider as observed during one call.
type ProviderStatus string

// Provider statuses.
const (
	StatusOK       ProviderStatus = "ok"
	StatusDegraded ProviderStatus = "degraded"
	StatusDown     ProviderStatus = "down"
)

// ErrorCode classifies a provider failure.
type ErrorCode string

// Error codes.
const (
	// CodeTimeout means an attempt exceeded its deadline.
	CodeTimeout ErrorCode = "TIMEOUT"
	// CodeRateLimit means the upstream explicitly throttled the call. Never retried.
	CodeRateLimit ErrorCode = "RATE_LIMIT"
	// CodeUpstreamError covers every other non-success response or transport failure.
	CodeUpstreamError ErrorCode = "UPSTREAM_ERROR"
)

// ProviderStatusInfo reports one provider's outcome and wall-clock latency.
type ProviderStatusInfo struct {
	Provider  ProviderID
	Status    ProviderStatus
	LatencyMs *int64
}

// ProviderError is the structured failure attached to a result when a provider call fails.
type ProviderError struct {
	Provider ProviderID
	Code     ErrorCode
	Message  string
}

func (e ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Code, e.Message)
}

// ResultMeta describes the page returned in a PaginatedResult.
type ResultMeta struct {
	Page     int
	PageSize int
	// Total is the number of items available across the fetched window,
	// which is not necessarily the true upstream total.
	Total            int
	HasMore          bool
	Partial          bool
	ProviderStatuses []ProviderStatusInfo
}

// PaginatedResult is the envelope returned by provider searches and by the aggregator.
// A failed provider call is represented as an empty Data slice plus one entry in Errors,
// never as a Go error.
type PaginatedResult[T any] struct {
	Data   []T
	Meta   ResultMeta
	Errors []ProviderError
}

// Failed reports whether the result carries any provider error.
func (r PaginatedResult[T]) Failed() bool {
	return len(r.Errors) > 0
}

// AllProvidersDown reports whether every provider that took part was down
// and nothing was returned. It is false when no provider took part at all.
func (r PaginatedResult[T]) AllProvidersDown() bool {
	if len(r.Data) > 0 || len(r.Meta.ProviderStatuses) == 0 {
		return false
	}
	for _, s := range r.Meta.ProviderStatuses {
		if s.Status != StatusDown {
			return false
		}
	}
	return true
}

// Latency converts milliseconds into the nullable form used by ProviderStatusInfo.
func Latency(ms int64) *int64 {
	return &ms
}
