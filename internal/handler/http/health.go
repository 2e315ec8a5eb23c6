// Package http provides the HTTP boundary of the aggregator: middleware,
// health endpoints and Prometheus metrics. Route handlers live in the
// article and source subpackages.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy", "degraded" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// BreakerReporter exposes per-provider circuit breaker states
// ("closed", "half-open", "open" or "disabled").
type BreakerReporter interface {
	BreakerStates() map[string]string
}

// HealthHandler reports whether providers are configured and reachable.
// An open breaker means calls to that provider fail fast without a network call.
type HealthHandler struct {
	Breakers BreakerReporter
	Version  string
	Now      func() time.Time
}

// ServeHTTP returns 200 while at least one provider can be called
// ("degraded" when some breakers are open), and 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	check := h.checkProviders()

	statusCode := http.StatusOK
	if check.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	response := HealthResponse{
		Status:    check.Status,
		Timestamp: now().UTC().Format(time.RFC3339),
		Checks:    map[string]CheckStatus{"providers": check},
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("health: failed to encode response", slog.Any("error", err))
	}
}

func (h *HealthHandler) checkProviders() CheckStatus {
	var states map[string]string
	if h.Breakers != nil {
		states = h.Breakers.BreakerStates()
	}
	if len(states) == 0 {
		return CheckStatus{Status: "unhealthy", Message: "no providers configured"}
	}

	var open []string
	details := make(map[string]any, len(states))
	for id, state := range states {
		details[id] = state
		if state == "open" {
			open = append(open, id)
		}
	}
	sort.Strings(open)

	switch {
	case len(open) == len(states):
		return CheckStatus{Status: "unhealthy", Message: "all provider circuit breakers are open", Details: details}
	case len(open) > 0:
		details["open"] = open
		return CheckStatus{Status: "degraded", Message: "some provider circuit breakers are open", Details: details}
	default:
		return CheckStatus{Status: "healthy", Details: details}
	}
}

// LiveHandler handles liveness checks.
// It performs a lightweight check to verify the process is responsive.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		slog.Error("alive: failed to write response", slog.Any("error", err))
	}
}
