// Package respond writes JSON responses for the HTTP layer.
// Error bodies are sanitized so upstream credentials never reach clients or logs.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// CacheControl is the caching policy for aggregated data routes.
const CacheControl = "public, s-maxage=300, stale-while-revalidate=60"

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// headers are already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Cacheable writes a JSON response that shared caches may keep for a while.
func Cacheable(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Cache-Control", CacheControl)
	JSON(w, code, v)
}

// Error writes a JSON error response with the given status code and message.
func Error(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, map[string]string{"error": msg})
}

// safeFragments mark messages that describe a client mistake and can be echoed back.
var safeFragments = []string{
	"required",
	"invalid",
	"not found",
	"must be",
	"unknown provider",
	"exceeded",
	"too long",
}

// SafeError returns err's message when it describes a client mistake.
// Everything else, and every 5xx, becomes "internal server error" with the
// sanitized detail logged.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	msg := err.Error()
	isSafe := false
	if code < 500 {
		lower := strings.ToLower(msg)
		for _, f := range safeFragments {
			if strings.Contains(lower, f) {
				isSafe = true
				break
			}
		}
	}

	if isSafe {
		Error(w, code, msg)
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	Error(w, code, "internal server error")
}
