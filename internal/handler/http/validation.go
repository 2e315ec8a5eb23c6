package http

import (
	"net/http"

	"news-hub/internal/handler/http/respond"
)

const (
	maxPathBytes  = 2 << 10
	maxQueryBytes = 4 << 10
	// the API is read-only, so bodies are never needed
	maxBodyBytes = 1 << 10
)

// InputValidation rejects oversized URIs before they reach query parsing and
// caps request bodies.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > maxPathBytes || len(r.URL.RawQuery) > maxQueryBytes {
				respond.Error(w, http.StatusRequestURITooLong, "URI too long")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			next.ServeHTTP(w, r)
		})
	}
}
