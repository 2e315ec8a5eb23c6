// Package news implements the aggregation use cases: fan-out search across provider
// adapters, deduplication by canonical URL, preference-weighted ranking, pagination,
// and id lookup backed by an in-memory article cache.
package news

import "errors"

// Sentinel errors for news use case operations.
var (
	// ErrArticleNotFound indicates that no provider returned an article with the requested id,
	// even after refilling the cache.
	ErrArticleNotFound = errors.New("article not found")

	// ErrNoProviders indicates that the service was built without any provider adapter.
	ErrNoProviders = errors.New("no providers configured")
)
