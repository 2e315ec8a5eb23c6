package news

import (
	"context"

	"news-hub/internal/domain/entity"
)

// Provider is the contract every upstream adapter fulfils.
//
// Search never returns a Go error: a failed call is an empty result carrying exactly one
// ProviderError and a single "down" status. Categories is best-effort and returns an empty
// slice on failure.
type Provider interface {
	ID() entity.ProviderID
	Name() string
	Features() []entity.Feature
	Supports(f entity.Feature) bool
	Search(ctx context.Context, params entity.SearchParams) entity.PaginatedResult[entity.Article]
	Categories(ctx context.Context) []entity.Category
}

// ProviderInfo describes a registered provider without touching the network.
type ProviderInfo struct {
	ID       entity.ProviderID
	Name     string
	Features []entity.Feature
}
