package entity

import (
	"slices"
	"time"
)

// SearchParams carries the filters and personalization inputs for one search.
// Every field is optional; the zero value of a field means "no constraint".
type SearchParams struct {
	Keyword  string
	From     time.Time
	To       time.Time
	Category string
	Source   string
	Author   string

	// Page is 1-based.
	Page     int
	PageSize int

	// Providers restricts the query to a subset of the registered providers.
	Providers []ProviderID

	PreferredSources    []string
	PreferredCategories []string
	PreferredAuthors    []string
}

// HasPreferences reports whether any personalization list is non-empty.
func (p SearchParams) HasPreferences() bool {
	return len(p.PreferredSources) > 0 ||
		len(p.PreferredCategories) > 0 ||
		len(p.PreferredAuthors) > 0
}

// WantsProvider reports whether the provider is part of the requested subset.
// An empty subset selects every provider.
func (p SearchParams) WantsProvider(id ProviderID) bool {
	return len(p.Providers) == 0 || slices.Contains(p.Providers, id)
}
