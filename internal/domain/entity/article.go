// Package entity defines the core domain types shared by the aggregation pipeline:
// articles and categories produced by provider adapters, the search parameters that
// drive a query, and the paginated result envelope returned to callers.
package entity

import (
	"slices"
	"time"
)

// ProviderID identifies an upstream news provider.
type ProviderID string

// Known providers.
const (
	ProviderNewsAPI  ProviderID = "newsapi"
	ProviderGuardian ProviderID = "guardian"
	ProviderNYT      ProviderID = "nyt"
	ProviderRSS      ProviderID = "rss"
)

// KnownProviders lists every provider id the system can construct an adapter for.
var KnownProviders = []ProviderID{ProviderNewsAPI, ProviderGuardian, ProviderNYT, ProviderRSS}

// IsKnown reports whether id names a supported provider.
func (id ProviderID) IsKnown() bool {
	return slices.Contains(KnownProviders, id)
}

// Feature is a query capability a provider may or may not offer.
type Feature string

// Provider features.
const (
	FeatureKeywordSearch  Feature = "keyword_search"
	FeatureDateFilter     Feature = "date_filter"
	FeatureCategoryFilter Feature = "category_filter"
	FeatureAuthorFilter   Feature = "author_filter"
	FeatureSourceFilter   Feature = "source_filter"
	FeaturePagination     Feature = "pagination"
)

// SourceInfo describes the publication an article came from.
type SourceInfo struct {
	ID       string
	Name     string
	Provider ProviderID
}

// Article is a news article normalized from a provider response.
// Articles are built once by an adapter and treated as read-only afterwards.
type Article struct {
	ID          string
	Title       string
	Description string
	Content     *string
	Author      *string
	Source      SourceInfo
	Category    *string
	PublishedAt time.Time
	URL         string
	ImageURL    *string
	Provider    ProviderID
}

// Category is a topic or section exposed by a provider.
type Category struct {
	ID       string
	Name     string
	Provider ProviderID
}
