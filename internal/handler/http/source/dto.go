// Package source provides HTTP handlers for the provider catalog:
// the registered providers and the categories they publish.
package source

// DTO describes a registered provider.
type DTO struct {
	ID       string   `json:"id" example:"guardian"`
	Name     string   `json:"name" example:"The Guardian"`
	Features []string `json:"features"`
}

// CategoryDTO is one category as reported by a provider.
type CategoryDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// ListResponse wraps catalog lists in a data envelope.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}
