// Package article provides HTTP handlers for the aggregated article endpoints.
package article

import (
	"time"

	"news-hub/internal/domain/entity"
)

// DTO is the wire shape of an article. Dates are ISO-8601 and optional
// fields are null rather than omitted.
type DTO struct {
	ID          string    `json:"id" example:"guardian-5f0c1e9a-8a51-5a43-9d39-2d3f0c0b8f11"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     *string   `json:"content"`
	Author      *string   `json:"author"`
	Source      SourceDTO `json:"source"`
	Category    *string   `json:"category"`
	PublishedAt string    `json:"publishedAt" example:"2025-10-26T10:00:00Z"`
	URL         string    `json:"url"`
	ImageURL    *string   `json:"imageUrl"`
	Provider    string    `json:"provider" example:"guardian"`
}

// SourceDTO is the publication an article came from.
type SourceDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// StatusDTO reports how one provider answered.
type StatusDTO struct {
	Provider  string `json:"provider"`
	Status    string `json:"status"`
	LatencyMs *int64 `json:"latencyMs"`
}

// ErrorDTO is a provider failure carried alongside partial data.
type ErrorDTO struct {
	Provider string `json:"provider"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// MetaDTO describes the page and how it was assembled.
type MetaDTO struct {
	Page             int         `json:"page"`
	PageSize         int         `json:"pageSize"`
	Total            int         `json:"total"`
	HasMore          bool        `json:"hasMore"`
	Partial          bool        `json:"partial"`
	ProviderStatuses []StatusDTO `json:"providerStatuses"`
}

// SearchResponse is the body of GET /api/articles.
type SearchResponse struct {
	Data   []DTO      `json:"data"`
	Meta   MetaDTO    `json:"meta"`
	Errors []ErrorDTO `json:"errors"`
}

// GetResponse is the body of GET /api/articles/{id}.
type GetResponse struct {
	Data DTO `json:"data"`
}

// ToDTO converts a domain article to its wire shape.
func ToDTO(a entity.Article) DTO {
	return DTO{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Content:     a.Content,
		Author:      a.Author,
		Source: SourceDTO{
			ID:       a.Source.ID,
			Name:     a.Source.Name,
			Provider: string(a.Source.Provider),
		},
		Category:    a.Category,
		PublishedAt: a.PublishedAt.UTC().Format(time.RFC3339),
		URL:         a.URL,
		ImageURL:    a.ImageURL,
		Provider:    string(a.Provider),
	}
}

// ToSearchResponse converts an aggregated result. Slices are never null on the wire.
func ToSearchResponse(res entity.PaginatedResult[entity.Article]) SearchResponse {
	out := SearchResponse{
		Data:   make([]DTO, 0, len(res.Data)),
		Errors: make([]ErrorDTO, 0, len(res.Errors)),
		Meta: MetaDTO{
			Page:             res.Meta.Page,
			PageSize:         res.Meta.PageSize,
			Total:            res.Meta.Total,
			HasMore:          res.Meta.HasMore,
			Partial:          res.Meta.Partial,
			ProviderStatuses: make([]StatusDTO, 0, len(res.Meta.ProviderStatuses)),
		},
	}
	for _, a := range res.Data {
		out.Data = append(out.Data, ToDTO(a))
	}
	for _, s := range res.Meta.ProviderStatuses {
		out.Meta.ProviderStatuses = append(out.Meta.ProviderStatuses, StatusDTO{
			Provider:  string(s.Provider),
			Status:    string(s.Status),
			LatencyMs: s.LatencyMs,
		})
	}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, ErrorDTO{
			Provider: string(e.Provider),
			Code:     string(e.Code),
			Message:  e.Message,
		})
	}
	return out
}
