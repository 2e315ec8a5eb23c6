package source

import (
	"context"
	"net/http"

	"news-hub/internal/domain/entity"
	"news-hub/internal/usecase/news"
)

// Service is the part of the aggregator the catalog routes need.
type Service interface {
	Providers() []news.ProviderInfo
	Categories(ctx context.Context) []entity.Category
}

// Register registers the catalog routes with the given mux.
func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("GET /api/sources", ListHandler{svc})
	mux.Handle("GET /api/categories", CategoriesHandler{svc})
}
