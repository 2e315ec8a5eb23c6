package article

import (
	"context"
	"log/slog"
	"net/http"

	"news-hub/internal/common/pagination"
	"news-hub/internal/domain/entity"
)

// Service is the part of the aggregator the article routes need.
type Service interface {
	Search(ctx context.Context, params entity.SearchParams) entity.PaginatedResult[entity.Article]
	ArticleByID(ctx context.Context, id string) (entity.Article, error)
}

// Register registers the article routes with the given mux.
func Register(mux *http.ServeMux, svc Service, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET /api/articles", ListHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	mux.Handle("GET /api/articles/{id}", GetHandler{Svc: svc})
}
