package article

import (
	"errors"
	"net/http"

	"news-hub/internal/handler/http/respond"
	"news-hub/internal/usecase/news"
)

// GetHandler serves GET /api/articles/{id}.
type GetHandler struct{ Svc Service }

// ServeHTTP looks an article up by id, refilling the cache from providers on a miss.
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respond.Error(w, http.StatusNotFound, "Article not found")
		return
	}

	a, err := h.Svc.ArticleByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, news.ErrArticleNotFound) {
			respond.Error(w, http.StatusNotFound, "Article not found")
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.Cacheable(w, http.StatusOK, GetResponse{Data: ToDTO(a)})
}
