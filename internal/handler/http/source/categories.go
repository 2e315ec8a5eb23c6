package source

import (
	"net/http"
	"strconv"

	"news-hub/internal/handler/http/respond"
	"news-hub/internal/usecase/news"
)

// CategoriesHandler serves GET /api/categories.
// With distinct=true, categories sharing a name across providers are collapsed.
type CategoriesHandler struct{ Svc Service }

func (h CategoriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	distinct := false
	if raw := r.URL.Query().Get("distinct"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid distinct: must be a boolean")
			return
		}
		distinct = v
	}

	cats := h.Svc.Categories(r.Context())
	if distinct {
		cats = news.DeduplicateCategories(cats)
	}

	out := make([]CategoryDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryDTO{ID: c.ID, Name: c.Name, Provider: string(c.Provider)})
	}
	respond.Cacheable(w, http.StatusOK, ListResponse[CategoryDTO]{Data: out})
}
