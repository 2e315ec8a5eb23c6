package source

import (
	"net/http"

	"news-hub/internal/handler/http/respond"
)

// ListHandler serves GET /api/sources. It never touches the network.
type ListHandler struct{ Svc Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	providers := h.Svc.Providers()
	out := make([]DTO, 0, len(providers))
	for _, p := range providers {
		features := make([]string, 0, len(p.Features))
		for _, f := range p.Features {
			features = append(features, string(f))
		}
		out = append(out, DTO{ID: string(p.ID), Name: p.Name, Features: features})
	}
	respond.Cacheable(w, http.StatusOK, ListResponse[DTO]{Data: out})
}
