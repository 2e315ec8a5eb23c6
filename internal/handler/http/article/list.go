package article

import (
	"log/slog"
	"net/http"

	"news-hub/internal/common/pagination"
	"news-hub/internal/handler/http/respond"
	"news-hub/internal/observability/logging"
)

// ListHandler serves GET /api/articles.
type ListHandler struct {
	Svc           Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP aggregates one page of articles across the requested providers.
// Partial results are still 200; only "every provider down and no data" is 502.
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params, err := ParseSearchParams(r, h.PaginationCfg)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	res := h.Svc.Search(r.Context(), params)

	status := http.StatusOK
	if res.AllProvidersDown() {
		status = http.StatusBadGateway
	}
	if res.Meta.Partial {
		h.logger(r).Warn("partial article results",
			slog.Int("status", status),
			slog.Int("failed_providers", len(res.Errors)),
			slog.Int("total", res.Meta.Total))
	}

	pagination.RecordRequest(status, pagination.Params{Page: res.Meta.Page, PageSize: res.Meta.PageSize})
	respond.Cacheable(w, status, ToSearchResponse(res))
}

func (h ListHandler) logger(r *http.Request) *slog.Logger {
	if h.Logger != nil {
		return logging.WithRequestID(r.Context(), h.Logger)
	}
	return logging.FromContext(r.Context())
}
