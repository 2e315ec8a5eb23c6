package article

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"news-hub/internal/common/pagination"
	"news-hub/internal/domain/entity"
)

// ParseSearchParams reads the article search query string.
// Blank values are treated as absent. A date-only "to" covers the whole day.
func ParseSearchParams(r *http.Request, cfg pagination.Config) (entity.SearchParams, error) {
	q := r.URL.Query()

	paging, err := pagination.ParseQueryParams(r, cfg)
	if err != nil {
		return entity.SearchParams{}, err
	}

	params := entity.SearchParams{
		Keyword:             strings.TrimSpace(q.Get("q")),
		Category:            strings.TrimSpace(q.Get("category")),
		Source:              strings.TrimSpace(q.Get("source")),
		Author:              strings.TrimSpace(q.Get("author")),
		Page:                paging.Page,
		PageSize:            paging.PageSize,
		PreferredSources:    splitList(q.Get("preferredSources")),
		PreferredCategories: splitList(q.Get("preferredCategories")),
		PreferredAuthors:    splitList(q.Get("preferredAuthors")),
	}

	if raw := strings.TrimSpace(q.Get("from")); raw != "" {
		if params.From, err = parseDate(raw, false); err != nil {
			return entity.SearchParams{}, fmt.Errorf("invalid from: %w", err)
		}
	}
	if raw := strings.TrimSpace(q.Get("to")); raw != "" {
		if params.To, err = parseDate(raw, true); err != nil {
			return entity.SearchParams{}, fmt.Errorf("invalid to: %w", err)
		}
	}

	if raw := q.Get("providers"); raw != "" {
		if params.Providers, err = entity.ParseProviderIDs(raw); err != nil {
			return entity.SearchParams{}, fmt.Errorf("invalid providers: %w", err)
		}
	}

	if err := params.Validate(); err != nil {
		return entity.SearchParams{}, err
	}
	return params, nil
}

// parseDate accepts RFC 3339 timestamps and YYYY-MM-DD dates.
func parseDate(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("must be an ISO-8601 date")
	}
	if endOfDay {
		return d.Add(24*time.Hour - time.Nanosecond), nil
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
