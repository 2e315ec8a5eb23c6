// Package provider implements the upstream news adapters: NewsAPI, The Guardian,
// The New York Times and generic RSS/Atom feeds. Every adapter talks to its upstream
// through a fetcher.Client and converts each failure into a structured result.
package provider

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"news-hub/internal/domain/entity"
	"news-hub/internal/infra/fetcher"

	"github.com/google/uuid"
)

// Fetcher is the subset of fetcher.Client the adapters depend on.
type Fetcher interface {
	GetJSON(ctx context.Context, rawURL string, out any) (fetcher.CallInfo, error)
	GetRaw(ctx context.Context, rawURL string) ([]byte, fetcher.CallInfo, error)
}

// removedTitle marks articles withdrawn by the publisher.
const removedTitle = "[Removed]"

// articleID derives a stable id from a provider-native key.
func articleID(provider entity.ProviderID, key string) string {
	return string(provider) + "-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

func keepTitle(title string) bool {
	return title != "" && title != removedTitle
}

var whitespace = regexp.MustCompile(`\s+`)

// slug lowercases s and joins its words with hyphens.
func slug(s string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
}

// optional returns nil for an empty string.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseTime accepts RFC 3339 timestamps, with or without fractional seconds,
// and the "+0000" offset style some upstreams use.
func parseTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05-0700", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatDateTime renders a date filter. Midnight values are sent as plain dates.
func formatDateTime(t time.Time) string {
	t = t.UTC()
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

func defaultPaging(params entity.SearchParams, defaultSize, maxSize int) (page, pageSize int) {
	page, pageSize = params.Page, params.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if maxSize > 0 && pageSize > maxSize {
		pageSize = maxSize
	}
	return page, pageSize
}

// success wraps a page of articles. A call that needed retries reports degraded.
func success(id entity.ProviderID, articles []entity.Article, page, pageSize, total int, info fetcher.CallInfo) entity.PaginatedResult[entity.Article] {
	status := entity.StatusOK
	if info.Retried() {
		status = entity.StatusDegraded
	}
	if articles == nil {
		articles = []entity.Article{}
	}
	return entity.PaginatedResult[entity.Article]{
		Data: articles,
		Meta: entity.ResultMeta{
			Page:             page,
			PageSize:         pageSize,
			Total:            total,
			HasMore:          page*pageSize < total,
			ProviderStatuses: []entity.ProviderStatusInfo{{Provider: id, Status: status}},
		},
		Errors: []entity.ProviderError{},
	}
}

// failure converts a fetch error into the structured empty result.
func failure(id entity.ProviderID, name string, page, pageSize int, err error) entity.PaginatedResult[entity.Article] {
	return entity.PaginatedResult[entity.Article]{
		Data: []entity.Article{},
		Meta: entity.ResultMeta{
			Page:             page,
			PageSize:         pageSize,
			ProviderStatuses: []entity.ProviderStatusInfo{{Provider: id, Status: entity.StatusDown}},
		},
		Errors: []entity.ProviderError{providerError(id, name, err)},
	}
}

func providerError(id entity.ProviderID, name string, err error) entity.ProviderError {
	var fe *fetcher.Error
	if !errors.As(err, &fe) || fe.Message == "" {
		return entity.ProviderError{Provider: id, Code: entity.CodeUpstreamError, Message: "Unknown error from " + name}
	}
	return entity.ProviderError{Provider: id, Code: fe.Code, Message: fe.Message}
}

// upstreamError is a failure reported inside an otherwise successful response body.
func upstreamError(name, detail string) error {
	msg := name + " returned an error"
	if detail != "" {
		msg += ": " + detail
	}
	return &fetcher.Error{Code: entity.CodeUpstreamError, Message: msg}
}
