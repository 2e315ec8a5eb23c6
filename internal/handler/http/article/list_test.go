package article_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-hub/internal/common/pagination"
	"news-hub/internal/domain/entity"
	"news-hub/internal/handler/http/article"
	"news-hub/internal/usecase/news"
)

type stubService struct {
	mu       sync.Mutex
	result   entity.PaginatedResult[entity.Article]
	articles map[string]entity.Article
	params   *entity.SearchParams
	err      error
}

func (s *stubService) Search(_ context.Context, params entity.SearchParams) entity.PaginatedResult[entity.Article] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = &params
	return s.result
}

func (s *stubService) ArticleByID(_ context.Context, id string) (entity.Article, error) {
	if s.err != nil {
		return entity.Article{}, s.err
	}
	if a, ok := s.articles[id]; ok {
		return a, nil
	}
	return entity.Article{}, news.ErrArticleNotFound
}

func newMux(svc article.Service) *http.ServeMux {
	mux := http.NewServeMux()
	article.Register(mux, svc, pagination.DefaultConfig(), nil)
	return mux
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func strPtr(s string) *string { return &s }

var published = time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

func sampleArticle() entity.Article {
	return entity.Article{
		ID:          "guardian-1",
		Title:       "Rates held",
		Description: "The bank kept rates unchanged",
		Author:      strPtr("Jane Doe"),
		Source:      entity.SourceInfo{ID: "the-guardian", Name: "The Guardian", Provider: entity.ProviderGuardian},
		Category:    strPtr("business"),
		PublishedAt: published,
		URL:         "https://www.theguardian.com/business/rates",
		Provider:    entity.ProviderGuardian,
	}
}

func okResult(articles ...entity.Article) entity.PaginatedResult[entity.Article] {
	return entity.PaginatedResult[entity.Article]{
		Data: articles,
		Meta: entity.ResultMeta{
			Page: 1, PageSize: 20, Total: len(articles),
			ProviderStatuses: []entity.ProviderStatusInfo{
				{Provider: entity.ProviderGuardian, Status: entity.StatusOK, LatencyMs: entity.Latency(42)},
			},
		},
		Errors: []entity.ProviderError{},
	}
}

func TestListHandler_Success(t *testing.T) {
	svc := &stubService{result: okResult(sampleArticle())}

	rec := get(t, newMux(svc), "/api/articles?q=rates")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, s-maxage=300, stale-while-revalidate=60", rec.Header().Get("Cache-Control"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	data := body["data"].([]any)
	require.Len(t, data, 1)
	first := data[0].(map[string]any)
	assert.Equal(t, "guardian-1", first["id"])
	assert.Equal(t, "2025-03-01T12:30:00Z", first["publishedAt"])
	assert.Nil(t, first["imageUrl"])
	assert.Nil(t, first["content"])
	assert.Equal(t, "Jane Doe", first["author"])
	assert.Equal(t, map[string]any{"id": "the-guardian", "name": "The Guardian", "provider": "guardian"}, first["source"])

	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["page"])
	assert.Equal(t, false, meta["partial"])
	statuses := meta["providerStatuses"].([]any)
	assert.Equal(t, map[string]any{"provider": "guardian", "status": "ok", "latencyMs": float64(42)}, statuses[0])
	assert.Equal(t, []any{}, body["errors"])
}

func TestListHandler_ParsesQuery(t *testing.T) {
	svc := &stubService{result: okResult()}

	rec := get(t, newMux(svc), "/api/articles?q=%20climate%20&from=2025-01-01&to=2025-01-31"+
		"&category=science&source=bbc-news&author=Smith&page=2&pageSize=10"+
		"&providers=guardian,NYT&preferredSources=bbc-news,%20cnn&preferredCategories=science"+
		"&preferredAuthors=Smith")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.params)

	want := entity.SearchParams{
		Keyword:             "climate",
		From:                time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:                  time.Date(2025, 1, 31, 23, 59, 59, 999999999, time.UTC),
		Category:            "science",
		Source:              "bbc-news",
		Author:              "Smith",
		Page:                2,
		PageSize:            10,
		Providers:           []entity.ProviderID{entity.ProviderGuardian, entity.ProviderNYT},
		PreferredSources:    []string{"bbc-news", "cnn"},
		PreferredCategories: []string{"science"},
		PreferredAuthors:    []string{"Smith"},
	}
	if diff := cmp.Diff(want, *svc.params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestListHandler_Defaults(t *testing.T) {
	svc := &stubService{result: okResult()}

	rec := get(t, newMux(svc), "/api/articles?pageSize=500&from=2025-01-01T08:00:00%2B02:00")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.params.Page)
	assert.Equal(t, 50, svc.params.PageSize)
	assert.Equal(t, time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC), svc.params.From)
	assert.Empty(t, svc.params.Providers)
}

func TestListHandler_BadRequest(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr string
	}{
		{
			name:    "page not a number",
			query:   "page=abc",
			wantErr: "invalid query parameter: page must be a positive integer",
		},
		{
			name:    "zero page size",
			query:   "pageSize=0",
			wantErr: "invalid query parameter: pageSize must be a positive integer",
		},
		{
			name:    "unknown provider",
			query:   "providers=guardian,bbc",
			wantErr: `invalid providers: unknown provider "bbc"`,
		},
		{
			name:    "malformed date",
			query:   "from=yesterday",
			wantErr: "invalid from: must be an ISO-8601 date",
		},
		{
			name:    "reversed range",
			query:   "from=2025-02-01&to=2025-01-01",
			wantErr: "invalid date range: from must be before or equal to to",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{result: okResult()}

			rec := get(t, newMux(svc), "/api/articles?"+tt.query)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantErr, body["error"])
			assert.Nil(t, svc.params, "service must not be called")
		})
	}
}

func TestListHandler_AllProvidersDown(t *testing.T) {
	svc := &stubService{result: entity.PaginatedResult[entity.Article]{
		Data: []entity.Article{},
		Meta: entity.ResultMeta{
			Page: 1, PageSize: 20, Partial: true,
			ProviderStatuses: []entity.ProviderStatusInfo{
				{Provider: entity.ProviderGuardian, Status: entity.StatusDown, LatencyMs: entity.Latency(10)},
				{Provider: entity.ProviderNYT, Status: entity.StatusDown, LatencyMs: entity.Latency(12)},
			},
		},
		Errors: []entity.ProviderError{
			{Provider: entity.ProviderGuardian, Code: entity.CodeTimeout, Message: "Request to The Guardian timed out"},
			{Provider: entity.ProviderNYT, Code: entity.CodeRateLimit, Message: "Rate limited by New York Times"},
		},
	}}

	rec := get(t, newMux(svc), "/api/articles")

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var body article.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Data)
	require.Len(t, body.Errors, 2)
	assert.Equal(t, article.ErrorDTO{Provider: "guardian", Code: "TIMEOUT", Message: "Request to The Guardian timed out"}, body.Errors[0])
	assert.True(t, body.Meta.Partial)
}

func TestListHandler_PartialIsOK(t *testing.T) {
	res := okResult(sampleArticle())
	res.Meta.Partial = true
	res.Meta.ProviderStatuses = append(res.Meta.ProviderStatuses,
		entity.ProviderStatusInfo{Provider: entity.ProviderNYT, Status: entity.StatusDown, LatencyMs: entity.Latency(5)})
	res.Errors = []entity.ProviderError{{Provider: entity.ProviderNYT, Code: entity.CodeUpstreamError, Message: "New York Times returned an error"}}
	svc := &stubService{result: res}

	rec := get(t, newMux(svc), "/api/articles")

	require.Equal(t, http.StatusOK, rec.Code)
	var body article.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Len(t, body.Errors, 1)
	assert.True(t, body.Meta.Partial)
}

func TestListHandler_NoProvidersIsEmptyOK(t *testing.T) {
	svc := &stubService{result: entity.PaginatedResult[entity.Article]{
		Meta: entity.ResultMeta{Page: 1, PageSize: 20},
	}}

	rec := get(t, newMux(svc), "/api/articles")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []any{}, body["data"])
	assert.Equal(t, []any{}, body["errors"])
	assert.Equal(t, []any{}, body["meta"].(map[string]any)["providerStatuses"])
}
