package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"news-hub/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newsAPIBody = `{
  "status": "ok",
  "totalResults": 42,
  "articles": [
    {
      "source": {"id": "bbc-news", "name": "BBC News"},
      "author": "Jane Doe",
      "title": "Go 1.23 released",
      "description": "A new Go release",
      "url": "https://www.bbc.co.uk/news/go",
      "urlToImage": "https://img.example.com/go.png",
      "publishedAt": "2024-04-30T10:00:00Z",
      "content": "Full text"
    },
    {
      "source": {"id": null, "name": "The Daily   Planet"},
      "author": null,
      "title": "Local news",
      "description": null,
      "url": "https://planet.example.com/local",
      "urlToImage": null,
      "publishedAt": "2024-04-30T09:00:00Z",
      "content": null
    },
    {"source": {"id": null, "name": "X"}, "title": "[Removed]", "url": "https://removed.example.com", "publishedAt": "2024-04-30T09:00:00Z"},
    {"source": {"id": null, "name": "X"}, "title": "", "url": "https://empty.example.com", "publishedAt": "2024-04-30T09:00:00Z"}
  ]
}`

func TestNewsAPI_KeywordSearch(t *testing.T) {
	srv := newUpstream(t, jsonHandler(newsAPIBody))
	p := NewNewsAPI(testClient("newsapi"), "secret-key", srv.URL)

	res := p.Search(context.Background(), entity.SearchParams{
		Keyword:  "golang",
		From:     time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		Page:     2,
		PageSize: 10,
	})

	req := srv.last()
	require.NotNil(t, req)
	assert.Equal(t, "/everything", req.Path)
	q := req.Query()
	assert.Equal(t, "secret-key", q.Get("apiKey"))
	assert.Equal(t, "golang", q.Get("q"))
	assert.Equal(t, "2024-04-01", q.Get("from"))
	assert.Equal(t, "2024-04-30", q.Get("to"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "10", q.Get("pageSize"))
	assert.Equal(t, "en", q.Get("language"))
	assert.Empty(t, q.Get("country"))

	require.Empty(t, res.Errors)
	require.Len(t, res.Data, 2, "removed and untitled articles are dropped")
	assert.Equal(t, 42, res.Meta.Total)
	assert.True(t, res.Meta.HasMore)
	assert.Equal(t, entity.StatusOK, res.Meta.ProviderStatuses[0].Status)

	first := res.Data[0]
	assert.Equal(t, articleID(entity.ProviderNewsAPI, "https://www.bbc.co.uk/news/go"), first.ID)
	assert.Equal(t, "bbc-news", first.Source.ID)
	assert.Equal(t, "BBC News", first.Source.Name)
	assert.Nil(t, first.Category)
	require.NotNil(t, first.Author)
	assert.Equal(t, "Jane Doe", *first.Author)
	require.NotNil(t, first.ImageURL)
	assert.Equal(t, time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC), first.PublishedAt.UTC())

	second := res.Data[1]
	assert.Equal(t, "the-daily-planet", second.Source.ID)
	assert.Equal(t, "", second.Description)
	assert.Nil(t, second.Author)
	assert.Nil(t, second.Content)
	assert.Nil(t, second.ImageURL)
}

func TestNewsAPI_TopHeadlines(t *testing.T) {
	tests := []struct {
		name        string
		params      entity.SearchParams
		wantCountry string
		wantSources string
	}{
		{name: "no filters", params: entity.SearchParams{}, wantCountry: "us"},
		{name: "blank keyword", params: entity.SearchParams{Keyword: "   "}, wantCountry: "us"},
		{name: "source filter drops country", params: entity.SearchParams{Source: "bbc-news"}, wantSources: "bbc-news"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newUpstream(t, jsonHandler(`{"status":"ok","totalResults":0,"articles":[]}`))
			p := NewNewsAPI(testClient("newsapi"), "k", srv.URL)

			res := p.Search(context.Background(), tt.params)

			assert.Empty(t, res.Errors)
			assert.NotNil(t, res.Data)
			req := srv.last()
			assert.Equal(t, "/top-headlines", req.Path)
			assert.Equal(t, tt.wantCountry, req.Query().Get("country"))
			assert.Equal(t, tt.wantSources, req.Query().Get("sources"))
			assert.Empty(t, req.Query().Get("q"))
		})
	}
}

func TestNewsAPI_PageSizeCapped(t *testing.T) {
	srv := newUpstream(t, jsonHandler(`{"status":"ok","totalResults":0,"articles":[]}`))
	p := NewNewsAPI(testClient("newsapi"), "k", srv.URL)

	p.Search(context.Background(), entity.SearchParams{PageSize: 150})

	assert.Equal(t, "100", srv.last().Query().Get("pageSize"))
}

func TestNewsAPI_RateLimited(t *testing.T) {
	srv := newUpstream(t, statusHandler(http.StatusTooManyRequests))
	p := NewNewsAPI(testClient("newsapi"), "secret-key", srv.URL)

	res := p.Search(context.Background(), entity.SearchParams{Keyword: "x"})

	assert.Equal(t, int32(1), srv.hits.Load(), "rate limits are not retried")
	assert.Empty(t, res.Data)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, entity.CodeRateLimit, res.Errors[0].Code)
	assert.Equal(t, entity.ProviderNewsAPI, res.Errors[0].Provider)
	assert.NotContains(t, res.Errors[0].Message, "secret-key")
	assert.Equal(t, entity.StatusDown, res.Meta.ProviderStatuses[0].Status)
}

func TestNewsAPI_RetriedCallIsDegraded(t *testing.T) {
	srv := newUpstream(t, flakyHandler(1, jsonHandler(newsAPIBody)))
	p := NewNewsAPI(testClient("newsapi"), "k", srv.URL)

	res := p.Search(context.Background(), entity.SearchParams{})

	assert.Equal(t, int32(2), srv.hits.Load())
	assert.Empty(t, res.Errors)
	assert.Len(t, res.Data, 2)
	assert.Equal(t, entity.StatusDegraded, res.Meta.ProviderStatuses[0].Status)
}

func TestNewsAPI_ErrorPayload(t *testing.T) {
	srv := newUpstream(t, jsonHandler(`{"status":"error","code":"parametersMissing","message":"Required parameters are missing"}`))
	p := NewNewsAPI(testClient("newsapi"), "k", srv.URL)

	res := p.Search(context.Background(), entity.SearchParams{})

	require.Len(t, res.Errors, 1)
	assert.Equal(t, entity.CodeUpstreamError, res.Errors[0].Code)
	assert.Equal(t, "NewsAPI returned an error: parametersMissing", res.Errors[0].Message)
}

func TestNewsAPI_Categories(t *testing.T) {
	p := NewNewsAPI(testClient("newsapi"), "k", "")

	cats := p.Categories(context.Background())

	require.Len(t, cats, 7)
	assert.Equal(t, entity.Category{ID: "business", Name: "Business", Provider: entity.ProviderNewsAPI}, cats[0])
	for _, c := range cats {
		assert.Equal(t, strings.ToLower(c.Name), c.ID, fmt.Sprint(c))
	}
}

func TestNewsAPI_Features(t *testing.T) {
	p := NewNewsAPI(testClient("newsapi"), "k", "")

	assert.True(t, p.Supports(entity.FeatureSourceFilter))
	assert.False(t, p.Supports(entity.FeatureCategoryFilter))
	assert.False(t, p.Supports(entity.FeatureAuthorFilter))
}
