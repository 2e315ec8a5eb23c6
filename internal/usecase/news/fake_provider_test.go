package news_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"news-hub/internal/domain/entity"
	"news-hub/internal/usecase/news"
)

// fakeProvider returns a scripted result and counts calls.
type fakeProvider struct {
	id          entity.ProviderID
	articles    []entity.Article
	fail        *entity.ProviderError
	status      entity.ProviderStatus
	categories  []entity.Category
	delay       time.Duration
	// honorCancel fails the search when ctx is done once the delay has elapsed.
	honorCancel bool
	panics      bool
	calls       atomic.Int32
	lastParams  atomic.Pointer[entity.SearchParams]
}

func (f *fakeProvider) ID() entity.ProviderID { return f.id }
func (f *fakeProvider) Name() string          { return "Fake " + string(f.id) }
func (f *fakeProvider) Features() []entity.Feature {
	return []entity.Feature{entity.FeatureKeywordSearch}
}
func (f *fakeProvider) Supports(feat entity.Feature) bool { return feat == entity.FeatureKeywordSearch }

func (f *fakeProvider) Search(ctx context.Context, params entity.SearchParams) entity.PaginatedResult[entity.Article] {
	f.calls.Add(1)
	f.lastParams.Store(&params)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.honorCancel && ctx.Err() != nil {
		return news.FailedResult(f.id, entity.CodeTimeout, ctx.Err().Error())
	}
	if f.panics {
		panic("boom")
	}
	if f.fail != nil {
		return news.FailedResult(f.id, f.fail.Code, f.fail.Message)
	}
	status := f.status
	if status == "" {
		status = entity.StatusOK
	}
	return entity.PaginatedResult[entity.Article]{
		Data: f.articles,
		Meta: entity.ResultMeta{
			Page:             1,
			PageSize:         params.PageSize,
			Total:            len(f.articles),
			ProviderStatuses: []entity.ProviderStatusInfo{{Provider: f.id, Status: status, LatencyMs: entity.Latency(99999)}},
		},
	}
}

func (f *fakeProvider) Categories(ctx context.Context) []entity.Category {
	if f.panics {
		panic("boom")
	}
	if f.fail != nil {
		return []entity.Category{}
	}
	return f.categories
}

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func article(provider entity.ProviderID, n int, url string, published time.Time) entity.Article {
	return entity.Article{
		ID:          fmt.Sprintf("%s-%04d", provider, n),
		Title:       fmt.Sprintf("Article %d", n),
		URL:         url,
		PublishedAt: published,
		Provider:    provider,
		Source:      entity.SourceInfo{ID: "src-" + string(provider), Name: "Source", Provider: provider},
	}
}

func articles(provider entity.ProviderID, count int) []entity.Article {
	out := make([]entity.Article, count)
	for i := range out {
		out[i] = article(provider, i, fmt.Sprintf("https://%s.example.com/story/%d", provider, i),
			baseTime.Add(-time.Duration(i)*time.Minute))
	}
	return out
}

func strPtr(s string) *string { return &s }
