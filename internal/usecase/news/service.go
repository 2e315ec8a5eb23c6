package news

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"news-hub/internal/common/pagination"
	"news-hub/internal/domain/entity"
	"news-hub/internal/observability/metrics"
	"news-hub/internal/observability/tracing"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Config tunes the aggregator.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
	// OverfetchFactor multiplies the page size asked of each provider so that
	// deduplication and ranking work on a wider window than one page.
	OverfetchFactor int
	Priority        []entity.ProviderID
	Weights         RankWeights
	// RefillTimeout bounds the search that refills the cache on an ArticleByID miss.
	RefillTimeout time.Duration
	// Now is the clock used for freshness scoring.
	Now func() time.Time
}

// DefaultConfig returns the standard aggregator settings.
func DefaultConfig() Config {
	return Config{
		DefaultPageSize: 20,
		MaxPageSize:     50,
		OverfetchFactor: 3,
		Priority:        DefaultPriority,
		Weights:         DefaultRankWeights(),
		RefillTimeout:   40 * time.Second,
		Now:             time.Now,
	}
}

// Service aggregates the registered providers into one deduplicated, ranked, paginated feed.
//
// Thread safety: Service is safe for concurrent use. The article cache is the only
// shared mutable state.
type Service struct {
	providers []Provider
	cache     ArticleCache
	config    Config
	paging    pagination.Config
	refill    singleflight.Group
}

// NewService creates the aggregator. Providers keep their given order in statuses and
// category listings. A nil cache gets an unbounded MemoryCache without expiry.
func NewService(providers []Provider, cache ArticleCache, config Config) *Service {
	def := DefaultConfig()
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = def.DefaultPageSize
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = def.MaxPageSize
	}
	if config.OverfetchFactor <= 0 {
		config.OverfetchFactor = def.OverfetchFactor
	}
	if len(config.Priority) == 0 {
		config.Priority = def.Priority
	}
	if config.RefillTimeout <= 0 {
		config.RefillTimeout = def.RefillTimeout
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if cache == nil {
		cache = NewMemoryCache(0, 0)
	}

	return &Service{
		providers: providers,
		cache:     cache,
		config:    config,
		paging: pagination.Config{
			DefaultPage:     1,
			DefaultPageSize: config.DefaultPageSize,
			MaxPageSize:     config.MaxPageSize,
		},
	}
}

// Providers describes every registered provider.
func (s *Service) Providers() []ProviderInfo {
	out := make([]ProviderInfo, 0, len(s.providers))
	for _, p := range s.providers {
		out = append(out, ProviderInfo{ID: p.ID(), Name: p.Name(), Features: p.Features()})
	}
	return out
}

// Search queries every active provider in parallel and merges the outcomes.
//
// Provider failures never fail the search: they show up in Errors and as non-ok statuses,
// and Meta.Partial is set. Each provider is asked for page 1 of an over-fetched window;
// the requested page is cut from the merged, deduplicated and ranked list.
func (s *Service) Search(ctx context.Context, params entity.SearchParams) entity.PaginatedResult[entity.Article] {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "news.search",
		attribute.String("search.keyword", params.Keyword))
	defer span.End()

	page := pagination.Params{Page: params.Page, PageSize: params.PageSize}.WithDefaults(s.paging)

	upstream := params
	upstream.Page = 1
	upstream.PageSize = page.PageSize * s.config.OverfetchFactor

	active := s.active(params)
	results := s.fanOut(ctx, active, upstream)

	var merged []entity.Article
	statuses := make([]entity.ProviderStatusInfo, 0, len(active))
	errs := make([]entity.ProviderError, 0)
	for _, r := range results {
		merged = append(merged, r.Data...)
		statuses = append(statuses, r.Meta.ProviderStatuses...)
		errs = append(errs, r.Errors...)
	}

	s.cache.Put(merged...)

	deduped := Deduplicate(merged, s.config.Priority)
	ranked := Rank(deduped, params, s.config.Now(), s.config.Weights)
	data, window := pagination.Slice(ranked, page)

	partial := false
	statusLabels := make(map[string]string, len(statuses))
	for _, st := range statuses {
		statusLabels[string(st.Provider)] = string(st.Status)
		if st.Status != entity.StatusOK {
			partial = true
		}
	}
	metrics.RecordAggregation(time.Since(start), statusLabels, partial, len(merged)-len(deduped))

	span.SetAttributes(
		attribute.Int("search.providers", len(active)),
		attribute.Int("search.total", len(deduped)),
		attribute.Bool("search.partial", partial),
	)

	return entity.PaginatedResult[entity.Article]{
		Data: data,
		Meta: entity.ResultMeta{
			Page:             page.Page,
			PageSize:         page.PageSize,
			Total:            len(deduped),
			HasMore:          window.HasMore,
			Partial:          partial,
			ProviderStatuses: statuses,
		},
		Errors: errs,
	}
}

// Categories merges the categories of every provider. Failing providers contribute nothing.
func (s *Service) Categories(ctx context.Context) []entity.Category {
	lists := make([][]entity.Category, len(s.providers))

	var g errgroup.Group
	for i, p := range s.providers {
		g.Go(func() error {
			lists[i] = s.categoriesOne(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]entity.Category, 0)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// ArticleByID returns an article seen by a recent search.
//
// On a cache miss the owning provider is guessed from the "<provider>-" id prefix and a
// broad search over that provider refills the cache before a second lookup. The guess is
// approximate: an article absent from the provider's current results is not found even if
// it still exists upstream. Concurrent misses for the same scope share one refill, which
// keeps running when the caller that started it goes away and is bounded by RefillTimeout.
func (s *Service) ArticleByID(ctx context.Context, id string) (entity.Article, error) {
	if a, ok := s.cache.Get(id); ok {
		return a, nil
	}

	scope := s.scopeFor(id)
	key := "*"
	if scope != "" {
		key = string(scope)
	}
	_, _, _ = s.refill.Do(key, func() (any, error) {
		refillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.RefillTimeout)
		defer cancel()

		params := entity.SearchParams{PageSize: s.config.MaxPageSize}
		if scope != "" {
			params.Providers = []entity.ProviderID{scope}
		}
		s.Search(refillCtx, params)
		return nil, nil
	})

	if a, ok := s.cache.Get(id); ok {
		return a, nil
	}
	return entity.Article{}, fmt.Errorf("%w: %s", ErrArticleNotFound, id)
}

// Warm runs a default search to keep the article cache populated.
// It returns the number of articles fetched and whether any provider answered.
func (s *Service) Warm(ctx context.Context) (int, bool) {
	res := s.Search(ctx, entity.SearchParams{PageSize: s.config.MaxPageSize})
	ok := !res.AllProvidersDown()
	metrics.RecordCacheWarm(ok)
	return res.Meta.Total, ok
}

func (s *Service) active(params entity.SearchParams) []Provider {
	out := make([]Provider, 0, len(s.providers))
	for _, p := range s.providers {
		if params.WantsProvider(p.ID()) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Service) scopeFor(id string) entity.ProviderID {
	for _, p := range s.providers {
		if strings.HasPrefix(id, string(p.ID())+"-") {
			return p.ID()
		}
	}
	return ""
}

// fanOut runs every provider to completion. No provider is cancelled because another failed.
func (s *Service) fanOut(ctx context.Context, active []Provider, params entity.SearchParams) []entity.PaginatedResult[entity.Article] {
	results := make([]entity.PaginatedResult[entity.Article], len(active))

	var g errgroup.Group
	for i, p := range active {
		g.Go(func() error {
			results[i] = s.searchOne(ctx, p, params)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *Service) searchOne(ctx context.Context, p Provider, params entity.SearchParams) (res entity.PaginatedResult[entity.Article]) {
	id := p.ID()
	ctx, span := tracing.StartSpan(ctx, "provider.search", attribute.String("provider", string(id)))
	defer span.End()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("provider search panicked",
				slog.String("provider", string(id)),
				slog.Any("panic", r))
			res = FailedResult(id, entity.CodeUpstreamError, fmt.Sprintf("Provider %s failed unexpectedly", id))
		}
		res = withStatus(res, id, time.Since(start))

		status := res.Meta.ProviderStatuses[0].Status
		span.SetAttributes(attribute.String("provider.status", string(status)))
		if res.Failed() {
			tracing.RecordError(span, res.Errors[0])
		}
	}()

	return p.Search(ctx, params)
}

func (s *Service) categoriesOne(ctx context.Context, p Provider) (cats []entity.Category) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("provider categories panicked",
				slog.String("provider", string(p.ID())),
				slog.Any("panic", r))
			cats = nil
		}
	}()
	return p.Categories(ctx)
}

// withStatus leaves exactly one status for id with the measured wall-clock latency.
// A provider that reported none is "down" when it carries an error and "ok" otherwise.
func withStatus(res entity.PaginatedResult[entity.Article], id entity.ProviderID, elapsed time.Duration) entity.PaginatedResult[entity.Article] {
	status := entity.StatusOK
	if res.Failed() {
		status = entity.StatusDown
	}
	for _, st := range res.Meta.ProviderStatuses {
		if st.Provider == id {
			status = st.Status
			break
		}
	}
	res.Meta.ProviderStatuses = []entity.ProviderStatusInfo{{
		Provider:  id,
		Status:    status,
		LatencyMs: entity.Latency(elapsed.Milliseconds()),
	}}
	return res
}

// FailedResult builds the result a provider returns when its call failed.
func FailedResult(id entity.ProviderID, code entity.ErrorCode, message string) entity.PaginatedResult[entity.Article] {
	return entity.PaginatedResult[entity.Article]{
		Data: []entity.Article{},
		Meta: entity.ResultMeta{
			Page:             1,
			ProviderStatuses: []entity.ProviderStatusInfo{{Provider: id, Status: entity.StatusDown}},
		},
		Errors: []entity.ProviderError{{Provider: id, Code: code, Message: message}},
	}
}
