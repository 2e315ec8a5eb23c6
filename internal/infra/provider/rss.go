package provider

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"news-hub/internal/domain/entity"
	"news-hub/internal/infra/fetcher"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
)

// rssParallelism bounds concurrent feed downloads.
const rssParallelism = 4

// RSS adapts a fixed list of RSS/Atom feeds. Feeds have no query API,
// so every filter and the pagination are applied locally.
type RSS struct {
	client Fetcher
	feeds  []string
	now    func() time.Time
}

// NewRSS creates the feed adapter.
func NewRSS(client Fetcher, feeds []string) *RSS {
	return &RSS{client: client, feeds: feeds, now: time.Now}
}

func (p *RSS) ID() entity.ProviderID { return entity.ProviderRSS }
func (p *RSS) Name() string          { return "RSS Feeds" }

func (p *RSS) Features() []entity.Feature {
	return []entity.Feature{
		entity.FeatureKeywordSearch,
		entity.FeatureDateFilter,
		entity.FeatureCategoryFilter,
		entity.FeatureAuthorFilter,
		entity.FeatureSourceFilter,
		entity.FeaturePagination,
	}
}

func (p *RSS) Supports(f entity.Feature) bool {
	return slices.Contains(p.Features(), f)
}

// feedResult is one downloaded and parsed feed.
type feedResult struct {
	url  string
	feed *gofeed.Feed
	info fetcher.CallInfo
	err  error
}

// Search downloads every feed and filters the union of their items.
// Some feeds failing reports degraded; all failing reports down.
func (p *RSS) Search(ctx context.Context, params entity.SearchParams) entity.PaginatedResult[entity.Article] {
	page, pageSize := defaultPaging(params, 20, 0)

	results := p.fetchAll(ctx)

	var (
		articles []entity.Article
		firstErr error
		failed   int
		retried  bool
	)
	for _, r := range results {
		if r.err != nil {
			failed++
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		retried = retried || r.info.Retried()
		articles = append(articles, p.transformFeed(r.url, r.feed)...)
	}

	if len(results) == 0 || failed == len(results) {
		if firstErr == nil {
			firstErr = upstreamError(p.Name(), "no feeds configured")
		}
		return failure(p.ID(), p.Name(), page, pageSize, firstErr)
	}

	matched := slices.DeleteFunc(articles, func(a entity.Article) bool {
		return !matches(a, params)
	})
	slices.SortStableFunc(matched, func(a, b entity.Article) int {
		if c := b.PublishedAt.Compare(a.PublishedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	start := min((page-1)*pageSize, len(matched))
	end := min(start+pageSize, len(matched))

	result := success(p.ID(), slices.Clone(matched[start:end]), page, pageSize, len(matched), fetcher.CallInfo{Attempts: 1})
	if retried || failed > 0 {
		result.Meta.ProviderStatuses[0].Status = entity.StatusDegraded
	}
	return result
}

// Categories returns the distinct item categories of all reachable feeds.
func (p *RSS) Categories(ctx context.Context) []entity.Category {
	out := []entity.Category{}
	seen := make(map[string]struct{})
	for _, r := range p.fetchAll(ctx) {
		if r.err != nil {
			continue
		}
		for _, item := range r.feed.Items {
			for _, c := range item.Categories {
				name := strings.TrimSpace(c)
				key := strings.ToLower(name)
				if _, ok := seen[key]; ok || name == "" {
					continue
				}
				seen[key] = struct{}{}
				out = append(out, entity.Category{ID: slug(name), Name: name, Provider: entity.ProviderRSS})
			}
		}
	}
	return out
}

func (p *RSS) fetchAll(ctx context.Context) []feedResult {
	results := make([]feedResult, len(p.feeds))

	var g errgroup.Group
	g.SetLimit(rssParallelism)
	for i, feedURL := range p.feeds {
		g.Go(func() error {
			results[i] = p.fetchOne(ctx, feedURL)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (p *RSS) fetchOne(ctx context.Context, feedURL string) feedResult {
	body, info, err := p.client.GetRaw(ctx, feedURL)
	if err != nil {
		return feedResult{url: feedURL, info: info, err: err}
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		host := ""
		if u, perr := url.Parse(feedURL); perr == nil {
			host = u.Hostname()
		}
		return feedResult{url: feedURL, info: info, err: &fetcher.Error{
			Code:    entity.CodeUpstreamError,
			Host:    host,
			Message: fmt.Sprintf("Malformed feed from %s", host),
			Err:     fmt.Errorf("%w: %v", fetcher.ErrMalformedResponse, err),
		}}
	}
	return feedResult{url: feedURL, feed: feed, info: info}
}

func (p *RSS) transformFeed(feedURL string, feed *gofeed.Feed) []entity.Article {
	base, _ := url.Parse(feedURL)
	if feed.Link != "" {
		if u, err := url.Parse(feed.Link); err == nil && u.IsAbs() {
			base = u
		}
	}

	source := feedSource(feed, base)
	out := make([]entity.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if a, ok := p.transformItem(item, source, base); ok {
			out = append(out, a)
		}
	}
	return out
}

func feedSource(feed *gofeed.Feed, base *url.URL) entity.SourceInfo {
	name := strings.TrimSpace(feed.Title)
	if name == "" && base != nil {
		name = base.Hostname()
	}
	return entity.SourceInfo{ID: slug(name), Name: name, Provider: entity.ProviderRSS}
}

func (p *RSS) transformItem(item *gofeed.Item, source entity.SourceInfo, base *url.URL) (entity.Article, bool) {
	title := strings.TrimSpace(item.Title)
	link := resolve(base, strings.TrimSpace(item.Link))
	if !keepTitle(title) || link == "" {
		return entity.Article{}, false
	}

	key := strings.TrimSpace(item.GUID)
	if key == "" {
		key = link
	}

	published := p.now()
	switch {
	case item.PublishedParsed != nil:
		published = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		published = *item.UpdatedParsed
	}

	var category *string
	if len(item.Categories) > 0 {
		category = optional(strings.TrimSpace(item.Categories[0]))
	}

	return entity.Article{
		ID:          articleID(entity.ProviderRSS, key),
		Title:       title,
		Description: plainText(item.Description),
		Content:     optional(plainText(item.Content)),
		Author:      itemAuthor(item),
		Source:      source,
		Category:    category,
		PublishedAt: published,
		URL:         link,
		ImageURL:    itemImage(item, base),
		Provider:    entity.ProviderRSS,
	}, true
}

func itemAuthor(item *gofeed.Item) *string {
	if item.Author != nil && strings.TrimSpace(item.Author.Name) != "" {
		return optional(strings.TrimSpace(item.Author.Name))
	}
	for _, a := range item.Authors {
		if a != nil && strings.TrimSpace(a.Name) != "" {
			return optional(strings.TrimSpace(a.Name))
		}
	}
	if item.DublinCoreExt != nil {
		for _, c := range item.DublinCoreExt.Creator {
			if strings.TrimSpace(c) != "" {
				return optional(strings.TrimSpace(c))
			}
		}
	}
	return nil
}

func itemImage(item *gofeed.Item, base *url.URL) *string {
	if item.Image != nil && item.Image.URL != "" {
		return optional(resolve(base, item.Image.URL))
	}
	for _, e := range item.Enclosures {
		if e != nil && e.URL != "" && strings.HasPrefix(e.Type, "image/") {
			return optional(resolve(base, e.URL))
		}
	}
	return nil
}

// resolve makes ref absolute against base. Unparseable refs are dropped.
func resolve(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if u.IsAbs() || base == nil {
		return u.String()
	}
	return base.ResolveReference(u).String()
}

// plainText strips markup from an HTML fragment and collapses whitespace.
func plainText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" || !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func matches(a entity.Article, params entity.SearchParams) bool {
	if kw := strings.TrimSpace(params.Keyword); kw != "" {
		hay := strings.ToLower(a.Title + " " + a.Description)
		if a.Content != nil {
			hay += " " + strings.ToLower(*a.Content)
		}
		if !strings.Contains(hay, strings.ToLower(kw)) {
			return false
		}
	}
	if !params.From.IsZero() && a.PublishedAt.Before(params.From) {
		return false
	}
	if !params.To.IsZero() && a.PublishedAt.After(params.To) {
		return false
	}
	if params.Category != "" && (a.Category == nil || !strings.EqualFold(*a.Category, params.Category)) {
		return false
	}
	if params.Author != "" && (a.Author == nil || !strings.Contains(strings.ToLower(*a.Author), strings.ToLower(params.Author))) {
		return false
	}
	if params.Source != "" && a.Source.ID != params.Source {
		return false
	}
	return true
}
