package provider

import (
	"context"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"news-hub/internal/domain/entity"
)

const (
	nytBaseURL   = "https://api.nytimes.com/svc/search/v2"
	nytStaticURL = "https://static01.nyt.com/"
	nytPageSize  = 10
)

var nytDesks = []string{
	"Arts", "Business", "Climate", "Education", "Fashion", "Food", "Health", "Magazine", "Movies",
	"National", "Opinion", "Politics", "Science", "Sports", "Technology", "Travel", "World",
}

// nytImageVariants lists preferred multimedia subtypes, best first.
var nytImageVariants = []string{"superJumbo", "xlarge", "large"}

type nytResponse struct {
	Status   string `json:"status"`
	Fault    any    `json:"fault"`
	Response struct {
		Docs []nytArticle `json:"docs"`
		Meta struct {
			Hits int `json:"hits"`
		} `json:"meta"`
	} `json:"response"`
}

type nytArticle struct {
	ID            string `json:"_id"`
	WebURL        string `json:"web_url"`
	Snippet       string `json:"snippet"`
	LeadParagraph string `json:"lead_paragraph"`
	Abstract      string `json:"abstract"`
	Headline      struct {
		Main string `json:"main"`
	} `json:"headline"`
	Byline *struct {
		Original *string `json:"original"`
	} `json:"byline"`
	PubDate     string          `json:"pub_date"`
	NewsDesk    string          `json:"news_desk"`
	SectionName string          `json:"section_name"`
	Source      string          `json:"source"`
	Multimedia  []nytMultimedia `json:"multimedia"`
}

type nytMultimedia struct {
	URL     string `json:"url"`
	Subtype string `json:"subtype"`
}

// NYT adapts the New York Times Article Search API.
type NYT struct {
	client  Fetcher
	apiKey  string
	baseURL string
	now     func() time.Time
}

// NewNYT creates the NYT adapter. An empty baseURL selects the public endpoint.
func NewNYT(client Fetcher, apiKey, baseURL string) *NYT {
	if baseURL == "" {
		baseURL = nytBaseURL
	}
	return &NYT{client: client, apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

func (p *NYT) ID() entity.ProviderID { return entity.ProviderNYT }
func (p *NYT) Name() string          { return "New York Times" }

func (p *NYT) Features() []entity.Feature {
	return []entity.Feature{
		entity.FeatureKeywordSearch,
		entity.FeatureDateFilter,
		entity.FeatureCategoryFilter,
		entity.FeatureAuthorFilter,
		entity.FeaturePagination,
	}
}

func (p *NYT) Supports(f entity.Feature) bool {
	return slices.Contains(p.Features(), f)
}

// Search queries article search. The API serves a fixed page of 10 and counts pages from 0.
func (p *NYT) Search(ctx context.Context, params entity.SearchParams) entity.PaginatedResult[entity.Article] {
	page, _ := defaultPaging(params, nytPageSize, 0)
	pageSize := nytPageSize

	q := url.Values{}
	q.Set("api-key", p.apiKey)
	q.Set("page", strconv.Itoa(page-1))
	q.Set("sort", "newest")
	if params.Keyword != "" {
		q.Set("q", params.Keyword)
	}
	if !params.From.IsZero() {
		q.Set("begin_date", params.From.UTC().Format("20060102"))
	}
	if !params.To.IsZero() {
		q.Set("end_date", params.To.UTC().Format("20060102"))
	}
	var filters []string
	if params.Category != "" {
		filters = append(filters, `news_desk:("`+luceneQuote(params.Category)+`")`)
	}
	if params.Author != "" {
		filters = append(filters, `byline:("`+luceneQuote(params.Author)+`")`)
	}
	if len(filters) > 0 {
		q.Set("fq", strings.Join(filters, " AND "))
	}

	var resp nytResponse
	info, err := p.client.GetJSON(ctx, p.baseURL+"/articlesearch.json?"+q.Encode(), &resp)
	if err == nil && resp.Fault != nil {
		err = upstreamError(p.Name(), "")
	}
	if err != nil {
		return failure(p.ID(), p.Name(), page, pageSize, err)
	}

	articles := make([]entity.Article, 0, len(resp.Response.Docs))
	for _, raw := range resp.Response.Docs {
		if !keepTitle(raw.Headline.Main) || raw.WebURL == "" {
			continue
		}
		articles = append(articles, p.transform(raw))
	}
	return success(p.ID(), articles, page, pageSize, resp.Response.Meta.Hits, info)
}

func (p *NYT) transform(raw nytArticle) entity.Article {
	description := raw.Abstract
	if description == "" {
		description = raw.Snippet
	}
	if description == "" {
		description = raw.LeadParagraph
	}
	category := raw.NewsDesk
	if category == "" {
		category = raw.SectionName
	}
	sourceName := raw.Source
	if sourceName == "" {
		sourceName = "The New York Times"
	}
	published, ok := parseTime(raw.PubDate)
	if !ok {
		published = p.now()
	}

	return entity.Article{
		ID:          articleID(entity.ProviderNYT, raw.ID),
		Title:       raw.Headline.Main,
		Description: description,
		Content:     optional(raw.LeadParagraph),
		Author:      nytAuthor(raw),
		Source: entity.SourceInfo{
			ID:       "the-new-york-times",
			Name:     sourceName,
			Provider: entity.ProviderNYT,
		},
		Category:    optional(category),
		PublishedAt: published,
		URL:         raw.WebURL,
		ImageURL:    nytImage(raw.Multimedia),
		Provider:    entity.ProviderNYT,
	}
}

func nytAuthor(raw nytArticle) *string {
	if raw.Byline == nil || raw.Byline.Original == nil {
		return nil
	}
	author := strings.TrimSpace(*raw.Byline.Original)
	if len(author) >= 3 && strings.EqualFold(author[:3], "by ") {
		author = strings.TrimSpace(author[3:])
	}
	return optional(author)
}

// nytImage picks the best named variant, else the first item.
func nytImage(media []nytMultimedia) *string {
	if len(media) == 0 {
		return nil
	}
	chosen := media[0]
	best := len(nytImageVariants)
	for _, m := range media {
		if i := slices.Index(nytImageVariants, m.Subtype); i >= 0 && i < best {
			chosen, best = m, i
		}
	}
	if chosen.URL == "" {
		return nil
	}
	if strings.HasPrefix(chosen.URL, "http") {
		return optional(chosen.URL)
	}
	return optional(nytStaticURL + strings.TrimLeft(chosen.URL, "/"))
}

func luceneQuote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// Categories returns the fixed list of NYT news desks.
func (p *NYT) Categories(ctx context.Context) []entity.Category {
	out := make([]entity.Category, 0, len(nytDesks))
	for _, d := range nytDesks {
		out = append(out, entity.Category{ID: strings.ToLower(d), Name: d, Provider: entity.ProviderNYT})
	}
	return out
}
