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

const newsAPIBaseURL = "https://newsapi.org/v2"

var newsAPICategories = []string{"business", "entertainment", "general", "health", "science", "sports", "technology"}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		ID   *string `json:"id"`
		Name string  `json:"name"`
	} `json:"source"`
	Author      *string `json:"author"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	URLToImage  *string `json:"urlToImage"`
	PublishedAt string  `json:"publishedAt"`
	Content     *string `json:"content"`
}

// NewsAPI adapts https://newsapi.org.
type NewsAPI struct {
	client  Fetcher
	apiKey  string
	baseURL string
	now     func() time.Time
}

// NewNewsAPI creates the NewsAPI adapter. An empty baseURL selects the public endpoint.
func NewNewsAPI(client Fetcher, apiKey, baseURL string) *NewsAPI {
	if baseURL == "" {
		baseURL = newsAPIBaseURL
	}
	return &NewsAPI{client: client, apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

func (p *NewsAPI) ID() entity.ProviderID { return entity.ProviderNewsAPI }
func (p *NewsAPI) Name() string          { return "NewsAPI" }

func (p *NewsAPI) Features() []entity.Feature {
	return []entity.Feature{
		entity.FeatureKeywordSearch,
		entity.FeatureDateFilter,
		entity.FeatureSourceFilter,
		entity.FeaturePagination,
	}
}

func (p *NewsAPI) Supports(f entity.Feature) bool {
	return slices.Contains(p.Features(), f)
}

// Search uses /everything for keyword queries and /top-headlines otherwise.
func (p *NewsAPI) Search(ctx context.Context, params entity.SearchParams) entity.PaginatedResult[entity.Article] {
	page, pageSize := defaultPaging(params, 20, 100)

	q := url.Values{}
	q.Set("apiKey", p.apiKey)
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("language", "en")

	endpoint := "top-headlines"
	if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
		endpoint = "everything"
		q.Set("q", keyword)
		if !params.From.IsZero() {
			q.Set("from", formatDateTime(params.From))
		}
		if !params.To.IsZero() {
			q.Set("to", formatDateTime(params.To))
		}
	} else if params.Source == "" {
		// top-headlines rejects country together with sources
		q.Set("country", "us")
	}
	if params.Source != "" {
		q.Set("sources", params.Source)
	}

	var resp newsAPIResponse
	info, err := p.client.GetJSON(ctx, p.baseURL+"/"+endpoint+"?"+q.Encode(), &resp)
	if err == nil && resp.Status == "error" {
		err = upstreamError(p.Name(), resp.Code)
	}
	if err != nil {
		return failure(p.ID(), p.Name(), page, pageSize, err)
	}

	articles := make([]entity.Article, 0, len(resp.Articles))
	for _, raw := range resp.Articles {
		if !keepTitle(raw.Title) || raw.URL == "" {
			continue
		}
		articles = append(articles, p.transform(raw))
	}
	return success(p.ID(), articles, page, pageSize, resp.TotalResults, info)
}

func (p *NewsAPI) transform(raw newsAPIArticle) entity.Article {
	sourceID := slug(raw.Source.Name)
	if raw.Source.ID != nil && *raw.Source.ID != "" {
		sourceID = *raw.Source.ID
	}
	published, ok := parseTime(raw.PublishedAt)
	if !ok {
		published = p.now()
	}
	description := ""
	if raw.Description != nil {
		description = *raw.Description
	}

	return entity.Article{
		ID:          articleID(entity.ProviderNewsAPI, raw.URL),
		Title:       raw.Title,
		Description: description,
		Content:     nonEmpty(raw.Content),
		Author:      nonEmpty(raw.Author),
		Source: entity.SourceInfo{
			ID:       sourceID,
			Name:     raw.Source.Name,
			Provider: entity.ProviderNewsAPI,
		},
		PublishedAt: published,
		URL:         raw.URL,
		ImageURL:    nonEmpty(raw.URLToImage),
		Provider:    entity.ProviderNewsAPI,
	}
}

// Categories returns the fixed NewsAPI category list.
func (p *NewsAPI) Categories(ctx context.Context) []entity.Category {
	out := make([]entity.Category, 0, len(newsAPICategories))
	for _, c := range newsAPICategories {
		out = append(out, entity.Category{
			ID:       c,
			Name:     strings.ToUpper(c[:1]) + c[1:],
			Provider: entity.ProviderNewsAPI,
		})
	}
	return out
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
