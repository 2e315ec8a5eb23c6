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

const guardianBaseURL = "https://content.guardianapis.com"

type guardianResponse struct {
	Response struct {
		Status      string            `json:"status"`
		Message     string            `json:"message"`
		Total       int               `json:"total"`
		PageSize    int               `json:"pageSize"`
		CurrentPage int               `json:"currentPage"`
		Pages       int               `json:"pages"`
		Results     []guardianArticle `json:"results"`
	} `json:"response"`
}

type guardianArticle struct {
	ID                 string `json:"id"`
	SectionID          string `json:"sectionId"`
	SectionName        string `json:"sectionName"`
	WebPublicationDate string `json:"webPublicationDate"`
	WebTitle           string `json:"webTitle"`
	WebURL             string `json:"webUrl"`
	Fields             *struct {
		Headline  string `json:"headline"`
		TrailText string `json:"trailText"`
		Body      string `json:"body"`
		Thumbnail string `json:"thumbnail"`
		Byline    string `json:"byline"`
	} `json:"fields"`
	Tags []guardianTag `json:"tags"`
}

type guardianTag struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	WebTitle  string `json:"webTitle"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type guardianSections struct {
	Response struct {
		Results []struct {
			ID       string `json:"id"`
			WebTitle string `json:"webTitle"`
		} `json:"results"`
	} `json:"response"`
}

// Guardian adapts the Guardian Open Platform content API.
type Guardian struct {
	client  Fetcher
	apiKey  string
	baseURL string
	now     func() time.Time
}

// NewGuardian creates the Guardian adapter. An empty baseURL selects the public endpoint.
func NewGuardian(client Fetcher, apiKey, baseURL string) *Guardian {
	if baseURL == "" {
		baseURL = guardianBaseURL
	}
	return &Guardian{client: client, apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

func (p *Guardian) ID() entity.ProviderID { return entity.ProviderGuardian }
func (p *Guardian) Name() string          { return "The Guardian" }

func (p *Guardian) Features() []entity.Feature {
	return []entity.Feature{
		entity.FeatureKeywordSearch,
		entity.FeatureDateFilter,
		entity.FeatureCategoryFilter,
		entity.FeatureAuthorFilter,
		entity.FeaturePagination,
	}
}

func (p *Guardian) Supports(f entity.Feature) bool {
	return slices.Contains(p.Features(), f)
}

func (p *Guardian) Search(ctx context.Context, params entity.SearchParams) entity.PaginatedResult[entity.Article] {
	page, pageSize := defaultPaging(params, 20, 200)

	q := url.Values{}
	q.Set("api-key", p.apiKey)
	q.Set("page", strconv.Itoa(page))
	q.Set("page-size", strconv.Itoa(pageSize))
	q.Set("show-fields", "headline,trailText,body,thumbnail,byline")
	q.Set("show-tags", "contributor")
	q.Set("order-by", "newest")
	if params.Keyword != "" {
		q.Set("q", params.Keyword)
	}
	if !params.From.IsZero() {
		q.Set("from-date", params.From.UTC().Format(time.DateOnly))
	}
	if !params.To.IsZero() {
		q.Set("to-date", params.To.UTC().Format(time.DateOnly))
	}
	if params.Category != "" {
		q.Set("section", slug(params.Category))
	}
	if params.Author != "" {
		q.Set("tag", "profile/"+slug(params.Author))
	}

	var resp guardianResponse
	info, err := p.client.GetJSON(ctx, p.baseURL+"/search?"+q.Encode(), &resp)
	if err == nil && resp.Response.Status == "error" {
		err = upstreamError(p.Name(), resp.Response.Message)
	}
	if err != nil {
		return failure(p.ID(), p.Name(), page, pageSize, err)
	}

	articles := make([]entity.Article, 0, len(resp.Response.Results))
	for _, raw := range resp.Response.Results {
		a := p.transform(raw)
		if !keepTitle(a.Title) || a.URL == "" {
			continue
		}
		articles = append(articles, a)
	}

	result := success(p.ID(), articles, page, pageSize, resp.Response.Total, info)
	if resp.Response.CurrentPage > 0 {
		result.Meta.Page = resp.Response.CurrentPage
		result.Meta.HasMore = resp.Response.CurrentPage < resp.Response.Pages
	}
	if resp.Response.PageSize > 0 {
		result.Meta.PageSize = resp.Response.PageSize
	}
	return result
}

func (p *Guardian) transform(raw guardianArticle) entity.Article {
	title := raw.WebTitle
	var description, body, thumbnail string
	if raw.Fields != nil {
		if raw.Fields.Headline != "" {
			title = raw.Fields.Headline
		}
		description = raw.Fields.TrailText
		body = raw.Fields.Body
		thumbnail = raw.Fields.Thumbnail
	}
	published, ok := parseTime(raw.WebPublicationDate)
	if !ok {
		published = p.now()
	}

	return entity.Article{
		ID:          articleID(entity.ProviderGuardian, raw.ID),
		Title:       title,
		Description: description,
		Content:     optional(body),
		Author:      guardianAuthor(raw),
		Source: entity.SourceInfo{
			ID:       "the-guardian",
			Name:     "The Guardian",
			Provider: entity.ProviderGuardian,
		},
		Category:    optional(raw.SectionName),
		PublishedAt: published,
		URL:         raw.WebURL,
		ImageURL:    optional(thumbnail),
		Provider:    entity.ProviderGuardian,
	}
}

// guardianAuthor prefers the byline, then the first contributor tag.
func guardianAuthor(raw guardianArticle) *string {
	if raw.Fields != nil && raw.Fields.Byline != "" {
		return optional(raw.Fields.Byline)
	}
	for _, tag := range raw.Tags {
		if tag.Type != "contributor" {
			continue
		}
		if name := strings.TrimSpace(tag.FirstName + " " + tag.LastName); name != "" {
			return optional(name)
		}
		return optional(tag.WebTitle)
	}
	return nil
}

// Categories lists Guardian sections. Failures yield an empty list.
func (p *Guardian) Categories(ctx context.Context) []entity.Category {
	q := url.Values{}
	q.Set("api-key", p.apiKey)

	var resp guardianSections
	if _, err := p.client.GetJSON(ctx, p.baseURL+"/sections?"+q.Encode(), &resp); err != nil {
		return []entity.Category{}
	}

	out := make([]entity.Category, 0, len(resp.Response.Results))
	for _, s := range resp.Response.Results {
		out = append(out, entity.Category{ID: s.ID, Name: s.WebTitle, Provider: entity.ProviderGuardian})
	}
	return out
}
