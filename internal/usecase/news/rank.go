package news

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"news-hub/internal/domain/entity"
)

// RankWeights configures preference scoring.
type RankWeights struct {
	Source   int
	Category int
	Author   int
	// FreshnessMax is the bonus for an article published now. It drops by one point
	// per FreshnessBucket of age and never goes below zero.
	FreshnessMax    int
	FreshnessBucket time.Duration
}

// DefaultRankWeights returns the standard weights: 30/20/15 and up to 20 for freshness in 6h steps.
func DefaultRankWeights() RankWeights {
	return RankWeights{
		Source:          30,
		Category:        20,
		Author:          15,
		FreshnessMax:    20,
		FreshnessBucket: 6 * time.Hour,
	}
}

// Score computes the preference score of a single article.
// It is zero when params carries no preferences at all.
func Score(a entity.Article, params entity.SearchParams, now time.Time, w RankWeights) int {
	if !params.HasPreferences() {
		return 0
	}

	score := 0
	if slices.Contains(params.PreferredSources, a.Source.ID) {
		score += w.Source
	}
	if a.Category != nil && containsFold(params.PreferredCategories, *a.Category) {
		score += w.Category
	}
	if a.Author != nil && containsFold(params.PreferredAuthors, *a.Author) {
		score += w.Author
	}
	score += freshness(a.PublishedAt, now, w)
	return score
}

func freshness(published, now time.Time, w RankWeights) int {
	if w.FreshnessBucket <= 0 {
		return 0
	}
	age := now.Sub(published)
	if age < 0 {
		age = 0
	}
	return max(0, w.FreshnessMax-int(age/w.FreshnessBucket))
}

func containsFold(list []string, v string) bool {
	return slices.ContainsFunc(list, func(s string) bool {
		return strings.EqualFold(s, v)
	})
}

// Rank returns a sorted copy of articles: score descending, then PublishedAt descending,
// then id ascending, then URL ascending. The input slice is not modified.
func Rank(articles []entity.Article, params entity.SearchParams, now time.Time, w RankWeights) []entity.Article {
	type scored struct {
		article entity.Article
		score   int
	}
	items := make([]scored, len(articles))
	for i, a := range articles {
		items[i] = scored{article: a, score: Score(a, params, now, w)}
	}

	slices.SortFunc(items, func(x, y scored) int {
		if c := cmp.Compare(y.score, x.score); c != 0 {
			return c
		}
		if c := y.article.PublishedAt.Compare(x.article.PublishedAt); c != 0 {
			return c
		}
		if c := cmp.Compare(x.article.ID, y.article.ID); c != 0 {
			return c
		}
		return cmp.Compare(x.article.URL, y.article.URL)
	})

	out := make([]entity.Article, len(items))
	for i, it := range items {
		out[i] = it.article
	}
	return out
}
