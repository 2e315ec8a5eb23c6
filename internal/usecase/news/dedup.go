package news

import (
	"strings"

	"news-hub/internal/domain/entity"
	"news-hub/internal/pkg/urlcanon"
)

// DefaultPriority is the tie-break order used when two duplicates share a timestamp.
var DefaultPriority = []entity.ProviderID{
	entity.ProviderGuardian,
	entity.ProviderNYT,
	entity.ProviderNewsAPI,
	entity.ProviderRSS,
}

// Deduplicate keeps one article per canonical URL.
//
// Among duplicates the later PublishedAt wins, then the provider that comes first in
// priority, then the lexicographically smaller id. Survivors keep the position of the
// first article seen for their URL. Providers missing from priority rank after all listed ones.
func Deduplicate(articles []entity.Article, priority []entity.ProviderID) []entity.Article {
	rank := priorityIndex(priority)

	index := make(map[string]int, len(articles))
	out := make([]entity.Article, 0, len(articles))
	for _, a := range articles {
		key := urlcanon.Canonicalize(a.URL)
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, a)
			continue
		}
		if prefer(a, out[i], rank) {
			out[i] = a
		}
	}
	return out
}

// prefer reports whether candidate should replace current.
func prefer(candidate, current entity.Article, rank func(entity.ProviderID) int) bool {
	if !candidate.PublishedAt.Equal(current.PublishedAt) {
		return candidate.PublishedAt.After(current.PublishedAt)
	}
	if rc, rk := rank(candidate.Provider), rank(current.Provider); rc != rk {
		return rc < rk
	}
	return candidate.ID < current.ID
}

func priorityIndex(priority []entity.ProviderID) func(entity.ProviderID) int {
	idx := make(map[entity.ProviderID]int, len(priority))
	for i, p := range priority {
		if _, ok := idx[p]; !ok {
			idx[p] = i
		}
	}
	return func(p entity.ProviderID) int {
		if i, ok := idx[p]; ok {
			return i
		}
		return len(priority)
	}
}

// DeduplicateCategories keeps the first category seen for each case-insensitive name.
func DeduplicateCategories(categories []entity.Category) []entity.Category {
	seen := make(map[string]struct{}, len(categories))
	out := make([]entity.Category, 0, len(categories))
	for _, c := range categories {
		key := strings.ToLower(c.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
