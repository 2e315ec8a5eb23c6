package entity

import (
	"fmt"
	"strings"
)

// maxKeywordLength bounds the free-text query forwarded upstream.
const maxKeywordLength = 500

// ParseProviderIDs splits a comma-separated provider list.
// Blank entries are skipped; unknown ids are rejected.
func ParseProviderIDs(raw string) ([]ProviderID, error) {
	var ids []ProviderID
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		id := ProviderID(part)
		if !id.IsKnown() {
			return nil, fmt.Errorf("%w %q", ErrUnknownProvider, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Validate checks the parts of SearchParams that cannot be fixed by clamping.
// Page and page size are normalized by the aggregator instead of rejected here.
func (p SearchParams) Validate() error {
	if len(p.Keyword) > maxKeywordLength {
		return &ValidationError{
			Field:   "q",
			Message: fmt.Sprintf("must be at most %d characters", maxKeywordLength),
		}
	}
	if !p.From.IsZero() && !p.To.IsZero() && p.From.After(p.To) {
		return &ValidationError{Field: "date range", Message: "from must be before or equal to to"}
	}
	if p.Page < 0 {
		return &ValidationError{Field: "page", Message: "must be a positive integer"}
	}
	if p.PageSize < 0 {
		return &ValidationError{Field: "pageSize", Message: "must be a positive integer"}
	}
	for _, id := range p.Providers {
		if !id.IsKnown() {
			return &ValidationError{Field: "providers", Message: fmt.Sprintf("unknown provider %q", id)}
		}
	}
	return nil
}
