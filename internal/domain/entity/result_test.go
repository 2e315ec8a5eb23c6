package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginatedResult_AllProvidersDown(t *testing.T) {
	down := ProviderStatusInfo{Provider: ProviderNYT, Status: StatusDown}
	ok := ProviderStatusInfo{Provider: ProviderGuardian, Status: StatusOK}
	degraded := ProviderStatusInfo{Provider: ProviderRSS, Status: StatusDegraded}

	tests := []struct {
		name     string
		data     []Article
		statuses []ProviderStatusInfo
		want     bool
	}{
		{name: "no providers", want: false},
		{name: "all down", statuses: []ProviderStatusInfo{down, down}, want: true},
		{name: "one ok", statuses: []ProviderStatusInfo{down, ok}, want: false},
		{name: "degraded counts as up", statuses: []ProviderStatusInfo{degraded}, want: false},
		{name: "down but data", data: []Article{{ID: "x"}}, statuses: []ProviderStatusInfo{down}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := PaginatedResult[Article]{Data: tt.data, Meta: ResultMeta{ProviderStatuses: tt.statuses}}
			assert.Equal(t, tt.want, r.AllProvidersDown())
		})
	}
}

func TestPaginatedResult_Failed(t *testing.T) {
	assert.False(t, PaginatedResult[Article]{}.Failed())
	assert.True(t, PaginatedResult[Article]{Errors: []ProviderError{{Provider: ProviderNYT}}}.Failed())
}

func TestProviderError_Error(t *testing.T) {
	err := ProviderError{Provider: ProviderGuardian, Code: CodeRateLimit, Message: "The Guardian rate limit exceeded"}
	assert.Equal(t, "guardian: RATE_LIMIT: The Guardian rate limit exceeded", err.Error())
}

func TestLatency(t *testing.T) {
	l := Latency(120)
	if assert.NotNil(t, l) {
		assert.Equal(t, int64(120), *l)
	}
}
