package provider

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"news-hub/internal/infra/fetcher"
)

func testFetcherConfig() fetcher.Config {
	cfg := fetcher.DefaultConfig()
	cfg.Timeout = time.Second
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	cfg.DenyPrivateIPs = false
	cfg.CircuitBreakerEnabled = false
	return cfg
}

func testClient(name string) *fetcher.Client {
	return fetcher.NewClient(name, nil, testFetcherConfig())
}

// upstream is a fake provider API that records the requests it receives.
type upstream struct {
	*httptest.Server
	hits atomic.Int32

	mu       sync.Mutex
	requests []*url.URL
}

func newUpstream(t *testing.T, handler http.HandlerFunc) *upstream {
	t.Helper()
	u := &upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		u.mu.Lock()
		u.requests = append(u.requests, r.URL)
		u.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(u.Close)
	return u
}

func (u *upstream) last() *url.URL {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.requests) == 0 {
		return nil
	}
	return u.requests[len(u.requests)-1]
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func statusHandler(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}

// flakyHandler fails the first n requests with 503.
func flakyHandler(n int32, then http.HandlerFunc) http.HandlerFunc {
	var count atomic.Int32
	return func(w http.ResponseWriter, r *http.Request) {
		if count.Add(1) <= n {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		then(w, r)
	}
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func clientWith(name string, cfg fetcher.Config) *fetcher.Client {
	return fetcher.NewClient(name, nil, cfg)
}
