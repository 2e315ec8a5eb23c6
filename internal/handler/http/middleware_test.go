package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-hub/internal/handler/http/requestid"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(rps float64, burst int) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(rps, burst)
	rl.now = clock.Now
	rl.lastClean = clock.Now()
	return rl, clock
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.RemoteAddr = ip + ":12345"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimiter_Burst(t *testing.T) {
	rl, _ := newTestLimiter(1, 3)
	h := rl.Limit(okHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "192.0.2.1"), "request %d", i+1)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.RemoteAddr = "192.0.2.1:12345"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "rate limit exceeded", body["error"])
}

func TestRateLimiter_Refill(t *testing.T) {
	rl, clock := newTestLimiter(2, 1)
	h := rl.Limit(okHandler())

	assert.Equal(t, http.StatusOK, hit(h, "192.0.2.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "192.0.2.1"))

	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hit(h, "192.0.2.1"))
}

func TestRateLimiter_DifferentIPs(t *testing.T) {
	rl, _ := newTestLimiter(1, 1)
	h := rl.Limit(okHandler())

	assert.Equal(t, http.StatusOK, hit(h, "192.0.2.1"))
	assert.Equal(t, http.StatusOK, hit(h, "192.0.2.2"))
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "192.0.2.1"))
	assert.Equal(t, 2, rl.size())
}

func TestRateLimiter_Concurrent(t *testing.T) {
	rl, _ := newTestLimiter(1, 10)
	h := rl.Limit(okHandler())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
		blocked int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code := hit(h, "192.0.2.1")
			mu.Lock()
			defer mu.Unlock()
			if code == http.StatusOK {
				allowed++
			} else {
				blocked++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowed)
	assert.Equal(t, 10, blocked)
}

func TestRateLimiter_CleanupDropsIdleVisitors(t *testing.T) {
	rl, clock := newTestLimiter(1, 1)
	h := rl.Limit(okHandler())

	hit(h, "192.0.2.1")
	clock.Advance(limiterIdleTTL / 2)
	hit(h, "192.0.2.2")
	require.Equal(t, 2, rl.size())

	clock.Advance(limiterCleanupInterval/2 + time.Second)
	hit(h, "192.0.2.3")

	_, idleKept := rl.visitors.Load("192.0.2.1")
	_, recentKept := rl.visitors.Load("192.0.2.2")
	assert.False(t, idleKept)
	assert.True(t, recentKept)
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		wantIP     string
	}{
		{name: "X-Forwarded-For single IP", remoteAddr: "192.168.1.1:12345", xff: "203.0.113.195", wantIP: "203.0.113.195"},
		{name: "X-Forwarded-For multiple IPs", remoteAddr: "192.168.1.1:12345", xff: "203.0.113.195, 70.41.3.18", wantIP: "203.0.113.195"},
		{name: "X-Real-IP", remoteAddr: "192.168.1.1:12345", xri: "203.0.113.195", wantIP: "203.0.113.195"},
		{name: "RemoteAddr fallback", remoteAddr: "192.168.1.1:12345", wantIP: "192.168.1.1"},
		{name: "X-Forwarded-For takes precedence", remoteAddr: "192.168.1.1:12345", xff: "203.0.113.195", xri: "198.51.100.178", wantIP: "203.0.113.195"},
		{name: "IPv6", remoteAddr: "[2001:db8::1]:12345", wantIP: "2001:db8::1"},
		{name: "invalid X-Real-IP is ignored", remoteAddr: "192.168.1.1:12345", xri: "invalid-ip", wantIP: "192.168.1.1"},
		{name: "RemoteAddr without port", remoteAddr: "192.168.1.1", wantIP: "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}

			assert.Equal(t, tt.wantIP, extractIP(req))
		})
	}
}

func TestParseFirstIP(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "203.0.113.195", want: "203.0.113.195"},
		{input: "203.0.113.195, 70.41.3.18", want: "203.0.113.195"},
		{input: "invalid, 70.41.3.18", want: ""},
		{input: "", want: ""},
		{input: "2001:db8::1, 2001:db8::2", want: "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseFirstIP(tt.input))
		})
	}
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		query     string
		wantLevel string
		wantQuery string
	}{
		{name: "ok", status: http.StatusOK, query: "q=climate", wantLevel: "INFO", wantQuery: "q=climate"},
		{name: "bad gateway", status: http.StatusBadGateway, wantLevel: "ERROR"},
		{name: "credentials masked", status: http.StatusOK, query: "apiKey=secret&q=go", wantLevel: "INFO", wantQuery: "apiKey=****&q=go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			handler := requestid.Middleware(Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			})))

			req := httptest.NewRequest(http.MethodGet, "/api/articles?"+tt.query, nil)
			req.Header.Set(requestid.RequestIDHeader, "req-1")
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.status, rr.Code)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "request completed", entry["msg"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "req-1", entry["request_id"])
			assert.Equal(t, "/api/articles", entry["path"])
			assert.Equal(t, tt.wantQuery, entry["query"])
			assert.Equal(t, float64(tt.status), entry["status"])
			assert.Equal(t, float64(4), entry["bytes"])
		})
	}
}

func TestRecover(t *testing.T) {
	tests := []struct {
		name       string
		panicValue any
		wantStatus int
	}{
		{name: "string", panicValue: "something went wrong", wantStatus: http.StatusInternalServerError},
		{name: "error", panicValue: fmt.Errorf("test error"), wantStatus: http.StatusInternalServerError},
		{name: "number", panicValue: 42, wantStatus: http.StatusInternalServerError},
		{name: "no panic", panicValue: nil, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			handler := Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.panicValue != nil {
					panic(tt.panicValue)
				}
				w.WriteHeader(http.StatusOK)
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/articles", nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.panicValue != nil {
				assert.Contains(t, buf.String(), "panic recovered")
				assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
			}
		})
	}
}

func TestRecover_RepanicsAbortHandler(t *testing.T) {
	handler := Recover(slog.Default())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
