package fetcher

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"news-hub/internal/domain/entity"
	"news-hub/internal/observability/metrics"
	"news-hub/internal/resilience/circuitbreaker"
	"news-hub/internal/resilience/retry"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// CallInfo describes how a call went regardless of its outcome.
type CallInfo struct {
	// Attempts is the number of attempts made, including the first one.
	Attempts int
	// StatusCode is the HTTP status of the last response, 0 if none was received.
	StatusCode int
}

// Retried reports whether the call needed more than one attempt.
func (i CallInfo) Retried() bool {
	return i.Attempts > 1
}

// Client issues GET requests to one provider with a per-attempt timeout,
// bounded retries and error classification. Each provider gets its own Client
// so breaker state and pacing are not shared between upstreams.
//
// Thread safety: Client is safe for concurrent use.
type Client struct {
	name    string
	http    *http.Client
	config  Config
	retry   retry.Config
	breaker *circuitbreaker.CircuitBreaker
	limiter *rate.Limiter
}

// NewClient creates a client for the named provider.
// A nil httpClient gets a transport with TLS 1.2+ and redirect validation.
func NewClient(name string, httpClient *http.Client, config Config) *Client {
	c := &Client{
		name:   name,
		config: config,
		retry:  config.RetryConfig(),
	}

	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
			CheckRedirect: c.checkRedirect,
		}
	}
	c.http = httpClient

	if config.CircuitBreakerEnabled {
		cbConfig := circuitbreaker.ProviderAPIConfig(name)
		cbConfig.IsSuccessful = countsAsSuccess
		c.breaker = circuitbreaker.New(cbConfig)
	}

	if config.RateLimitRPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(config.RateLimitRPS), config.RateLimitBurst)
	}

	return c
}

// Name returns the provider name the client was created for.
func (c *Client) Name() string {
	return c.name
}

// BreakerState returns the circuit breaker state, or "disabled".
func (c *Client) BreakerState() string {
	if c.breaker == nil {
		return "disabled"
	}
	return c.breaker.State().String()
}

// GetJSON fetches rawURL and decodes the JSON body into out.
// A body that does not decode is a permanent UPSTREAM_ERROR.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) (CallInfo, error) {
	_, info, err := c.get(ctx, rawURL, "application/json", func(host string, body []byte) error {
		if err := json.Unmarshal(body, out); err != nil {
			return permanentError(entity.CodeUpstreamError, host,
				fmt.Sprintf("Malformed response from %s", host),
				fmt.Errorf("%w: %v", ErrMalformedResponse, err))
		}
		return nil
	})
	return info, err
}

// GetRaw fetches rawURL and returns the body untouched.
// Used for feeds that are not JSON.
func (c *Client) GetRaw(ctx context.Context, rawURL string) ([]byte, CallInfo, error) {
	return c.get(ctx, rawURL, "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8", nil)
}

func (c *Client) get(ctx context.Context, rawURL, accept string, decode func(host string, body []byte) error) ([]byte, CallInfo, error) {
	start := time.Now()

	u, err := url.Parse(rawURL)
	if err != nil {
		ferr := permanentError(entity.CodeUpstreamError, "", "Invalid upstream URL", fmt.Errorf("%w: %v", ErrInvalidURL, err))
		c.record(CallInfo{}, ferr, start)
		return nil, CallInfo{}, ferr
	}
	host := u.Hostname()

	var (
		body   []byte
		status int
	)
	attempts, err := retry.Do(ctx, c.retry, func() error {
		b, s, attemptErr := c.attempt(ctx, u, host, accept)
		status = s
		if attemptErr != nil {
			return attemptErr
		}
		if decode != nil {
			if decodeErr := decode(host, b); decodeErr != nil {
				return decodeErr
			}
		}
		body = b
		return nil
	})

	info := CallInfo{Attempts: attempts, StatusCode: status}
	if err != nil {
		ferr := AsError(err)
		if ferr.Host == "" {
			ferr.Host = host
		}
		c.record(info, ferr, start)
		return nil, info, ferr
	}

	c.record(info, nil, start)
	return body, info, nil
}

// attempt runs one request through the limiter and breaker.
func (c *Client) attempt(ctx context.Context, u *url.URL, host, accept string) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, 0, c.contextError(ctx, host, err)
			}
			// Wait refuses up front when the token would arrive after the deadline
			return nil, 0, permanentError(entity.CodeUpstreamError, host,
				fmt.Sprintf("Request to %s skipped by local pacing", host), err)
		}
	}

	if c.breaker == nil {
		return c.do(ctx, u, host, accept)
	}

	var status int
	body, err := circuitbreaker.Execute(c.breaker, func() ([]byte, error) {
		b, s, err := c.do(ctx, u, host, accept)
		status = s
		return b, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, 0, permanentError(entity.CodeUpstreamError, host,
			fmt.Sprintf("Circuit open for %s", host),
			fmt.Errorf("%w: %v", ErrCircuitOpen, err))
	}
	if err != nil {
		return nil, status, err
	}
	return body, status, nil
}

// do performs a single HTTP request under its own deadline.
func (c *Client) do(ctx context.Context, u *url.URL, host, accept string) ([]byte, int, error) {
	if err := validateURL(u, c.config.DenyPrivateIPs); err != nil {
		if errors.Is(err, ErrDNSLookup) {
			return nil, 0, transportError(host, err)
		}
		return nil, 0, permanentError(entity.CodeUpstreamError, host,
			fmt.Sprintf("Refused request to %s", host), err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, permanentError(entity.CodeUpstreamError, host,
			fmt.Sprintf("Invalid request to %s", host), fmt.Errorf("%w: %v", ErrInvalidURL, err))
	}
	req.Header.Set("Accept", accept)
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, c.contextError(ctx, host, ctx.Err())
		}
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, 0, timeoutError(host, c.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && errors.Is(urlErr.Err, ErrTooManyRedirects) {
			return nil, 0, permanentError(entity.CodeUpstreamError, host,
				fmt.Sprintf("Too many redirects from %s", host), urlErr.Err)
		}
		// url.Error carries the full URL, so only the cause is kept
		if urlErr != nil {
			err = urlErr.Err
		}
		return nil, 0, transportError(host, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, resp.StatusCode, rateLimitError(host, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, statusError(host, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxBodySize+1))
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, resp.StatusCode, timeoutError(host, c.config.Timeout)
		}
		return nil, resp.StatusCode, transportError(host, err)
	}
	if int64(len(body)) > c.config.MaxBodySize {
		return nil, resp.StatusCode, permanentError(entity.CodeUpstreamError, host,
			fmt.Sprintf("Response from %s exceeds %d bytes", host, c.config.MaxBodySize),
			ErrBodyTooLarge)
	}

	return body, resp.StatusCode, nil
}

// contextError classifies a failure caused by the caller's own context.
// Those are never retried.
func (c *Client) contextError(ctx context.Context, host string, err error) *Error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return permanentError(entity.CodeTimeout, host,
			fmt.Sprintf("Request to %s exceeded the caller deadline", host), err)
	}
	return permanentError(entity.CodeUpstreamError, host,
		fmt.Sprintf("Request to %s was canceled", host), err)
}

func (c *Client) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= c.config.MaxRedirects {
		return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
	}
	if err := validateURL(req.URL, c.config.DenyPrivateIPs); err != nil {
		return fmt.Errorf("redirect target validation failed: %w", err)
	}
	return nil
}

func (c *Client) record(info CallInfo, err *Error, start time.Time) {
	outcome := "ok"
	if err != nil {
		outcome = string(err.Code)
		slog.Warn("provider call failed",
			slog.String("provider", c.name),
			slog.String("code", outcome),
			slog.Int("status", err.StatusCode),
			slog.Int("attempts", info.Attempts),
			slog.String("error", err.Message),
			slog.Duration("latency", time.Since(start)))
	}
	metrics.RecordProviderRequest(c.name, outcome, info.Attempts, time.Since(start))
}

// countsAsSuccess keeps throttling and caller cancellation from tripping the breaker.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code == entity.CodeRateLimit || errors.Is(fe.Err, context.Canceled)
	}
	return false
}
