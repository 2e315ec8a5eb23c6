package fetcher

import (
	"errors"
	"fmt"

	"news-hub/internal/domain/entity"
)

// Sentinel errors wrapped by Error.Err.
var (
	// ErrInvalidURL indicates the URL could not be used for a request
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP indicates the host resolves to a private or loopback address
	ErrPrivateIP = errors.New("private IP address not allowed")

	// ErrDNSLookup indicates the host could not be resolved
	ErrDNSLookup = errors.New("DNS lookup failed")

	// ErrBodyTooLarge indicates the response exceeded MaxBodySize
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTooManyRedirects indicates the redirect limit was exceeded
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrMalformedResponse indicates the body could not be decoded
	ErrMalformedResponse = errors.New("malformed response")

	// ErrCircuitOpen indicates the provider's circuit breaker rejected the call
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// Error is a classified upstream failure.
// Message only ever names the upstream host; request URLs carry API keys
// in their query strings and must not reach logs or clients.
type Error struct {
	Code       entity.ErrorCode
	StatusCode int
	Host       string
	Message    string
	Err        error

	permanent bool
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt may succeed.
// Rate limits are never retried.
func (e *Error) Retryable() bool {
	return e.Code != entity.CodeRateLimit && !e.permanent
}

func timeoutError(host string, after fmt.Stringer) *Error {
	return &Error{
		Code:    entity.CodeTimeout,
		Host:    host,
		Message: fmt.Sprintf("Request to %s timed out after %s", host, after),
		Err:     errTimeout,
	}
}

func rateLimitError(host string, status int) *Error {
	return &Error{
		Code:       entity.CodeRateLimit,
		StatusCode: status,
		Host:       host,
		Message:    fmt.Sprintf("Rate limited by %s", host),
	}
}

func statusError(host string, status int) *Error {
	return &Error{
		Code:       entity.CodeUpstreamError,
		StatusCode: status,
		Host:       host,
		Message:    fmt.Sprintf("HTTP %d from %s", status, host),
	}
}

func transportError(host string, err error) *Error {
	return &Error{
		Code:    entity.CodeUpstreamError,
		Host:    host,
		Message: fmt.Sprintf("Request to %s failed", host),
		Err:     err,
	}
}

func permanentError(code entity.ErrorCode, host, message string, err error) *Error {
	return &Error{
		Code:      code,
		Host:      host,
		Message:   message,
		Err:       err,
		permanent: true,
	}
}

var errTimeout = errors.New("attempt deadline exceeded")

// AsError extracts a classified error, converting anything else into an UPSTREAM_ERROR.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return &Error{Code: entity.CodeUpstreamError, Message: "Upstream request failed", Err: err}
}
