package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"news-hub/internal/resilience/retry"
)

// Config controls how one provider client talks to its upstream.
//
// Resilience settings:
//   - Timeout: hard limit for a single attempt
//   - MaxAttempts, InitialDelay, MaxDelay: bounded exponential backoff between attempts
//   - CircuitBreakerEnabled: fail fast while a provider keeps failing
//
// Safety settings:
//   - MaxBodySize: rejects oversized responses
//   - MaxRedirects: bounds redirect chains
//   - DenyPrivateIPs: blocks hosts resolving to internal addresses
//
// Pacing:
//   - RateLimitRPS, RateLimitBurst: optional client-side token bucket, disabled when RPS is 0
type Config struct {
	// Timeout is the deadline for a single attempt.
	// Default: 10s
	Timeout time.Duration

	// MaxAttempts is the total number of attempts per call.
	// Default: 3
	MaxAttempts int

	// InitialDelay is the wait before the second attempt; it doubles per attempt.
	// Default: 1s
	InitialDelay time.Duration

	// MaxDelay caps the wait between attempts.
	// Default: 4s
	MaxDelay time.Duration

	// MaxBodySize is the maximum accepted response size in bytes.
	// Default: 5MB
	MaxBodySize int64

	// MaxRedirects is the maximum number of redirects to follow.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs rejects hosts that resolve to private, loopback or link-local addresses.
	// Default: true
	DenyPrivateIPs bool

	// RateLimitRPS paces outgoing requests per provider. 0 disables pacing.
	// Default: 0
	RateLimitRPS float64

	// RateLimitBurst is the token bucket size when pacing is enabled.
	// Default: 1
	RateLimitBurst int

	// CircuitBreakerEnabled wraps calls in a per-provider circuit breaker.
	// Default: true
	CircuitBreakerEnabled bool

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns the default configuration for provider calls.
func DefaultConfig() Config {
	policy := retry.ProviderAPIConfig()
	return Config{
		Timeout:               10 * time.Second,
		MaxAttempts:           policy.MaxAttempts,
		InitialDelay:          policy.InitialDelay,
		MaxDelay:              policy.MaxDelay,
		MaxBodySize:           5 * 1024 * 1024,
		MaxRedirects:          5,
		DenyPrivateIPs:        true,
		RateLimitRPS:          0,
		RateLimitBurst:        1,
		CircuitBreakerEnabled: true,
		UserAgent:             "NewsHubBot/1.0",
	}
}

// Validate checks if the configuration values are valid and safe.
//
// Validation rules:
//   - Timeout: > 0
//   - MaxAttempts: 1-10
//   - InitialDelay, MaxDelay: >= 0, InitialDelay <= MaxDelay
//   - MaxBodySize: 1KB-100MB
//   - MaxRedirects: 0-10
//   - RateLimitRPS: >= 0, RateLimitBurst >= 1 when pacing is enabled
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	if c.MaxAttempts < 1 || c.MaxAttempts > 10 {
		return fmt.Errorf("max attempts must be between 1 and 10, got %d", c.MaxAttempts)
	}

	if c.InitialDelay < 0 || c.MaxDelay < 0 {
		return fmt.Errorf("retry delays must be non-negative, got initial=%v max=%v", c.InitialDelay, c.MaxDelay)
	}
	if c.InitialDelay > c.MaxDelay {
		return fmt.Errorf("initial retry delay %v exceeds max delay %v", c.InitialDelay, c.MaxDelay)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	if c.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit rps must be non-negative, got %v", c.RateLimitRPS)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit burst must be at least 1, got %d", c.RateLimitBurst)
	}

	return nil
}

// RetryConfig converts the attempt settings into a retry policy.
func (c *Config) RetryConfig() retry.Config {
	policy := retry.ProviderAPIConfig()
	policy.MaxAttempts = c.MaxAttempts
	policy.InitialDelay = c.InitialDelay
	policy.MaxDelay = c.MaxDelay
	return policy
}

// Budget is the longest one call can take: every attempt timing out plus the
// capped waits between attempts.
func (c *Config) Budget() time.Duration {
	if c.MaxAttempts < 1 {
		return c.Timeout
	}
	return c.Timeout*time.Duration(c.MaxAttempts) + c.MaxDelay*time.Duration(c.MaxAttempts-1)
}

// LoadConfigFromEnv loads configuration from environment variables.
// Unset variables keep their defaults; malformed values are errors.
//
// Environment variables:
//   - PROVIDER_TIMEOUT: duration, e.g. "10s" (default: 10s)
//   - PROVIDER_MAX_ATTEMPTS: integer (default: 3)
//   - PROVIDER_RETRY_INITIAL_DELAY: duration (default: 1s)
//   - PROVIDER_RETRY_MAX_DELAY: duration (default: 4s)
//   - PROVIDER_MAX_BODY_SIZE: integer in bytes (default: 5242880)
//   - PROVIDER_RATE_LIMIT_RPS: float (default: 0, disabled)
//   - PROVIDER_RATE_LIMIT_BURST: integer (default: 1)
//   - PROVIDER_CIRCUIT_BREAKER_ENABLED: "true" or "false" (default: true)
//   - PROVIDER_DENY_PRIVATE_IPS: "true" or "false" (default: true)
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if err := envDuration("PROVIDER_TIMEOUT", &cfg.Timeout); err != nil {
		return cfg, err
	}
	if err := envInt("PROVIDER_MAX_ATTEMPTS", &cfg.MaxAttempts); err != nil {
		return cfg, err
	}
	if err := envDuration("PROVIDER_RETRY_INITIAL_DELAY", &cfg.InitialDelay); err != nil {
		return cfg, err
	}
	if err := envDuration("PROVIDER_RETRY_MAX_DELAY", &cfg.MaxDelay); err != nil {
		return cfg, err
	}

	if val := os.Getenv("PROVIDER_MAX_BODY_SIZE"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid PROVIDER_MAX_BODY_SIZE: %v", err)
		}
		cfg.MaxBodySize = parsed
	}

	if val := os.Getenv("PROVIDER_RATE_LIMIT_RPS"); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid PROVIDER_RATE_LIMIT_RPS: %v", err)
		}
		cfg.RateLimitRPS = parsed
	}
	if err := envInt("PROVIDER_RATE_LIMIT_BURST", &cfg.RateLimitBurst); err != nil {
		return cfg, err
	}

	if val := os.Getenv("PROVIDER_CIRCUIT_BREAKER_ENABLED"); val != "" {
		cfg.CircuitBreakerEnabled = val == "true"
	}
	if val := os.Getenv("PROVIDER_DENY_PRIVATE_IPS"); val != "" {
		cfg.DenyPrivateIPs = val == "true"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func envDuration(key string, dst *time.Duration) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fmt.Errorf("invalid %s: %v (expected format: '10s', '1m')", key, err)
	}
	*dst = parsed
	return nil
}

func envInt(key string, dst *int) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid %s: %v", key, err)
	}
	*dst = parsed
	return nil
}
