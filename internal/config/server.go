package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server and process settings.
type ServerConfig struct {
	// Addr is the listen address. Default: ":8080"
	Addr string
	// RequestTimeout bounds one API request, including the provider fan-out. Default: 45s
	RequestTimeout time.Duration
	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout time.Duration
	// RateLimitRPS is the per-client request rate. 0 disables the limiter. Default: 0
	RateLimitRPS float64
	// RateLimitBurst is the per-client burst. Default: 20
	RateLimitBurst int
	// Version is reported by /health and tracing.
	Version string
}

// LoadServerConfig loads server configuration from environment variables.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{
		Addr:            getEnvOrDefault("HTTP_ADDR", ":8080"),
		RequestTimeout:  45 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		RateLimitBurst:  20,
		Version:         getEnvOrDefault("VERSION", "dev"),
	}

	for _, apply := range []func() error{
		func() error { return envDuration("HTTP_REQUEST_TIMEOUT", &cfg.RequestTimeout) },
		func() error { return envDuration("HTTP_SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout) },
		func() error { return envFloat("HTTP_RATE_LIMIT_RPS", &cfg.RateLimitRPS) },
		func() error { return envInt("HTTP_RATE_LIMIT_BURST", &cfg.RateLimitBurst) },
	} {
		if err := apply(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("HTTP_ADDR cannot be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("HTTP_REQUEST_TIMEOUT must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("HTTP_RATE_LIMIT_RPS must be non-negative")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("HTTP_RATE_LIMIT_BURST must be at least 1")
	}
	return nil
}
