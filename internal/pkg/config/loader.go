// Package config provides fail-open environment loading for optional
// background components. A malformed or out-of-range value never stops the
// process: the default is used, a warning is logged and fallback metrics move.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of loading one environment variable.
type Result[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

// Load reads envKey, parses and validates it. Unset or blank variables yield
// def without a warning. Parse or validation failures yield def with a warning.
// validate may be nil.
func Load[T any](envKey string, def T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return Result[T]{Value: def}
	}

	v, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(v)
	}
	if err != nil {
		return Result[T]{
			Value:           def,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to default %v", envKey, raw, err, def),
			FallbackApplied: true,
		}
	}
	return Result[T]{Value: v}
}

// String loads a string variable.
func String(envKey, def string, validate func(string) error) Result[string] {
	return Load(envKey, def, func(s string) (string, error) { return s, nil }, validate)
}

// Duration loads a time.ParseDuration variable such as "90s".
func Duration(envKey string, def time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	return Load(envKey, def, time.ParseDuration, validate)
}

// Int loads a base-10 integer variable.
func Int(envKey string, def int, validate func(int) error) Result[int] {
	return Load(envKey, def, strconv.Atoi, validate)
}

// Fallbacks applies loaded results while logging and counting every fallback.
type Fallbacks struct {
	logger  *slog.Logger
	metrics *ConfigMetrics
	applied bool
}

// NewFallbacks creates a tracker. metrics may be nil.
func NewFallbacks(logger *slog.Logger, metrics *ConfigMetrics) *Fallbacks {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallbacks{logger: logger, metrics: metrics}
}

// Apply returns r.Value, recording a fallback for field when one happened.
func Apply[T any](f *Fallbacks, field string, r Result[T]) T {
	if r.FallbackApplied {
		f.applied = true
		f.logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", r.Warning))
		if f.metrics != nil {
			f.metrics.RecordFallback(field)
		}
	}
	return r.Value
}

// Done publishes whether any fallback is active and stamps the load time.
func (f *Fallbacks) Done() {
	if f.metrics == nil {
		return
	}
	f.metrics.SetFallbackActive(f.applied)
	f.metrics.RecordLoadTimestamp()
}

// Applied reports whether any Apply call fell back to a default.
func (f *Fallbacks) Applied() bool { return f.applied }
