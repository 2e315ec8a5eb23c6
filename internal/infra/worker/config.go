// Package worker runs the scheduled cache warm-up that keeps the article cache
// populated between user requests.
package worker

import (
	"log/slog"
	"time"

	"news-hub/internal/pkg/config"
)

// WarmerConfig controls the cache warm-up schedule.
type WarmerConfig struct {
	// Schedule is a standard cron spec. Empty disables warm-up.
	Schedule string
	// Timezone the schedule is evaluated in. Default: "UTC"
	Timezone string
	// Timeout bounds one warm-up run. Default: 2m
	Timeout time.Duration
}

const (
	minWarmTimeout = time.Second
	maxWarmTimeout = 10 * time.Minute
)

// DefaultWarmerConfig returns a disabled warmer with default timing.
func DefaultWarmerConfig() WarmerConfig {
	return WarmerConfig{
		Timezone: "UTC",
		Timeout:  2 * time.Minute,
	}
}

// Enabled reports whether a schedule is configured.
func (c WarmerConfig) Enabled() bool { return c.Schedule != "" }

// LoadWarmerConfig reads CACHE_WARM_SCHEDULE, CACHE_WARM_TIMEZONE and
// CACHE_WARM_TIMEOUT. Loading never fails: an invalid value is replaced by its
// default, which for the schedule means warm-up stays off. metrics may be nil.
func LoadWarmerConfig(logger *slog.Logger, metrics *config.ConfigMetrics) WarmerConfig {
	def := DefaultWarmerConfig()
	f := config.NewFallbacks(logger, metrics)

	cfg := WarmerConfig{
		Schedule: config.Apply(f, "schedule",
			config.String("CACHE_WARM_SCHEDULE", def.Schedule, config.ValidateCronSchedule)),
		Timezone: config.Apply(f, "timezone",
			config.String("CACHE_WARM_TIMEZONE", def.Timezone, config.ValidateTimezone)),
		Timeout: config.Apply(f, "timeout",
			config.Duration("CACHE_WARM_TIMEOUT", def.Timeout, func(d time.Duration) error {
				return config.ValidateDuration(d, minWarmTimeout, maxWarmTimeout)
			})),
	}
	f.Done()
	return cfg
}
