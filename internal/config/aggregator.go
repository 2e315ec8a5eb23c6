package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"news-hub/internal/common/pagination"
	"news-hub/internal/domain/entity"
	"news-hub/internal/usecase/news"

	"gopkg.in/yaml.v3"
)

// AggregatorConfig tunes search, ranking and the article cache.
type AggregatorConfig struct {
	DefaultPageSize int           `yaml:"default_page_size"`
	MaxPageSize     int           `yaml:"max_page_size"`
	OverfetchFactor int           `yaml:"overfetch_factor"`
	Priority        []string      `yaml:"provider_priority"`
	Ranking         RankingConfig `yaml:"ranking"`
	Cache           CacheConfig   `yaml:"cache"`
}

// RankingConfig holds preference weights.
type RankingConfig struct {
	Source          int           `yaml:"source"`
	Category        int           `yaml:"category"`
	Author          int           `yaml:"author"`
	FreshnessMax    int           `yaml:"freshness_max"`
	FreshnessBucket time.Duration `yaml:"freshness_bucket"`
}

// CacheConfig bounds the article id cache.
type CacheConfig struct {
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
}

// DefaultAggregatorConfig returns the built-in tuning.
func DefaultAggregatorConfig() AggregatorConfig {
	svc := news.DefaultConfig()
	priority := make([]string, len(svc.Priority))
	for i, p := range svc.Priority {
		priority[i] = string(p)
	}
	return AggregatorConfig{
		DefaultPageSize: svc.DefaultPageSize,
		MaxPageSize:     svc.MaxPageSize,
		OverfetchFactor: svc.OverfetchFactor,
		Priority:        priority,
		Ranking: RankingConfig{
			Source:          svc.Weights.Source,
			Category:        svc.Weights.Category,
			Author:          svc.Weights.Author,
			FreshnessMax:    svc.Weights.FreshnessMax,
			FreshnessBucket: svc.Weights.FreshnessBucket,
		},
		Cache: CacheConfig{
			TTL:        time.Hour,
			MaxEntries: 10000,
		},
	}
}

// LoadAggregatorConfig applies, in order: defaults, the YAML file named by
// AGGREGATOR_CONFIG_FILE (when set) and AGGREGATOR_* environment overrides.
func LoadAggregatorConfig() (*AggregatorConfig, error) {
	cfg := DefaultAggregatorConfig()

	if path := os.Getenv("AGGREGATOR_CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	for _, apply := range []func() error{
		func() error { return envInt("AGGREGATOR_DEFAULT_PAGE_SIZE", &cfg.DefaultPageSize) },
		func() error { return envInt("AGGREGATOR_MAX_PAGE_SIZE", &cfg.MaxPageSize) },
		func() error { return envInt("AGGREGATOR_OVERFETCH_FACTOR", &cfg.OverfetchFactor) },
		func() error { return envDuration("AGGREGATOR_CACHE_TTL", &cfg.Cache.TTL) },
		func() error { return envInt("AGGREGATOR_CACHE_MAX_ENTRIES", &cfg.Cache.MaxEntries) },
	} {
		if err := apply(); err != nil {
			return nil, err
		}
	}
	if v := os.Getenv("AGGREGATOR_PROVIDER_PRIORITY"); v != "" {
		cfg.Priority = splitList(v)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid aggregator configuration: %w", err)
	}
	return &cfg, nil
}

// overlayFile merges the YAML file at path over the current values.
// Keys absent from the file keep their current value.
func (c *AggregatorConfig) overlayFile(path string) error {
	// #nosec G304 -- path comes from the operator's environment, not from requests
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file struct {
		Aggregator *AggregatorConfig `yaml:"aggregator"`
	}
	file.Aggregator = c
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// Validate checks configuration correctness.
func (c *AggregatorConfig) Validate() error {
	if c.MaxPageSize <= 0 || c.MaxPageSize > 100 {
		return fmt.Errorf("max page size must be between 1 and 100, got %d", c.MaxPageSize)
	}
	if c.DefaultPageSize <= 0 || c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("default page size must be between 1 and max page size, got %d", c.DefaultPageSize)
	}
	if c.OverfetchFactor < 1 || c.OverfetchFactor > 10 {
		return fmt.Errorf("overfetch factor must be between 1 and 10, got %d", c.OverfetchFactor)
	}
	if _, err := entity.ParseProviderIDs(strings.Join(c.Priority, ",")); err != nil {
		return fmt.Errorf("provider priority: %w", err)
	}
	if c.Ranking.Source < 0 || c.Ranking.Category < 0 || c.Ranking.Author < 0 || c.Ranking.FreshnessMax < 0 {
		return fmt.Errorf("ranking weights must be non-negative")
	}
	if c.Ranking.FreshnessBucket < 0 {
		return fmt.Errorf("freshness bucket must be non-negative, got %v", c.Ranking.FreshnessBucket)
	}
	if c.Cache.TTL < 0 || c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache ttl and max entries must be non-negative")
	}
	return nil
}

// PaginationConfig returns the page bounds the HTTP layer validates against.
func (c *AggregatorConfig) PaginationConfig() pagination.Config {
	return pagination.Config{
		DefaultPage:     1,
		DefaultPageSize: c.DefaultPageSize,
		MaxPageSize:     c.MaxPageSize,
	}
}

// ServiceConfig converts the tuning into the aggregator's configuration.
// It assumes Validate has passed.
func (c *AggregatorConfig) ServiceConfig() news.Config {
	priority, _ := entity.ParseProviderIDs(strings.Join(c.Priority, ","))
	cfg := news.DefaultConfig()
	cfg.DefaultPageSize = c.DefaultPageSize
	cfg.MaxPageSize = c.MaxPageSize
	cfg.OverfetchFactor = c.OverfetchFactor
	if len(priority) > 0 {
		cfg.Priority = priority
	}
	cfg.Weights = news.RankWeights{
		Source:          c.Ranking.Source,
		Category:        c.Ranking.Category,
		Author:          c.Ranking.Author,
		FreshnessMax:    c.Ranking.FreshnessMax,
		FreshnessBucket: c.Ranking.FreshnessBucket,
	}
	return cfg
}
