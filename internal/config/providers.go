package config

import (
	"fmt"
	"net/url"
	"os"

	"news-hub/internal/infra/fetcher"
)

// ProvidersConfig holds upstream credentials and the shared fetcher settings.
// A provider without a credential is not built.
type ProvidersConfig struct {
	NewsAPIKey  string
	GuardianKey string
	NYTKey      string
	// RSSFeeds are the feed URLs served by the rss provider.
	RSSFeeds []string

	Fetcher fetcher.Config
}

// LoadProvidersConfig reads NEWSAPI_KEY, GUARDIAN_KEY, NYT_KEY, RSS_FEEDS and
// the PROVIDER_* fetcher settings.
func LoadProvidersConfig() (*ProvidersConfig, error) {
	fetcherCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	cfg := &ProvidersConfig{
		NewsAPIKey:  os.Getenv("NEWSAPI_KEY"),
		GuardianKey: os.Getenv("GUARDIAN_KEY"),
		NYTKey:      os.Getenv("NYT_KEY"),
		RSSFeeds:    splitList(os.Getenv("RSS_FEEDS")),
		Fetcher:     fetcherCfg,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid provider configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that every feed is an absolute http(s) URL.
func (c *ProvidersConfig) Validate() error {
	for _, feed := range c.RSSFeeds {
		u, err := url.Parse(feed)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("RSS_FEEDS entry %q is not an http(s) URL", feed)
		}
	}
	return nil
}

// Enabled reports whether at least one provider can be built.
func (c *ProvidersConfig) Enabled() bool {
	return c.NewsAPIKey != "" || c.GuardianKey != "" || c.NYTKey != "" || len(c.RSSFeeds) > 0
}
