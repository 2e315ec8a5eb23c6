package provider

import (
	"log/slog"
	"net/http"

	"news-hub/internal/domain/entity"
	"news-hub/internal/infra/fetcher"
	"news-hub/internal/usecase/news"
)

// Options selects and configures the adapters to build.
// An adapter whose credential (or feed list) is empty is not built.
type Options struct {
	NewsAPIKey  string
	GuardianKey string
	NYTKey      string
	RSSFeeds    []string

	Fetcher fetcher.Config
	// HTTPClient is shared by all adapters. Nil gives each adapter the fetcher's default client.
	HTTPClient *http.Client

	// Base URL overrides, used by tests.
	NewsAPIBaseURL  string
	GuardianBaseURL string
	NYTBaseURL      string
}

// Set is the group of adapters built from Options, in registration order.
type Set struct {
	providers []news.Provider
	clients   map[entity.ProviderID]*fetcher.Client
}

// NewSet builds an adapter for every configured provider, each with its own fetcher client.
func NewSet(opts Options) *Set {
	s := &Set{clients: make(map[entity.ProviderID]*fetcher.Client)}

	if opts.NewsAPIKey != "" {
		s.add(NewNewsAPI(s.client(entity.ProviderNewsAPI, opts), opts.NewsAPIKey, opts.NewsAPIBaseURL))
	}
	if opts.GuardianKey != "" {
		s.add(NewGuardian(s.client(entity.ProviderGuardian, opts), opts.GuardianKey, opts.GuardianBaseURL))
	}
	if opts.NYTKey != "" {
		s.add(NewNYT(s.client(entity.ProviderNYT, opts), opts.NYTKey, opts.NYTBaseURL))
	}
	if len(opts.RSSFeeds) > 0 {
		s.add(NewRSS(s.client(entity.ProviderRSS, opts), opts.RSSFeeds))
	}

	for _, id := range entity.KnownProviders {
		if _, ok := s.clients[id]; !ok {
			slog.Info("provider disabled, no credentials configured", slog.String("provider", string(id)))
		}
	}
	return s
}

func (s *Set) client(id entity.ProviderID, opts Options) *fetcher.Client {
	c := fetcher.NewClient(string(id), opts.HTTPClient, opts.Fetcher)
	s.clients[id] = c
	return c
}

func (s *Set) add(p news.Provider) {
	s.providers = append(s.providers, p)
	slog.Info("provider enabled", slog.String("provider", string(p.ID())), slog.String("name", p.Name()))
}

// Providers returns the built adapters.
func (s *Set) Providers() []news.Provider {
	return s.providers
}

// BreakerStates reports the circuit breaker state of each built provider.
func (s *Set) BreakerStates() map[string]string {
	out := make(map[string]string, len(s.clients))
	for id, c := range s.clients {
		out[string(id)] = c.BreakerState()
	}
	return out
}
