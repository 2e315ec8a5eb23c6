package config

// Config is the complete process configuration.
type Config struct {
	Server     *ServerConfig
	Providers  *ProvidersConfig
	Aggregator *AggregatorConfig
}

// Load reads every section from the environment.
func Load() (*Config, error) {
	server, err := LoadServerConfig()
	if err != nil {
		return nil, err
	}
	providers, err := LoadProvidersConfig()
	if err != nil {
		return nil, err
	}
	aggregator, err := LoadAggregatorConfig()
	if err != nil {
		return nil, err
	}
	return &Config{Server: server, Providers: providers, Aggregator: aggregator}, nil
}
