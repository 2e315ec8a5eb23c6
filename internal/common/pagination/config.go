// Package pagination provides page/pageSize normalization and window math
// shared by the aggregator and the HTTP layer.
package pagination

// Config holds pagination configuration settings.
type Config struct {
	DefaultPage     int // Default page number (1)
	DefaultPageSize int // Default items per page (20)
	MaxPageSize     int // Largest page size served; larger requests are clamped (50)
}

// DefaultConfig returns the default pagination configuration.
// Default values: page=1, pageSize=20, max=50
func DefaultConfig() Config {
	return Config{
		DefaultPage:     1,
		DefaultPageSize: 20,
		MaxPageSize:     50,
	}
}
