package models

// ProviderSpec describes one link of the provider chain.
// Specs are built once from configuration and never mutated at runtime.
type ProviderSpec struct {
	ID        string `mapstructure:"id"`         // Unique provider ID, reported in results and errors.
	Type      string `mapstructure:"type"`       // Provider implementation (nominatim, mapbox, google...).
	Priority  int    `mapstructure:"priority"`   // Lower priority is tried first.
	Endpoint  string `mapstructure:"endpoint"`   // Optional endpoint override.
	APIKey    string `mapstructure:"api_key"`    // API key for keyed providers.
	RateLimit int    `mapstructure:"rate_limit"` // Requests per second, 0 means provider default.
}
