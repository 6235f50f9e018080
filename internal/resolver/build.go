package resolver

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/compass/internal/geocoding"
	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/models"
)

// Options describes a provider chain as read from configuration.
type Options struct {
	Providers          []models.ProviderSpec // Chain links, in any order
	Timeout            time.Duration         // Per-provider timeout
	InsecureSkipVerify bool                  // Skip TLS verification for the chain's client only
	UserAgent          string                // Outbound User-Agent
}

// Build creates every provider of the chain over one shared HTTP client and returns the Resolver.
func Build(log *slog.Logger, opts Options, m *metrics.Metrics) (*Resolver, error) {
	if opts.InsecureSkipVerify {
		log.Warn("TLS certificate verification is disabled for geocoding providers",
			"providers", len(opts.Providers))
	}

	client := geocoding.NewHTTPClient(geocoding.TransportConfig{
		Timeout:            opts.Timeout,
		InsecureSkipVerify: opts.InsecureSkipVerify,
	})

	links := make([]Link, 0, len(opts.Providers))
	for _, spec := range opts.Providers {
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Spec:       spec,
			HTTPClient: client,
			UserAgent:  opts.UserAgent,
			Logger:     log,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create provider %q: %w", spec.ID, err)
		}
		links = append(links, Link{Spec: spec, Provider: provider})
	}

	return New(log, links, opts.Timeout, m)
}
