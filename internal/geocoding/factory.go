package geocoding

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/compass/internal/models"
	"googlemaps.github.io/maps"
)

// ProviderType represents the type of geocoding provider.
type ProviderType string

const (
	// ProviderTypeNominatim represents OpenStreetMap Nominatim geocoding provider.
	ProviderTypeNominatim ProviderType = "nominatim"
	// ProviderTypeLocationIQ represents LocationIQ, a hosted Nominatim API.
	ProviderTypeLocationIQ ProviderType = "locationiq"
	// ProviderTypeGeocodeMaps represents geocode.maps.co, a hosted Nominatim API.
	ProviderTypeGeocodeMaps ProviderType = "geocodemaps"
	// ProviderTypeGeoapify represents Geoapify geocoding provider.
	ProviderTypeGeoapify ProviderType = "geoapify"
	// ProviderTypeMapbox represents Mapbox geocoding provider.
	ProviderTypeMapbox ProviderType = "mapbox"
	// ProviderTypePositionStack represents PositionStack geocoding provider.
	ProviderTypePositionStack ProviderType = "positionstack"
	// ProviderTypeGoogle represents Google Maps geocoding provider.
	ProviderTypeGoogle ProviderType = "google"
)

// nominatimFairUse is the request rate allowed by the public Nominatim usage policy.
const nominatimFairUse = 1

// ErrMissingAPIKey is returned when a keyed provider is configured without a key.
var ErrMissingAPIKey = errors.New("API key is required")

// ProviderConfig holds configuration for creating a geocoding provider.
type ProviderConfig struct {
	Spec       models.ProviderSpec // Spec describes the provider to create
	HTTPClient *http.Client        // Shared client of the chain; built with NewHTTPClient when nil
	UserAgent  string              // Outbound User-Agent; DefaultUserAgent when empty
	Logger     *slog.Logger        // Logger for the provider
}

// NewProvider creates a geocoding provider based on the provided configuration.
// It applies the Factory pattern to decouple provider instantiation from business logic.
//
// Returns an error if the provider type is unsupported or if a required API key is missing.
func NewProvider(config ProviderConfig) (Provider, error) {
	if config.HTTPClient == nil {
		config.HTTPClient = NewHTTPClient(TransportConfig{})
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	config.Logger = config.Logger.With("provider", config.Spec.ID)

	switch ProviderType(config.Spec.Type) {
	case ProviderTypeNominatim:
		return newNominatimProvider(config), nil
	case ProviderTypeLocationIQ:
		return newKeyedNominatimProvider(config, LocationIQBaseURL, "key")
	case ProviderTypeGeocodeMaps:
		return newGeocodeMapsProvider(config), nil
	case ProviderTypeGeoapify:
		if err := requireAPIKey(config.Spec); err != nil {
			return nil, err
		}
		return NewGeoapifyProvider(config.HTTPClient, config.Spec.Endpoint, config.Spec.APIKey, config.UserAgent,
			newLimiter(config.Spec.RateLimit), config.Logger), nil
	case ProviderTypeMapbox:
		if err := requireAPIKey(config.Spec); err != nil {
			return nil, err
		}
		return NewMapboxProvider(config.HTTPClient, config.Spec.Endpoint, config.Spec.APIKey, config.UserAgent,
			newLimiter(config.Spec.RateLimit), config.Logger), nil
	case ProviderTypePositionStack:
		if err := requireAPIKey(config.Spec); err != nil {
			return nil, err
		}
		return NewPositionStackProvider(config.HTTPClient, config.Spec.Endpoint, config.Spec.APIKey,
			config.UserAgent, newLimiter(config.Spec.RateLimit), config.Logger), nil
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Spec.Type)
	}
}

func requireAPIKey(spec models.ProviderSpec) error {
	if spec.APIKey == "" {
		return fmt.Errorf("%w for %s provider %q", ErrMissingAPIKey, spec.Type, spec.ID)
	}

	return nil
}

// newNominatimProvider creates a provider for the public Nominatim API.
// Nominatim is free and doesn't require an API key, but it is limited to one request per second.
func newNominatimProvider(config ProviderConfig) Provider {
	rateLimit := config.Spec.RateLimit
	if rateLimit == 0 {
		rateLimit = nominatimFairUse
	}

	return NewNominatimProvider(config.HTTPClient, NominatimOptions{
		Name:      config.Spec.ID,
		BaseURL:   config.Spec.Endpoint,
		UserAgent: config.UserAgent,
		Limiter:   newLimiter(rateLimit),
	}, config.Logger)
}

// newKeyedNominatimProvider creates a provider for a hosted Nominatim API requiring a key.
func newKeyedNominatimProvider(config ProviderConfig, defaultURL, keyParam string) (Provider, error) {
	if err := requireAPIKey(config.Spec); err != nil {
		return nil, err
	}

	return NewNominatimProvider(config.HTTPClient, NominatimOptions{
		Name:      config.Spec.ID,
		BaseURL:   firstNonEmpty(config.Spec.Endpoint, defaultURL),
		KeyParam:  keyParam,
		APIKey:    config.Spec.APIKey,
		UserAgent: config.UserAgent,
		Limiter:   newLimiter(config.Spec.RateLimit),
	}, config.Logger), nil
}

// newGeocodeMapsProvider creates a geocode.maps.co provider. The key is optional for this service.
func newGeocodeMapsProvider(config ProviderConfig) Provider {
	return NewNominatimProvider(config.HTTPClient, NominatimOptions{
		Name:      config.Spec.ID,
		BaseURL:   firstNonEmpty(config.Spec.Endpoint, GeocodeMapsBaseURL),
		KeyParam:  "api_key",
		APIKey:    config.Spec.APIKey,
		UserAgent: config.UserAgent,
		Limiter:   newLimiter(config.Spec.RateLimit),
	}, config.Logger)
}

// newGoogleProvider creates a Google Maps geocoding provider.
func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if err := requireAPIKey(config.Spec); err != nil {
		return nil, err
	}

	// Create Google Maps client with API key and the chain's HTTP client
	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.Spec.APIKey),
		maps.WithHTTPClient(config.HTTPClient),
	}

	// Apply rate limiting if specified
	if config.Spec.RateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(config.Spec.RateLimit))
	}

	if config.Spec.Endpoint != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(config.Spec.Endpoint))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}
