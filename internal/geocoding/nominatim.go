package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/compass/internal/models"
	"golang.org/x/time/rate"
)

// Endpoints of the services speaking the Nominatim search API.
const (
	NominatimBaseURL   = "https://nominatim.openstreetmap.org/search"
	LocationIQBaseURL  = "https://us1.locationiq.com/v1/search"
	GeocodeMapsBaseURL = "https://geocode.maps.co/search"
)

// NominatimProvider implements the Provider interface using the Nominatim search API.
// LocationIQ and geocode.maps.co expose the same API and are served by this type as well;
// they only differ by endpoint and by the name of the API key parameter.
type NominatimProvider struct {
	client    HTTPClient    // HTTP client for making requests
	name      string        // Service name used in logs and errors
	baseURL   string        // Search endpoint
	keyParam  string        // Query parameter carrying the API key
	apiKey    string        // API key, empty for the public Nominatim instance
	userAgent string        // Required by the Nominatim usage policy
	limiter   *rate.Limiter // Optional rate limiter
	log       *slog.Logger  // Logger for logging operations
}

// NominatimOptions configures a NominatimProvider. Zero values select the public Nominatim instance.
type NominatimOptions struct {
	Name      string
	BaseURL   string
	KeyParam  string
	APIKey    string
	UserAgent string
	Limiter   *rate.Limiter
}

// nominatimResponse represents one entry of the JSON array returned by the search API.
type nominatimResponse struct {
	Lat         string `json:"lat"` // Latitude as string
	Lon         string `json:"lon"` // Longitude as string
	DisplayName string `json:"display_name"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}

// NewNominatimProvider creates a provider for a Nominatim-compatible search API.
func NewNominatimProvider(client HTTPClient, opts NominatimOptions, log *slog.Logger) *NominatimProvider {
	if opts.Name == "" {
		opts.Name = string(ProviderTypeNominatim)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = NominatimBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	return &NominatimProvider{
		client:    client,
		name:      opts.Name,
		baseURL:   opts.BaseURL,
		keyParam:  opts.KeyParam,
		apiKey:    opts.APIKey,
		userAgent: opts.UserAgent,
		limiter:   opts.Limiter,
		log:       log,
	}
}

// Geocode resolves a free-text location with a single search request.
// Only the top result is requested; its address details fill the city, state and country fields.
func (np *NominatimProvider) Geocode(ctx context.Context, query string) (*models.GeoResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	if err := waitLimiter(ctx, np.limiter); err != nil {
		return nil, err
	}

	np.log.DebugContext(ctx, "Geocoding using Nominatim API", "service", np.name, "query", query)

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")
	params.Set("accept-language", "en")
	if np.apiKey != "" && np.keyParam != "" {
		params.Set(np.keyParam, np.apiKey)
	}

	req, err := newGetRequest(ctx, np.baseURL, params, np.userAgent)
	if err != nil {
		return nil, err
	}

	var results []nominatimResponse
	if err = getJSON(ctx, np.client, np.log, np.name, req, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, ErrProviderNoResults
	}
	top := results[0]

	lat, err := strconv.ParseFloat(top.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %q", ErrProviderMalformedResponse, top.Lat)
	}
	lon, err := strconv.ParseFloat(top.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %q", ErrProviderMalformedResponse, top.Lon)
	}

	result, err := newGeoResult(lat, lon, firstNonEmpty(top.DisplayName, query))
	if err != nil {
		return nil, err
	}
	result.City = firstNonEmpty(top.Address.City, top.Address.Town, top.Address.Village)
	result.State = top.Address.State
	result.Country = top.Address.Country

	np.log.DebugContext(ctx, "Nominatim found result", "service", np.name, "lat", lat, "lon", lon)

	return result, nil
}
