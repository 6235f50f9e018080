package geocoding

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/UnknownOlympus/compass/internal/models"
	"golang.org/x/time/rate"
)

// MapboxBaseURL -- Mapbox places geocoding endpoint. The query is appended as a path segment.
const MapboxBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// MapboxProvider implements geocoding using the Mapbox API.
type MapboxProvider struct {
	client    HTTPClient    // HTTP client for making requests
	baseURL   string        // Base URL for the Mapbox API
	apiKey    string        // Access token with geocoding scope
	userAgent string        // Outbound User-Agent
	limiter   *rate.Limiter // Rate limiter
	log       *slog.Logger  // Logger for logging operations
}

// Mapbox API response (simplified for geocoding use-case).
type mapboxResponse struct {
	Features []struct {
		Center    []float64 `json:"center"` // [lon, lat]
		PlaceName string    `json:"place_name"`
		Context   []struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"context"`
	} `json:"features"`
}

// NewMapboxProvider creates a new Mapbox geocoding provider. An empty baseURL selects the public endpoint.
func NewMapboxProvider(
	client HTTPClient,
	baseURL, apiKey, userAgent string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *MapboxProvider {
	if baseURL == "" {
		baseURL = MapboxBaseURL
	}

	return &MapboxProvider{
		client:    client,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		apiKey:    apiKey,
		userAgent: userAgent,
		limiter:   limiter,
		log:       log,
	}
}

// Geocode converts a location into geographic coordinates using the Mapbox API.
func (mp *MapboxProvider) Geocode(ctx context.Context, query string) (*models.GeoResult, error) {
	const coordsListLength = 2

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	// Rate limit
	if err := waitLimiter(ctx, mp.limiter); err != nil {
		return nil, err
	}

	mp.log.DebugContext(ctx, "Geocoding using Mapbox", "query", query)

	params := url.Values{}
	params.Set("access_token", mp.apiKey)
	params.Set("limit", "1")

	req, err := newGetRequest(ctx, mp.baseURL+"/"+url.PathEscape(query)+".json", params, mp.userAgent)
	if err != nil {
		return nil, err
	}

	var resp mapboxResponse
	if err = getJSON(ctx, mp.client, mp.log, "mapbox", req, &resp); err != nil {
		return nil, err
	}

	if len(resp.Features) == 0 {
		return nil, ErrProviderNoResults
	}
	feature := resp.Features[0]

	if len(feature.Center) != coordsListLength {
		return nil, ErrProviderMalformedResponse
	}

	lon := feature.Center[0]
	lat := feature.Center[1]

	result, err := newGeoResult(lat, lon, firstNonEmpty(feature.PlaceName, query))
	if err != nil {
		return nil, err
	}

	for _, item := range feature.Context {
		switch {
		case strings.HasPrefix(item.ID, "country"):
			result.Country = item.Text
		case strings.HasPrefix(item.ID, "region"):
			result.State = item.Text
		case strings.HasPrefix(item.ID, "place"):
			result.City = item.Text
		}
	}

	mp.log.DebugContext(ctx, "Mapbox found result", "query", query, "lat", lat, "lon", lon)

	return result, nil
}
