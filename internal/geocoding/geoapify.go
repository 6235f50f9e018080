package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/UnknownOlympus/compass/internal/models"
	"golang.org/x/time/rate"
)

// GeoapifyBaseURL -- Geoapify forward geocoding endpoint.
const GeoapifyBaseURL = "https://api.geoapify.com/v1/geocode/search"

// GeoapifyProvider implements geocoding using the Geoapify API.
type GeoapifyProvider struct {
	client    HTTPClient
	baseURL   string
	apiKey    string
	userAgent string
	limiter   *rate.Limiter
	log       *slog.Logger
}

type geoapifyResponse struct {
	Features []struct {
		Properties struct {
			Lat       *float64 `json:"lat"`
			Lon       *float64 `json:"lon"`
			Formatted string   `json:"formatted"`
			City      string   `json:"city"`
			State     string   `json:"state"`
			Country   string   `json:"country"`
		} `json:"properties"`
	} `json:"features"`
}

// NewGeoapifyProvider creates a Geoapify provider. An empty baseURL selects the public endpoint.
func NewGeoapifyProvider(
	client HTTPClient,
	baseURL, apiKey, userAgent string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *GeoapifyProvider {
	if baseURL == "" {
		baseURL = GeoapifyBaseURL
	}

	return &GeoapifyProvider{
		client:    client,
		baseURL:   baseURL,
		apiKey:    apiKey,
		userAgent: userAgent,
		limiter:   limiter,
		log:       log,
	}
}

// Geocode resolves a location using the first GeoJSON feature returned by Geoapify.
func (gp *GeoapifyProvider) Geocode(ctx context.Context, query string) (*models.GeoResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	if err := waitLimiter(ctx, gp.limiter); err != nil {
		return nil, err
	}

	gp.log.DebugContext(ctx, "Geocoding using Geoapify", "query", query)

	params := url.Values{}
	params.Set("text", query)
	params.Set("limit", "1")
	params.Set("apiKey", gp.apiKey)

	req, err := newGetRequest(ctx, gp.baseURL, params, gp.userAgent)
	if err != nil {
		return nil, err
	}

	var resp geoapifyResponse
	if err = getJSON(ctx, gp.client, gp.log, "geoapify", req, &resp); err != nil {
		return nil, err
	}

	if len(resp.Features) == 0 {
		return nil, ErrProviderNoResults
	}
	props := resp.Features[0].Properties

	if props.Lat == nil || props.Lon == nil {
		return nil, fmt.Errorf("%w: geoapify feature without coordinates", ErrProviderMalformedResponse)
	}

	result, err := newGeoResult(*props.Lat, *props.Lon, firstNonEmpty(props.Formatted, query))
	if err != nil {
		return nil, err
	}
	result.City = props.City
	result.State = props.State
	result.Country = props.Country

	return result, nil
}
