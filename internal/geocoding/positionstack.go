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

// PositionStackBaseURL -- PositionStack forward geocoding endpoint.
const PositionStackBaseURL = "https://api.positionstack.com/v1/forward"

// PositionStackProvider implements geocoding using the PositionStack API.
type PositionStackProvider struct {
	client    HTTPClient
	baseURL   string
	apiKey    string
	userAgent string
	limiter   *rate.Limiter
	log       *slog.Logger
}

type positionstackResponse struct {
	Data []struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Label     string   `json:"label"`
		Name      string   `json:"name"`
		Region    string   `json:"region"`
		Country   string   `json:"country"`
	} `json:"data"`
}

// NewPositionStackProvider creates a PositionStack provider. An empty baseURL selects the public endpoint.
func NewPositionStackProvider(
	client HTTPClient,
	baseURL, apiKey, userAgent string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *PositionStackProvider {
	if baseURL == "" {
		baseURL = PositionStackBaseURL
	}

	return &PositionStackProvider{
		client:    client,
		baseURL:   baseURL,
		apiKey:    apiKey,
		userAgent: userAgent,
		limiter:   limiter,
		log:       log,
	}
}

// Geocode resolves a location using the first entry of the PositionStack data array.
func (pp *PositionStackProvider) Geocode(ctx context.Context, query string) (*models.GeoResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	if err := waitLimiter(ctx, pp.limiter); err != nil {
		return nil, err
	}

	pp.log.DebugContext(ctx, "Geocoding using PositionStack", "query", query)

	params := url.Values{}
	params.Set("access_key", pp.apiKey)
	params.Set("query", query)
	params.Set("limit", "1")

	req, err := newGetRequest(ctx, pp.baseURL, params, pp.userAgent)
	if err != nil {
		return nil, err
	}

	var resp positionstackResponse
	if err = getJSON(ctx, pp.client, pp.log, "positionstack", req, &resp); err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, ErrProviderNoResults
	}
	item := resp.Data[0]

	if item.Latitude == nil || item.Longitude == nil {
		return nil, fmt.Errorf("%w: positionstack entry without coordinates", ErrProviderMalformedResponse)
	}

	name := item.Label
	if name == "" {
		name = joinNonEmpty(", ", item.Name, item.Region, item.Country)
	}

	result, err := newGeoResult(*item.Latitude, *item.Longitude, name)
	if err != nil {
		return nil, err
	}
	result.City = item.Name
	result.State = item.Region
	result.Country = item.Country

	return result, nil
}
