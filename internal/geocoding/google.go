package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/compass/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It is used to interact with the
// Google Maps geocoding services.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// NewGoogleProvider initializes a new GoogleProvider with the given Maps client and logger.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Geocode takes a context and a location string as input, and returns the best match
// reported by the Google Maps Geocoding API, including country, state and locality components.
func (gp *GoogleProvider) Geocode(ctx context.Context, query string) (*models.GeoResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "query", query)

	req := maps.GeocodingRequest{Address: query}
	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, classifyGoogleError(err)
	}

	if len(geocodeResponse) == 0 {
		return nil, ErrProviderNoResults
	}
	top := geocodeResponse[0]
	coords := top.Geometry.Location

	result, err := newGeoResult(coords.Lat, coords.Lng, firstNonEmpty(top.FormattedAddress, query))
	if err != nil {
		return nil, err
	}

	for _, component := range top.AddressComponents {
		for _, kind := range component.Types {
			switch kind {
			case "country":
				result.Country = component.LongName
			case "administrative_area_level_1":
				result.State = component.LongName
			case "locality":
				result.City = component.LongName
			}
		}
	}

	return result, nil
}

// classifyGoogleError maps Maps API status errors ("maps: REQUEST_DENIED - ...") to failure kinds.
func classifyGoogleError(err error) error {
	msg := err.Error()

	switch {
	case isCertificateError(err):
		return classifyTransportError(err)
	case strings.Contains(msg, "REQUEST_DENIED"), strings.Contains(msg, "INVALID_REQUEST"):
		return fmt.Errorf("%w: failed to geocode address: %w", ErrProviderRejected, err)
	case strings.Contains(msg, "OVER_QUERY_LIMIT"), strings.Contains(msg, "UNKNOWN_ERROR"):
		return fmt.Errorf("%w: failed to geocode address: %w", ErrProviderUnavailable, err)
	default:
		return classifyTransportError(err)
	}
}
