package geocoding

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/UnknownOlympus/compass/internal/models"
)

// Provider is an interface that defines a method for geocoding a free-text location.
// The Geocode method takes a context and a query string as input,
// and returns the best match reported by the provider or an error if none was obtained.
type Provider interface {
	Geocode(ctx context.Context, query string) (*models.GeoResult, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// newGeoResult validates a coordinate pair and wraps it into a result.
func newGeoResult(lat, lon float64, name string) (*models.GeoResult, error) {
	const maxLat, maxLon = 90, 180

	if math.IsNaN(lat) || math.IsNaN(lon) || math.Abs(lat) > maxLat || math.Abs(lon) > maxLon {
		return nil, fmt.Errorf("%w: coordinates out of range: %f, %f", ErrProviderMalformedResponse, lat, lon)
	}

	return &models.GeoResult{Latitude: lat, Longitude: lon, NormalizedName: name}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}

	return strings.Join(parts, sep)
}
