package geocoding_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/compass/internal/geocoding"
	"github.com/UnknownOlympus/compass/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestGeocode(t *testing.T) {
	mockClient := mocks.NewGoogleAPIClient(t)
	provider := geocoding.NewGoogleProvider(mockClient, slog.Default())
	ctx := t.Context()

	t.Run("api returns error", func(t *testing.T) {
		address := "some invalid place"
		req := &maps.GeocodingRequest{Address: address}

		mockClient.On("Geocode", ctx, req).Return(nil, assert.AnError).Once()

		_, err := provider.Geocode(ctx, address)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		require.ErrorIs(t, err, geocoding.ErrProviderUnavailable)
		mockClient.AssertExpectations(t)
	})

	t.Run("api denies request", func(t *testing.T) {
		address := "denied place"
		req := &maps.GeocodingRequest{Address: address}

		mockClient.On("Geocode", ctx, req).
			Return(nil, errors.New("maps: REQUEST_DENIED - The provided API key is invalid.")).Once()

		_, err := provider.Geocode(ctx, address)

		require.ErrorIs(t, err, geocoding.ErrProviderRejected)
		mockClient.AssertExpectations(t)
	})

	t.Run("api return empty response", func(t *testing.T) {
		address := "some invalid place"
		req := &maps.GeocodingRequest{Address: address}

		mockClient.On("Geocode", ctx, req).Return(nil, nil).Once()

		result, err := provider.Geocode(ctx, address)

		require.Nil(t, result)
		require.ErrorIs(t, err, geocoding.ErrProviderNoResults)
		mockClient.AssertExpectations(t)
	})

	t.Run("successful geocoding", func(t *testing.T) {
		address := "Toronto, Ontario"
		req := &maps.GeocodingRequest{Address: address}
		mockResponse := []maps.GeocodingResult{
			{
				FormattedAddress: "Toronto, ON, Canada",
				Geometry:         maps.AddressGeometry{Location: maps.LatLng{Lat: 43.65, Lng: -79.38}},
				AddressComponents: []maps.AddressComponent{
					{LongName: "Toronto", Types: []string{"locality", "political"}},
					{LongName: "Ontario", Types: []string{"administrative_area_level_1", "political"}},
					{LongName: "Canada", Types: []string{"country", "political"}},
				},
			},
		}

		mockClient.On("Geocode", ctx, req).Return(mockResponse, nil).Once()

		result, err := provider.Geocode(ctx, address)

		require.NoError(t, err)
		require.NotNil(t, result)
		require.InEpsilon(t, 43.65, result.Latitude, 0.01)
		require.InEpsilon(t, -79.38, result.Longitude, 0.01)
		assert.Equal(t, "Toronto, ON, Canada", result.NormalizedName)
		assert.Equal(t, "Toronto", result.City)
		assert.Equal(t, "Ontario", result.State)
		assert.Equal(t, "Canada", result.Country)
		mockClient.AssertExpectations(t)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := provider.Geocode(ctx, "")

		require.ErrorIs(t, err, geocoding.ErrEmptyQuery)
	})
}
