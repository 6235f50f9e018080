package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/compass/internal/geocoding"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	logger := slog.Default()

	t.Run("create Google provider successfully", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			Spec:   models.ProviderSpec{ID: "google", Type: "google", APIKey: "test-api-key", RateLimit: 10},
			Logger: logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.NoError(t, err)
		require.NotNil(t, provider)
		// Verify it's a GoogleProvider by type assertion
		_, ok := provider.(*geocoding.GoogleProvider)
		assert.True(t, ok, "expected provider to be *GoogleProvider")
	})

	t.Run("create Google provider without rate limit", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			Spec:   models.ProviderSpec{ID: "google", Type: "google", APIKey: "test-api-key"},
			Logger: logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.NoError(t, err)
		require.NotNil(t, provider)
	})

	t.Run("create Nominatim provider without API key", func(t *testing.T) {
		// Nominatim doesn't require an API key
		config := geocoding.ProviderConfig{
			Spec:   models.ProviderSpec{ID: "osm", Type: "nominatim"},
			Logger: logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.NoError(t, err)
		_, ok := provider.(*geocoding.NominatimProvider)
		assert.True(t, ok, "expected provider to be *NominatimProvider")
	})

	t.Run("geocode.maps.co key is optional", func(t *testing.T) {
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Spec: models.ProviderSpec{ID: "maps", Type: "geocodemaps"},
		})

		require.NoError(t, err)
		assert.IsType(t, &geocoding.NominatimProvider{}, provider)
	})

	keyed := map[string]any{
		"locationiq":    &geocoding.NominatimProvider{},
		"geoapify":      &geocoding.GeoapifyProvider{},
		"mapbox":        &geocoding.MapboxProvider{},
		"positionstack": &geocoding.PositionStackProvider{},
		"google":        &geocoding.GoogleProvider{},
	}
	for providerType, expected := range keyed {
		t.Run("keyed provider "+providerType, func(t *testing.T) {
			provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
				Spec:   models.ProviderSpec{ID: providerType, Type: providerType, APIKey: "key"},
				Logger: logger,
			})
			require.NoError(t, err)
			assert.IsType(t, expected, provider)

			provider, err = geocoding.NewProvider(geocoding.ProviderConfig{
				Spec:   models.ProviderSpec{ID: providerType, Type: providerType},
				Logger: logger,
			})
			require.Error(t, err)
			require.Nil(t, provider)
			require.ErrorIs(t, err, geocoding.ErrMissingAPIKey)
		})
	}

	t.Run("unsupported provider type", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			Spec:   models.ProviderSpec{ID: "x", Type: "unsupported"},
			Logger: logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.Error(t, err)
		require.Nil(t, provider)
		assert.Contains(t, err.Error(), "unsupported provider type: unsupported")
	})

	t.Run("empty provider type", func(t *testing.T) {
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{Logger: logger})

		require.Error(t, err)
		require.Nil(t, provider)
		assert.Contains(t, err.Error(), "unsupported provider type")
	})
}

func TestProviderType_Constants(t *testing.T) {
	// Verify that provider type constants are correctly defined
	assert.Equal(t, "google", string(geocoding.ProviderTypeGoogle))
	assert.Equal(t, "nominatim", string(geocoding.ProviderTypeNominatim))
	assert.Equal(t, "locationiq", string(geocoding.ProviderTypeLocationIQ))
	assert.Equal(t, "geocodemaps", string(geocoding.ProviderTypeGeocodeMaps))
	assert.Equal(t, "geoapify", string(geocoding.ProviderTypeGeoapify))
	assert.Equal(t, "mapbox", string(geocoding.ProviderTypeMapbox))
	assert.Equal(t, "positionstack", string(geocoding.ProviderTypePositionStack))
}
