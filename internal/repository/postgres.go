package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/compass/internal/models"
)

const schemaQuery = `
	CREATE TABLE IF NOT EXISTS profile_locations (
		location_id        SERIAL PRIMARY KEY,
		query              TEXT NOT NULL,
		latitude           DOUBLE PRECISION,
		longitude          DOUBLE PRECISION,
		normalized_name    TEXT,
		provider_id        TEXT,
		country            TEXT,
		state              TEXT,
		city               TEXT,
		geocoding_attempts INTEGER NOT NULL DEFAULT 0,
		geocoding_error    TEXT,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	);
`

// EnsureSchema creates the profile_locations table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaQuery); err != nil {
		return fmt.Errorf("failed to create profile_locations table: %w", err)
	}

	return nil
}

// FetchPendingLocations retrieves locations that still need geocoding.
// It returns rows without coordinates, with a non-empty query and fewer than MaxAttempts
// failed attempts, oldest first and limited to the specified count.
func (r *Repository) FetchPendingLocations(ctx context.Context, limit int) ([]models.Location, error) {
	var locations []models.Location
	query := `
		SELECT location_id, query
		FROM profile_locations
		WHERE
			latitude IS NULL
			AND geocoding_attempts < $1
			AND query IS NOT NULL AND query <> ''
		ORDER BY created_at ASC
		LIMIT $2;
	`

	rows, err := r.db.Query(ctx, query, MaxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var location models.Location
		if errScan := rows.Scan(&location.ID, &location.Query); errScan != nil {
			return nil, fmt.Errorf("failed to scan pending location: %w", errScan)
		}
		r.log.DebugContext(ctx, "A new location without coordinates has been received.",
			"id", location.ID, "query", location.Query)
		locations = append(locations, location)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return locations, nil
}

// SaveGeoResult stores the resolved coordinates and their provenance, clearing any previous error.
func (r *Repository) SaveGeoResult(ctx context.Context, locationID int, result models.GeoResult) error {
	query := `
		UPDATE profile_locations
		SET
			latitude = $1,
			longitude = $2,
			normalized_name = $3,
			provider_id = $4,
			country = NULLIF($5, ''),
			state = NULLIF($6, ''),
			city = NULLIF($7, ''),
			geocoding_error = NULL
		WHERE
			location_id = $8;
	`

	_, err := r.db.Exec(ctx, query,
		result.Latitude, result.Longitude, result.NormalizedName, result.ProviderID,
		result.Country, result.State, result.City, locationID)
	if err != nil {
		return fmt.Errorf("failed to save geocoding result: %w", err)
	}

	return nil
}

// IncrementFailureCount increments the geocoding attempt count for the location
// and stores the aggregated error message.
func (r *Repository) IncrementFailureCount(ctx context.Context, locationID int, errMsg string) error {
	query := `
		UPDATE profile_locations
		SET
			geocoding_attempts = geocoding_attempts + 1,
			geocoding_error = $1
		WHERE location_id = $2;
	`

	_, err := r.db.Exec(ctx, query, errMsg, locationID)
	if err != nil {
		return fmt.Errorf("failed to update geocoding error and number of attempts: %w", err)
	}

	return nil
}
