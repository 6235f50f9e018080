package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/compass/internal/models"
)

// MaxAttempts is the number of failed resolutions after which a location is no longer fetched.
const MaxAttempts = 5

type Repository struct {
	db  Database
	log *slog.Logger
}

// Interface is the location store used by the geocoding worker.
type Interface interface {
	FetchPendingLocations(ctx context.Context, limit int) ([]models.Location, error)
	SaveGeoResult(ctx context.Context, locationID int, result models.GeoResult) error
	IncrementFailureCount(ctx context.Context, locationID int, errMsg string) error
}

// NewRepository creates a new instance of Repository with the provided Database.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
