package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/repository"
	"github.com/google/uuid"
)

// Resolver resolves a free-text location through the provider chain.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*models.GeoResult, error)
}

// GeocodingService periodically resolves stored locations that have no coordinates yet.
type GeocodingService struct {
	log          *slog.Logger         // Logger for logging service activities
	repo         repository.Interface // Location store
	resolver     Resolver             // Provider chain
	metrics      *metrics.Metrics     // Metrics for tracking service performance
	numWorkers   int                  // Number of concurrent workers for processing
	pollInterval time.Duration        // Interval for polling pending locations
	batchSize    int                  // Maximum number of locations fetched per poll
	queryPrefix  string               // Prefix prepended to every stored query (country, city, etc.)
}

// NewGeocodingService creates a new instance of GeocodingService.
func NewGeocodingService(
	log *slog.Logger,
	repo repository.Interface,
	resolver Resolver,
	metrics *metrics.Metrics,
	numWorkers int,
	pollInterval time.Duration,
	batchSize int,
	queryPrefix string,
) *GeocodingService {
	return &GeocodingService{
		log:          log,
		repo:         repo,
		resolver:     resolver,
		metrics:      metrics,
		numWorkers:   max(numWorkers, 1),
		pollInterval: pollInterval,
		batchSize:    batchSize,
		queryPrefix:  queryPrefix,
	}
}

// Run starts the geocoding service, which periodically polls for pending locations.
// It listens for a cancellation signal from the context to gracefully stop the service.
func (gs *GeocodingService) Run(ctx context.Context) {
	ticker := time.NewTicker(gs.pollInterval)
	defer ticker.Stop()

	gs.log.InfoContext(ctx, "Geocoding service started...")

	for {
		select {
		case <-ctx.Done():
			gs.log.InfoContext(ctx, "Geocoding service stopped.")
			return
		case <-ticker.C:
			gs.log.InfoContext(ctx, "Polling for new locations to geocode...")
			gs.processBatch(ctx)
		}
	}
}

// processBatch fetches pending locations, fans them out to the worker pool
// and waits for all workers to finish.
func (gs *GeocodingService) processBatch(ctx context.Context) {
	log := gs.log.With("run_id", uuid.NewString())

	locations, err := gs.repo.FetchPendingLocations(ctx, gs.batchSize)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch pending locations", "error", err)
		return
	}
	if len(locations) == 0 {
		log.InfoContext(ctx, "No locations to process.")
		return
	}

	log.InfoContext(ctx, "Found locations to process. Starting worker pool.",
		"jobs", len(locations),
		"num_workers", gs.numWorkers,
	)

	jobs := make(chan models.Location, len(locations))
	var wgr sync.WaitGroup

	for i := 1; i <= gs.numWorkers; i++ {
		wgr.Add(1)
		go gs.worker(ctx, log, i, &wgr, jobs)
	}

	for _, location := range locations {
		jobs <- location
	}
	close(jobs)

	wgr.Wait()
	log.InfoContext(ctx, "Processing batch finished")
}

// worker resolves locations from the jobs channel and writes every outcome back to the store.
func (gs *GeocodingService) worker(
	ctx context.Context,
	log *slog.Logger,
	idx int,
	wg *sync.WaitGroup,
	jobs <-chan models.Location,
) {
	defer wg.Done()
	for location := range jobs {
		gs.process(ctx, log.With("worker", idx, "location", location.ID), location)
	}
}

func (gs *GeocodingService) process(ctx context.Context, log *slog.Logger, location models.Location) {
	gs.metrics.ActiveWorkers.Inc()
	defer gs.metrics.ActiveWorkers.Dec()

	log.DebugContext(ctx, "Processing location")

	result, err := gs.resolver.Resolve(ctx, gs.queryPrefix+location.Query)
	if err != nil {
		if ctx.Err() != nil {
			log.WarnContext(ctx, "Resolution interrupted by shutdown", "error", err)
			return
		}

		log.ErrorContext(ctx, "Failed to geocode", "error", err)
		gs.metrics.LocationsProcessed.WithLabelValues("failure").Inc()

		if err = gs.repo.IncrementFailureCount(ctx, location.ID, err.Error()); err != nil {
			log.ErrorContext(ctx, "Could not update failure count for location", "error", err)
		}
		return
	}

	gs.metrics.LocationsProcessed.WithLabelValues("success").Inc()

	if err = gs.repo.SaveGeoResult(ctx, location.ID, *result); err != nil {
		log.ErrorContext(ctx, "Failed to save geocoding result", "error", err)
		return
	}

	log.DebugContext(ctx, "Worker successfully processed the location", "provider", result.ProviderID)
}
