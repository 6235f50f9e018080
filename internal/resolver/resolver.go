// Package resolver turns free-text locations into coordinates by walking an ordered chain
// of geocoding providers. The first provider that answers wins; failures of individual
// providers are recorded and only reported once the whole chain is exhausted.
package resolver

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/UnknownOlympus/compass/internal/geocoding"
	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/UnknownOlympus/compass/internal/resolver"

// resultExhausted labels resolutions that no provider could answer.
const resultExhausted = "exhausted"

// Link binds a provider implementation to its configuration.
type Link struct {
	Spec     models.ProviderSpec
	Provider geocoding.Provider
}

// Resolver queries providers sequentially in ascending priority.
// It holds no mutable state after construction and is safe for concurrent use.
type Resolver struct {
	log     *slog.Logger
	chain   []Link
	timeout time.Duration
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// New creates a Resolver over links. Links are ordered by priority; equal priorities keep
// their configuration order. A non-positive timeout selects geocoding.DefaultTimeout and
// nil metrics are recorded on a private registry.
func New(log *slog.Logger, links []Link, timeout time.Duration, m *metrics.Metrics) (*Resolver, error) {
	if len(links) == 0 {
		return nil, ErrNoProviders
	}

	chain := slices.Clone(links)
	slices.SortStableFunc(chain, func(a, b Link) int {
		return cmp.Compare(a.Spec.Priority, b.Spec.Priority)
	})

	seen := make(map[string]bool, len(chain))
	for _, link := range chain {
		if link.Spec.ID == "" {
			return nil, ErrUnnamedProvider
		}
		if seen[link.Spec.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProvider, link.Spec.ID)
		}
		seen[link.Spec.ID] = true
	}

	if timeout <= 0 {
		timeout = geocoding.DefaultTimeout
	}

	if m == nil {
		m = metrics.NewMetrics(prometheus.NewRegistry())
	}

	return &Resolver{
		log:     log,
		chain:   chain,
		timeout: timeout,
		metrics: m,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// Providers returns the provider IDs in attempt order.
func (r *Resolver) Providers() []string {
	ids := make([]string, 0, len(r.chain))
	for _, link := range r.chain {
		ids = append(ids, link.Spec.ID)
	}

	return ids
}

// Chain returns the provider specs in attempt order.
func (r *Resolver) Chain() []models.ProviderSpec {
	specs := make([]models.ProviderSpec, 0, len(r.chain))
	for _, link := range r.chain {
		specs = append(specs, link.Spec)
	}

	return specs
}

// Resolve returns the result of the first provider that answers query.
// Each provider gets exactly one attempt bounded by the per-provider timeout.
// When every provider fails the error is an *ExhaustedError; when ctx is cancelled
// the walk stops and the context error is returned.
func (r *Resolver) Resolve(ctx context.Context, query string) (*models.GeoResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, geocoding.ErrEmptyQuery
	}

	ctx, span := r.tracer.Start(ctx, "resolver.Resolve",
		trace.WithAttributes(attribute.String("geocoding.query", query)))
	defer span.End()

	attempts := make([]AttemptError, 0, len(r.chain))
	for _, link := range r.chain {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "cancelled")
			return nil, fmt.Errorf("resolution of %q interrupted: %w", query, err)
		}

		result, err := r.attempt(ctx, link, query)
		if err == nil {
			r.metrics.Resolutions.WithLabelValues(link.Spec.ID).Inc()
			span.SetAttributes(attribute.String("geocoding.provider", link.Spec.ID))
			if len(attempts) > 0 {
				r.log.InfoContext(ctx, "Resolved using fallback provider",
					"query", query,
					"provider", link.Spec.ID,
					"failed_providers", len(attempts))
			}
			return result, nil
		}

		attempts = append(attempts, AttemptError{ProviderID: link.Spec.ID, Err: err})
		r.log.WarnContext(ctx, "Geocoding provider failed, trying next",
			"provider", link.Spec.ID,
			"query", query,
			"error", err)
	}

	// A caller cancelling during the last attempt has not exhausted the chain.
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cancelled")
		return nil, fmt.Errorf("resolution of %q interrupted: %w", query, err)
	}

	r.metrics.Resolutions.WithLabelValues(resultExhausted).Inc()
	exhausted := &ExhaustedError{Query: query, Attempts: attempts}
	span.RecordError(exhausted)
	span.SetStatus(codes.Error, resultExhausted)

	return nil, exhausted
}

// attempt runs a single provider under its own deadline.
func (r *Resolver) attempt(ctx context.Context, link Link, query string) (*models.GeoResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ctx, span := r.tracer.Start(ctx, "resolver.attempt", trace.WithAttributes(
		attribute.String("geocoding.provider", link.Spec.ID),
		attribute.Int("geocoding.priority", link.Spec.Priority),
	))
	defer span.End()

	startTime := time.Now()
	result, err := link.Provider.Geocode(ctx, query)
	r.metrics.RequestSeconds.WithLabelValues(link.Spec.ID).Observe(time.Since(startTime).Seconds())

	if err == nil && result == nil {
		err = fmt.Errorf("%w: provider returned neither result nor error", geocoding.ErrProviderMalformedResponse)
	}

	if err != nil {
		label := outcome(err)
		r.metrics.ProviderAttempts.WithLabelValues(link.Spec.ID, label).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, label)
		return nil, err
	}

	r.metrics.ProviderAttempts.WithLabelValues(link.Spec.ID, "success").Inc()

	resolved := *result
	resolved.ProviderID = link.Spec.ID

	return &resolved, nil
}

// outcome maps an attempt error to a metrics label.
func outcome(err error) string {
	switch {
	case errors.Is(err, geocoding.ErrTransportSecurity):
		return "transport_security"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, geocoding.ErrProviderUnavailable):
		return "unavailable"
	case errors.Is(err, geocoding.ErrProviderRejected):
		return "rejected"
	case errors.Is(err, geocoding.ErrProviderMalformedResponse):
		return "malformed"
	case errors.Is(err, geocoding.ErrProviderNoResults):
		return "no_results"
	default:
		return "error"
	}
}
