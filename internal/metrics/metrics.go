package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ProviderAttempts   *prometheus.CounterVec
	RequestSeconds     *prometheus.HistogramVec
	Resolutions        *prometheus.CounterVec
	LocationsProcessed *prometheus.CounterVec
	ActiveWorkers      prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ProviderAttempts: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geocoding_provider_attempts_total",
			Help: "Total number of geocoding provider attempts by outcome.",
		}, []string{"provider", "outcome"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geocoding_provider_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		Resolutions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geocoding_resolutions_total",
			Help: "Total number of resolutions, labeled by the answering provider or \"exhausted\".",
		}, []string{"result"}),
		LocationsProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geocoding_locations_processed_total",
			Help: "Total number of stored locations processed by the worker.",
		}, []string{"status"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "geocoding_active_workers",
			Help: "Current number of active workers processing locations.",
		}),
	}
}
