package metrics_test

import (
	"testing"

	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.ProviderAttempts.WithLabelValues("osm", "success").Inc()
	m.Resolutions.WithLabelValues("exhausted").Add(2)

	assert.InDelta(t, 1, testutil.ToFloat64(m.ProviderAttempts.WithLabelValues("osm", "success")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Resolutions.WithLabelValues("exhausted")), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	assert.Panics(t, func() { metrics.NewMetrics(reg) }, "registering twice on one registry must fail")
}
