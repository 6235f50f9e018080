package telemetry_test

import (
	"bytes"
	"testing"

	"github.com/UnknownOlympus/compass/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracer(t *testing.T) {
	var out bytes.Buffer

	shutdown, err := telemetry.InitTracer(t.Context(), &out, "test")
	require.NoError(t, err)

	_, span := otel.Tracer("telemetry_test").Start(t.Context(), "resolver.Resolve")
	span.End()

	require.NoError(t, shutdown(t.Context()))
	assert.Contains(t, out.String(), `"Name": "resolver.Resolve"`)
	assert.Contains(t, out.String(), "compass")
}
