package geocoding

import (
	"crypto/tls"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultTimeout bounds a single provider request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// TransportConfig holds the settings shared by every provider of a chain.
type TransportConfig struct {
	Timeout time.Duration // Per-request timeout.
	// InsecureSkipVerify disables certificate verification for this client only.
	// It must be switched on explicitly and never changes process-wide TLS settings.
	InsecureSkipVerify bool
}

// NewHTTPClient builds the HTTP client used by the provider chain.
// The transport is a clone of http.DefaultTransport instrumented with OpenTelemetry.
func NewHTTPClient(cfg TransportConfig) *http.Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	base, _ := http.DefaultTransport.(*http.Transport)
	transport := base.Clone()
	transport.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // opt-in via COMPASS_INSECURE_SKIP_VERIFY
	}

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(transport),
	}
}
