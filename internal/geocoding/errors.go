package geocoding

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
)

// Provider failure kinds. Every error returned by a Provider wraps exactly one of them,
// so callers can branch with errors.Is.
var (
	ErrEmptyQuery                = errors.New("empty location query")
	ErrProviderUnavailable       = errors.New("provider unavailable")
	ErrProviderRejected          = errors.New("provider rejected the request")
	ErrProviderMalformedResponse = errors.New("provider returned a malformed response")
	ErrProviderNoResults         = errors.New("provider returned no results")
)

// ErrTransportSecurity marks certificate verification failures. It is always reported
// together with ErrProviderUnavailable.
var ErrTransportSecurity = errors.New("certificate verification failed")

const maxErrorBody = 256

// classifyTransportError wraps an error returned by the HTTP client.
func classifyTransportError(err error) error {
	if isCertificateError(err) {
		return fmt.Errorf("%w: %w (insecure transport is disabled): %w", ErrProviderUnavailable, ErrTransportSecurity, err)
	}

	return fmt.Errorf("%w: failed to execute geocoding request: %w", ErrProviderUnavailable, err)
}

func isCertificateError(err error) bool {
	var (
		verifyErr    *tls.CertificateVerificationError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)

	return errors.As(err, &verifyErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}

// classifyStatus maps a non-200 HTTP status to a failure kind.
func classifyStatus(name string, status int, body []byte) error {
	var kind error

	switch {
	case status == http.StatusNotFound:
		kind = ErrProviderNoResults
	case status == http.StatusTooManyRequests, status >= http.StatusInternalServerError:
		kind = ErrProviderUnavailable
	case status >= http.StatusBadRequest:
		kind = ErrProviderRejected
	default:
		kind = ErrProviderUnavailable
	}

	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	return fmt.Errorf("%w: %s API returned status %d: %s", kind, name, status, string(body))
}
