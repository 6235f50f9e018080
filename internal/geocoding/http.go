package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

// DefaultUserAgent identifies the resolver to public geocoding services.
const DefaultUserAgent = "compass-geocoder/1.0 (https://github.com/UnknownOlympus/compass)"

// newGetRequest builds a GET request for rawURL with the given query parameters.
func newGetRequest(ctx context.Context, rawURL string, params url.Values, userAgent string) (*http.Request, error) {
	reqURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	for key, values := range params {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	return req, nil
}

// getJSON executes req and decodes a 200 response into out.
// Every failure is classified into one of the provider error kinds.
func getJSON(ctx context.Context, client HTTPClient, log *slog.Logger, name string, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrProviderUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.WarnContext(ctx, "Geocoding API error", "service", name, "status", resp.StatusCode)
		return classifyStatus(name, resp.StatusCode, body)
	}

	log.DebugContext(ctx, "Geocoding raw response", "service", name, "body", string(body))

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %w", ErrProviderMalformedResponse, name, err)
	}

	return nil
}

// newLimiter returns a limiter allowing perSecond requests, or nil for no limit.
func newLimiter(perSecond int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}

	return rate.NewLimiter(rate.Limit(perSecond), perSecond)
}

func waitLimiter(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}

	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limit exceeded: %w", ErrProviderUnavailable, err)
	}

	return nil
}
