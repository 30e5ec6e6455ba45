package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"market-sentiment/observability"
)

var (
	// ErrNotConfigured is returned when a client has no credentials.
	ErrNotConfigured = errors.New("provider not configured")
	// ErrProviderReported marks a business error carried in a 200 response,
	// such as an Alpha Vantage "Note" or a NewsAPI status "error".
	ErrProviderReported = errors.New("provider reported an error")
	// ErrNoData is returned when a provider answers with nothing usable.
	ErrNoData = errors.New("no data returned")
	// ErrRateLimited is returned when the local limiter cannot grant a
	// request before the context ends.
	ErrRateLimited = errors.New("rate limit wait exceeded")
)

// APIError is a non-2xx response from an upstream provider
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

const maxErrorBody = 256

// Option configures a provider client.
type Option func(*client)

// WithBaseURL points a client at a different host, used by tests and the
// e2e mock upstream.
func WithBaseURL(u string) Option {
	return func(c *client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBreakers routes every call through the registry's breaker for the
// provider.
func WithBreakers(r *CircuitBreakerRegistry) Option {
	return func(c *client) { c.breakers = r }
}

// WithRateLimit bounds the provider's request rate. Waiting for a token is
// bounded by the caller's context.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
		}
	}
}

// client is the HTTP plumbing shared by every provider.
type client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	breakers   *CircuitBreakerRegistry
	limiter    *rate.Limiter
}

func newClient(name, baseURL string, opts []Option) client {
	c := client{
		name:       name,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// wait blocks until the rate limiter grants a request.
func (c *client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	timer := observability.GetMetrics().NewTimer()
	err := c.limiter.Wait(ctx)
	timer.ObserveRateLimit(c.name)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", c.name, ErrRateLimited, err)
	}
	return nil
}

// get performs a GET through the limiter and breaker and returns the body of
// a 2xx response.
func (c *client) get(ctx context.Context, operation, reqURL string, header http.Header) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	return withBreaker(ctx, c.breakers, c.name, func() ([]byte, error) {
		metrics := observability.GetMetrics()
		metrics.RecordExternalAPIRequest(c.name, operation)
		timer := metrics.NewTimer()
		defer timer.ObserveExternalAPI(c.name, operation)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s request: %w", operation, err)
		}
		for k, v := range header {
			req.Header[k] = v
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.RecordExternalAPIError(c.name, operation, "network")
			return nil, fmt.Errorf("failed to fetch %s: %w", operation, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			metrics.RecordExternalAPIError(c.name, operation, "read")
			return nil, fmt.Errorf("failed to read %s response: %w", operation, err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			metrics.RecordExternalAPIError(c.name, operation, "status")
			return nil, &APIError{Provider: c.name, StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
		}

		return body, nil
	})
}

// getJSON performs a GET and decodes the JSON body into out.
func (c *client) getJSON(ctx context.Context, operation, reqURL string, header http.Header, out any) error {
	body, err := c.get(ctx, operation, reqURL, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		observability.GetMetrics().RecordExternalAPIError(c.name, operation, "decode")
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	// back off to a rune boundary
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
