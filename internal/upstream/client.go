// Package upstream provides the resilient HTTP client used to call external
// collaborators (geocoder, pair-scoring model server): request timeout,
// exponential-backoff retries, a circuit breaker, and an optional injected
// rate limiter for quota-bound APIs.
package upstream

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// Client errors.
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects the call.
	ErrCircuitOpen = errors.New("upstream circuit open")
)

// ClientConfig holds configuration for an upstream client.
type ClientConfig struct {
	// Name identifies the upstream for circuit breaker naming.
	Name string

	// Timeout is the per-request timeout (default: 10s).
	Timeout time.Duration

	// MaxRetries is the number of retry attempts on transient failures
	// (default: 3).
	MaxRetries uint64

	// InitialInterval is the first retry backoff interval (default: 100ms).
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff interval (default: 5s).
	MaxInterval time.Duration

	// Limiter optionally throttles outgoing requests. Quota-bound upstreams
	// (e.g. free-tier geocoders) inject a token bucket here; nil disables
	// throttling.
	Limiter *rate.Limiter

	// Breaker overrides the default circuit breaker settings when non-nil.
	Breaker *BreakerConfig
}

// Client is a resilient HTTP client for one upstream service.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	limiter    *rate.Limiter
	config     ClientConfig
}

// NewClient creates a new upstream client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}

	breakerCfg := cfg.Breaker
	if breakerCfg == nil {
		defaultCfg := DefaultBreakerConfig(cfg.Name)
		breakerCfg = &defaultCfg
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    newBreaker(*breakerCfg),
		limiter:    cfg.Limiter,
		config:     cfg,
	}
}

// Do executes the request with rate limiting, circuit breaking and retries.
// Transient failures (network errors, 5xx) are retried with exponential
// backoff; an open circuit fails fast with ErrCircuitOpen. The caller owns
// the response body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var lastResp *http.Response

	operation := func() error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}

		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			// 5xx responses count as failures so the breaker can trip.
			if r.StatusCode >= 500 {
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				if lastResp != nil {
					lastResp.Body.Close()
				}
				lastResp = resp
			}
			return err
		}

		lastResp = resp
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, err
	}
	return lastResp, nil
}

// State returns the circuit breaker state, for readiness reporting.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// Healthy reports whether the circuit is closed.
func (c *Client) Healthy() bool {
	return c.breaker.State() == gobreaker.StateClosed
}

// WaitLimiter blocks until the rate limiter grants a slot, or the context
// is done. It is a no-op when no limiter is configured.
func (c *Client) WaitLimiter(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// ServerError represents an HTTP 5xx upstream response.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "upstream server error: " + http.StatusText(e.StatusCode)
}
