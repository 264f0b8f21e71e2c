package resilience

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// Predefined errors for resilient operations.
var (
	// ErrCircuitOpen is returned when the breaker rejects the call.
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// RetryPolicy controls retries of transient failures (network errors, 5xx).
// The zero value performs exactly one attempt.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// NoRetry performs a single attempt.
var NoRetry = RetryPolicy{}

// DefaultRetryPolicy retries three times with exponential backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// ClientConfig holds configuration for the resilient HTTP client.
type ClientConfig struct {
	// Name identifies this client in the registry and in logs.
	Name string

	// Timeout bounds a single attempt. Zero means no timeout.
	Timeout time.Duration

	// Retry is the retry policy. The zero value disables retries.
	Retry RetryPolicy

	// Breaker configures the circuit breaker. Defaults to DefaultBreakerConfig(Name).
	Breaker *BreakerConfig

	// Registry receives success/failure records when set.
	Registry *Registry

	// Transport overrides the underlying round tripper (optional).
	Transport http.RoundTripper

	Logger zerolog.Logger
}

// Client is an HTTP client guarded by a circuit breaker.
type Client struct {
	name       string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	retry      RetryPolicy
	registry   *Registry
}

// NewClient creates a new resilient HTTP client and registers it when a
// registry is configured.
func NewClient(cfg ClientConfig) *Client {
	breakerCfg := DefaultBreakerConfig(cfg.Name)
	if cfg.Breaker != nil {
		breakerCfg = *cfg.Breaker
	}

	c := &Client{
		name: cfg.Name,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		breaker:  newBreaker[*http.Response](breakerCfg, cfg.Logger), //nolint:bodyclose // type param, not response
		retry:    cfg.Retry,
		registry: cfg.Registry,
	}

	if c.registry != nil {
		c.registry.Register(cfg.Name, c)
	}
	return c
}

// Name returns the client name.
func (c *Client) Name() string {
	return c.name
}

// Do executes req through the breaker, retrying transient failures according
// to the retry policy. With NoRetry the request is sent at most once.
//
// A 5xx response counts as a breaker failure but is still returned to the
// caller once retries are exhausted, so callers can read the error body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	var lastResp *http.Response

	attempt := func() error {
		if lastResp != nil {
			lastResp.Body.Close()
			lastResp = nil
		}

		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
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
				lastResp = resp
			}
			return err
		}

		lastResp = resp
		return nil
	}

	err := backoff.Retry(attempt, backoff.WithContext(c.backOff(), ctx))
	c.record(lastResp, err)

	if err != nil {
		var serverErr *ServerError
		if lastResp != nil && errors.As(err, &serverErr) {
			return lastResp, nil
		}
		return nil, err
	}
	return lastResp, nil
}

// DoWithContext executes req with ctx attached.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.Do(req.WithContext(ctx))
}

func (c *Client) backOff() backoff.BackOff {
	if c.retry.MaxRetries == 0 {
		return &backoff.StopBackOff{}
	}

	bo := backoff.NewExponentialBackOff()
	if c.retry.InitialInterval > 0 {
		bo.InitialInterval = c.retry.InitialInterval
	}
	if c.retry.MaxInterval > 0 {
		bo.MaxInterval = c.retry.MaxInterval
	}
	bo.MaxElapsedTime = 0
	return backoff.WithMaxRetries(bo, c.retry.MaxRetries)
}

func (c *Client) record(resp *http.Response, err error) {
	if c.registry == nil {
		return
	}
	switch {
	case err != nil:
		c.registry.RecordFailure(c.name, err)
	case resp != nil && resp.StatusCode >= 500:
		c.registry.RecordFailure(c.name, &ServerError{StatusCode: resp.StatusCode})
	default:
		c.registry.RecordSuccess(c.name)
	}
}

// ServerError represents an HTTP 5xx response.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "server error: " + http.StatusText(e.StatusCode)
}

// State returns the current breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// Counts returns the current breaker counts.
func (c *Client) Counts() gobreaker.Counts {
	return c.breaker.Counts()
}
