package clinicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/clinicmate/clinicmate/internal/provider/resilience"
)

const (
	// ClientName identifies the clinic API client in the resilience registry.
	ClientName = "clinic-api"

	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000/api"

	tracerName = "github.com/clinicmate/clinicmate/internal/clinicapi"
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource yields the bearer token to attach to a request.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	AuthToken(ctx context.Context) (string, error)
}

// ClientConfig holds configuration for the clinic API client.
type ClientConfig struct {
	// BaseURL is the API root, e.g. https://clinic.example.com/api.
	BaseURL string

	// Tokens supplies the bearer token at call time (optional).
	Tokens TokenSource

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client without retries.
	HTTPClient HTTPDoer

	// Timeout bounds a single request when HTTPClient is nil. Zero means none.
	Timeout time.Duration

	// Registry is the resilience registry for health tracking (optional).
	Registry *resilience.Registry

	Logger zerolog.Logger
}

// Client is the clinic REST API client.
//
// Every request passes through authorize before it is sent: if the token
// source holds a token at that moment it is attached as a bearer credential.
// Requests are never held back for a missing token; the server decides.
// The client performs no retries.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient HTTPDoer
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewClient creates a new clinic API client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:     ClientName,
			Timeout:  cfg.Timeout,
			Retry:    resilience.NoRetry,
			Registry: cfg.Registry,
			Logger:   cfg.Logger,
		})
	}

	return &Client{
		baseURL:    baseURL,
		tokens:     cfg.Tokens,
		httpClient: httpClient,
		logger:     cfg.Logger,
		tracer:     otel.Tracer(tracerName),
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &Error{Op: "POST /login", StatusCode: http.StatusOK, Message: "response carried no token", Err: ErrUnexpectedStatus}
	}
	return resp.Token, nil
}

// Logout invalidates the current token on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

// User fetches the authenticated user's profile.
func (c *Client) User(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// MedicalFiles lists the patient's medical files.
func (c *Client) MedicalFiles(ctx context.Context) ([]MedicalFile, error) {
	var files []MedicalFile
	if err := c.do(ctx, http.MethodGet, "/patient/files", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// Reservations lists upcoming appointments.
func (c *Client) Reservations(ctx context.Context) ([]Reservation, error) {
	var reservations []Reservation
	if err := c.do(ctx, http.MethodGet, "/reservations", nil, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// SavePushToken registers a push-delivery token for the current user.
func (c *Client) SavePushToken(ctx context.Context, pushToken string) error {
	return c.do(ctx, http.MethodPost, "/save-push-token", PushTokenRequest{Token: pushToken}, nil)
}

// DeletePushToken unregisters a push-delivery token.
func (c *Client) DeletePushToken(ctx context.Context, pushToken string) error {
	return c.do(ctx, http.MethodPost, "/delete-push-token", PushTokenRequest{Token: pushToken}, nil)
}

// DownloadURL returns the URL that serves a medical file. It is meant to be
// opened by the platform URL handler, not fetched by this client.
func (c *Client) DownloadURL(fileName string) string {
	return c.baseURL + "/download?url=medical_files/" + url.QueryEscape(fileName)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	op := method + " " + path

	ctx, span := c.tracer.Start(ctx, op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	req, err := c.newRequest(ctx, method, path, in)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("op", op).Msg("request failed")
		span.SetStatus(codes.Error, err.Error())
		return &Error{Op: op, Message: err.Error(), Err: ErrUnavailable}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: reading response body: %w", op, err)
	}

	c.logger.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("clinic api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Op: op, StatusCode: resp.StatusCode, Err: statusError(resp.StatusCode)}
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil {
			apiErr.Message = eb.text()
		}
		span.SetStatus(codes.Error, apiErr.Error())
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, in interface{}) (*http.Request, error) {
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.authorize(req)
	return req, nil
}

// authorize attaches the stored bearer token, if any. A token source failure
// is logged and the request proceeds without credentials.
func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	token, err := c.tokens.AuthToken(req.Context())
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to read auth token, sending request unauthenticated")
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// ErrorMessage returns the server-provided message of an API error, if any.
func ErrorMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
