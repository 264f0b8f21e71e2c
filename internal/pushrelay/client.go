// Package pushrelay is a client for the Expo push relay.
package pushrelay

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicmate/clinicmate/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the public relay host.
	DefaultBaseURL = "https://exp.host"

	// ClientName identifies the relay client in the resilience registry.
	ClientName = "push-relay"

	sendPath  = "/--/api/v2/push/send"
	tokenPath = "/--/api/v2/push/getExpoPushToken"
)

// Predefined errors.
var (
	ErrMissingRecipient = errors.New("message has no recipient")
	ErrEmptyMessage     = errors.New("message has no content")

	// ErrRejected means the relay refused the message; retrying will not help.
	ErrRejected = errors.New("message rejected by relay")

	// ErrUnavailable means the relay could not be reached or failed with 5xx.
	ErrUnavailable = errors.New("push relay unavailable")
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the relay client.
type ClientConfig struct {
	BaseURL string

	// AccessToken is sent as a bearer token when the relay enforces push security (optional).
	AccessToken string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client built from Timeout and Retry.
	HTTPClient HTTPDoer

	Timeout  time.Duration
	Retry    resilience.RetryPolicy
	Registry *resilience.Registry

	Logger zerolog.Logger
}

// Client sends messages through the relay.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  HTTPDoer
	logger      zerolog.Logger
}

// NewClient creates a new relay client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 15 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:     ClientName,
			Timeout:  timeout,
			Retry:    cfg.Retry,
			Registry: cfg.Registry,
			Logger:   cfg.Logger,
		})
	}

	return &Client{
		baseURL:     baseURL,
		accessToken: cfg.AccessToken,
		httpClient:  httpClient,
		logger:      cfg.Logger,
	}
}

// Send delivers one message and returns the relay ticket.
// A ticket with status "error" is returned together with ErrRejected.
func (c *Client) Send(ctx context.Context, msg Message) (*Ticket, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	var ticket Ticket
	if err := c.post(ctx, sendPath, msg, &ticket); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("ticket_id", ticket.ID).
		Str("status", ticket.Status).
		Msg("push message sent")

	if !ticket.OK() {
		return &ticket, fmt.Errorf("%w: %s", ErrRejected, ticket.Message)
	}
	return &ticket, nil
}

// PushToken requests a push-delivery token for a device.
func (c *Client) PushToken(ctx context.Context, req TokenRequest) (string, error) {
	if req.DeviceID == "" {
		return "", errors.New("device id is required")
	}

	var data tokenData
	if err := c.post(ctx, tokenPath, req, &data); err != nil {
		return "", err
	}
	if data.ExpoPushToken == "" {
		return "", errors.New("relay returned no push token")
	}
	return data.ExpoPushToken, nil
}

// Ping checks the relay is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+sendPath, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	reader, err := decodedBody(resp)
	if err != nil {
		return fmt.Errorf("decoding response encoding: %w", err)
	}
	defer reader.Close()

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []relayError    `json:"errors"`
	}
	if err := json.NewDecoder(reader).Decode(&envelope); err != nil && !errors.Is(err, io.EOF) {
		if resp.StatusCode >= 500 {
			return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
		}
		return fmt.Errorf("decoding response: %w", err)
	}

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d%s", ErrUnavailable, resp.StatusCode, joinErrors(envelope.Errors))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: status %d%s", ErrRejected, resp.StatusCode, joinErrors(envelope.Errors))
	case len(envelope.Errors) > 0:
		return fmt.Errorf("%w%s", ErrRejected, joinErrors(envelope.Errors))
	}

	return decodeData(envelope.Data, out)
}

// decodeData accepts a single object or a one-element array, since the relay
// answers a batch with an array.
func decodeData(raw json.RawMessage, out interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return errors.New("relay response has no data")
	}
	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("decoding data: %w", err)
		}
		if len(items) == 0 {
			return errors.New("relay response has no data")
		}
		raw = items[0]
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding data: %w", err)
	}
	return nil
}

// decodedBody undoes the content encoding. Setting Accept-Encoding by hand
// turns off the transport's transparent decompression.
func decodedBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "deflate":
		return zlib.NewReader(resp.Body)
	default:
		return io.NopCloser(resp.Body), nil
	}
}

func joinErrors(errs []relayError) string {
	if len(errs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Code != "" {
			parts = append(parts, e.Code+": "+e.Message)
		} else {
			parts = append(parts, e.Message)
		}
	}
	return ": " + strings.Join(parts, "; ")
}
