// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Telemetry holds OpenTelemetry settings shared by every binary.
type Telemetry struct {
	Enabled      bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	Environment  string `envconfig:"APP_ENV" default:"development"`
}

// Client is the configuration of the terminal client.
type Client struct {
	// APIBaseURL is the single source of the clinic server address.
	// The file download URL is derived from it.
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://localhost:8000/api"`

	// PushRelayURL is the push relay host.
	PushRelayURL string `envconfig:"PUSH_RELAY_URL" default:"https://exp.host"`

	// SessionFile is where the token store is persisted.
	// Defaults to $XDG_CONFIG_HOME/clinicmate/session.json.
	SessionFile string `envconfig:"SESSION_FILE"`

	// PhysicalDevice reports whether this installation can receive push notifications.
	PhysicalDevice bool   `envconfig:"PHYSICAL_DEVICE" default:"false"`
	DeviceID       string `envconfig:"DEVICE_ID"`
	PlatformOS     string `envconfig:"PLATFORM_OS" default:"linux"`
	ProjectID      string `envconfig:"PROJECT_ID"`

	// HTTPTimeout bounds a single request. Zero means no timeout.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"0s"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`

	// PubSubProjectID and PushTopic are used by `clinic push test --via-pubsub`.
	PubSubProjectID string `envconfig:"PUBSUB_PROJECT_ID"`
	PushTopic       string `envconfig:"PUSH_TOPIC" default:"push-jobs"`

	Telemetry Telemetry `ignored:"true"`
}

// LoadClient reads the client configuration using the CLINIC_ prefix.
func LoadClient() (*Client, error) {
	var cfg Client
	if err := envconfig.Process("clinic", &cfg); err != nil {
		return nil, fmt.Errorf("loading client config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Telemetry); err != nil {
		return nil, fmt.Errorf("loading telemetry config: %w", err)
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.PushRelayURL = strings.TrimRight(cfg.PushRelayURL, "/")

	if cfg.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config dir: %w", err)
		}
		cfg.SessionFile = filepath.Join(dir, "clinicmate", "session.json")
	}

	return &cfg, nil
}

// Backend is the configuration of the local development backend.
type Backend struct {
	Port          string        `envconfig:"APP_PORT" default:"8000"`
	JWTSigningKey string        `envconfig:"JWT_SIGNING_KEY" default:"local-dev-signing-key-change-in-production"`
	JWTIssuer     string        `envconfig:"JWT_ISSUER" default:"clinicstub"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	// UsePostgres stores push tokens in Postgres instead of memory.
	UsePostgres bool `envconfig:"USE_POSTGRES" default:"false"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	Telemetry
}

// LoadBackend reads the backend configuration.
func LoadBackend() (*Backend, error) {
	var cfg Backend
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading backend config: %w", err)
	}
	return &cfg, nil
}

// Worker is the configuration of the push dispatch worker.
type Worker struct {
	Port             string `envconfig:"APP_PORT" default:"8080"`
	ProjectID        string `envconfig:"PUBSUB_PROJECT_ID" required:"true"`
	SubscriptionName string `envconfig:"PUSH_SUBSCRIPTION" default:"push-jobs-worker"`
	PushRelayURL     string `envconfig:"PUSH_RELAY_URL" default:"https://exp.host"`
	PushAccessToken  string `envconfig:"PUSH_ACCESS_TOKEN"`
	MaxRetries       uint64 `envconfig:"PUSH_MAX_RETRIES" default:"3"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	Telemetry
}

// LoadWorker reads the worker configuration.
func LoadWorker() (*Worker, error) {
	var cfg Worker
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading worker config: %w", err)
	}
	cfg.PushRelayURL = strings.TrimRight(cfg.PushRelayURL, "/")
	return &cfg, nil
}

// DownloadBaseURL returns the URL prefix used for medical file downloads.
func (c *Client) DownloadBaseURL() string {
	return c.APIBaseURL
}
