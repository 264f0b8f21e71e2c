package push

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Registration errors. Their messages are shown to the user verbatim.
var (
	ErrDeviceNotSupported = errors.New("Must use physical device for push notifications")                 //nolint:staticcheck // user-facing
	ErrPermissionDenied   = errors.New("Permission not granted to get push token for push notification!") //nolint:staticcheck // user-facing
	ErrRegistration       = errors.New("push token registration failed")
)

// RegistrarConfig holds configuration for the Registrar.
type RegistrarConfig struct {
	Platform Platform

	// Alerter receives registration failures (optional).
	Alerter Alerter

	// ProjectID is passed to the platform token service.
	ProjectID string

	Logger zerolog.Logger
}

// Registrar obtains the device push-delivery token.
type Registrar struct {
	platform  Platform
	alerter   Alerter
	projectID string
	logger    zerolog.Logger
}

// NewRegistrar creates a new Registrar.
func NewRegistrar(cfg RegistrarConfig) *Registrar {
	return &Registrar{
		platform:  cfg.Platform,
		alerter:   cfg.Alerter,
		projectID: cfg.ProjectID,
		logger:    cfg.Logger,
	}
}

// Register returns the push-delivery token, or "" when the device cannot
// receive pushes. Failures are alerted and logged, never returned.
func (r *Registrar) Register(ctx context.Context) string {
	token, err := r.TryRegister(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to get push token")
		if r.alerter != nil {
			r.alerter.Alert("", err.Error())
		}
		return ""
	}
	return token
}

// TryRegister runs the registration sequence and reports why it failed.
func (r *Registrar) TryRegister(ctx context.Context) (string, error) {
	if r.platform == nil {
		return "", ErrDeviceNotSupported
	}

	if r.platform.OS() == "android" {
		if err := r.platform.SetNotificationChannel(ctx, DefaultChannel); err != nil {
			r.logger.Warn().Err(err).Str("channel", DefaultChannel.ID).Msg("failed to configure notification channel")
		}
	}

	if !r.platform.IsDevice() {
		return "", ErrDeviceNotSupported
	}

	status, err := r.platform.Permission(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to read notification permission")
		status = PermissionUndetermined
	}
	if status != PermissionGranted {
		status, err = r.platform.RequestPermission(ctx)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
	}
	if status != PermissionGranted {
		return "", ErrPermissionDenied
	}

	token, err := r.platform.PushToken(ctx, r.projectID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRegistration, err)
	}
	if token == "" {
		return "", fmt.Errorf("%w: empty token", ErrRegistration)
	}

	r.logger.Debug().Str("os", r.platform.OS()).Msg("push token acquired")
	return token, nil
}
