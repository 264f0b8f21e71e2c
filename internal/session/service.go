package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Service is the single entry point for reading and mutating the session.
// Screens, the API client and the bootstrap flow receive it by injection.
type Service struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// ServiceConfig holds configuration for the session service.
type ServiceConfig struct {
	Store  Store
	Logger zerolog.Logger

	// Now overrides the clock used by Inspect (optional).
	Now func() time.Time
}

// NewService creates a new session service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:  cfg.Store,
		logger: cfg.Logger,
		now:    now,
	}
}

// AuthToken returns the stored bearer token, or "" when none is stored.
// Storage failures are returned to the caller.
func (s *Service) AuthToken(ctx context.Context) (string, error) {
	return s.get(ctx, KeyAuthToken)
}

// SetAuthToken stores the bearer token.
func (s *Service) SetAuthToken(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("empty auth token")
	}
	if err := s.store.Set(ctx, KeyAuthToken, token); err != nil {
		return fmt.Errorf("storing auth token: %w", err)
	}
	return nil
}

// PushToken returns the stored push-delivery token, or "" when none is stored.
func (s *Service) PushToken(ctx context.Context) (string, error) {
	return s.get(ctx, KeyPushToken)
}

// SetPushToken stores the push-delivery token.
func (s *Service) SetPushToken(ctx context.Context, token string) error {
	if err := s.store.Set(ctx, KeyPushToken, token); err != nil {
		return fmt.Errorf("storing push token: %w", err)
	}
	return nil
}

// Clear removes the auth token and the push token together.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.RemoveAll(ctx, KeyAuthToken, KeyPushToken); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// HasSession reports whether an auth token is stored.
// A storage failure counts as no session and is logged.
func (s *Service) HasSession(ctx context.Context) bool {
	token, err := s.AuthToken(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load token")
		return false
	}
	return token != ""
}

func (s *Service) get(ctx context.Context, key string) (string, error) {
	v, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return v, nil
}

// TokenInfo describes a stored auth token.
type TokenInfo struct {
	// Present is false when no token is stored.
	Present bool

	// Opaque is true when the token is not a decodable JWT.
	Opaque bool

	Subject   string
	ExpiresAt *time.Time
	Expired   bool
}

// Inspect decodes the stored auth token without verifying its signature.
// The server remains the authority on validity; this only feeds status output.
func (s *Service) Inspect(ctx context.Context) (*TokenInfo, error) {
	token, err := s.AuthToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return &TokenInfo{}, nil
	}

	info := &TokenInfo{Present: true}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		info.Opaque = true
		return info, nil
	}

	info.Subject = claims.Subject
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		info.ExpiresAt = &exp
		info.Expired = !s.now().Before(exp)
	}
	return info, nil
}
