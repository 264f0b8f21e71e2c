package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrInvalidCredentials is returned when email and password do not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator checks a user's credentials.
type Authenticator interface {
	// Authenticate returns the user id for valid credentials.
	Authenticate(ctx context.Context, email, password string) (string, error)
}

// ServiceConfig holds configuration for the auth service.
type ServiceConfig struct {
	JWTService  *JWTService
	Revocations *RevocationList
	Users       Authenticator
	Logger      zerolog.Logger
}

// Service provides login, logout and token validation.
type Service struct {
	jwt         *JWTService
	revocations *RevocationList
	users       Authenticator
	logger      zerolog.Logger
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	revocations := cfg.Revocations
	if revocations == nil {
		revocations = NewRevocationList(nil)
	}
	return &Service{
		jwt:         cfg.JWTService,
		revocations: revocations,
		users:       cfg.Users,
		logger:      cfg.Logger,
	}
}

// Login verifies credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	userID, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Info().Str("email", email).Msg("login rejected")
		return "", ErrInvalidCredentials
	}

	token, claims, err := s.jwt.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Str("token_id", claims.ID).Msg("user logged in")
	return token, nil
}

// Logout revokes the token described by claims.
func (s *Service) Logout(_ context.Context, claims *Claims) {
	if claims == nil || claims.ExpiresAt == nil {
		return
	}
	s.revocations.Revoke(claims.ID, claims.ExpiresAt.Time)
	s.logger.Info().Str("user_id", claims.UserID).Str("token_id", claims.ID).Msg("token revoked")
}

// ValidateAccessToken validates a bearer token and rejects revoked ones.
func (s *Service) ValidateAccessToken(token string) (*Claims, error) {
	claims, err := s.jwt.Validate(token)
	if err != nil {
		return nil, err
	}
	if s.revocations.IsRevoked(claims.ID) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}
