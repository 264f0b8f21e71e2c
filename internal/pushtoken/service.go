package pushtoken

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the push token service.
type ServiceConfig struct {
	Repo   Repository
	Now    func() time.Time
	Logger zerolog.Logger
}

// Service registers and removes push tokens.
type Service struct {
	repo   Repository
	now    func() time.Time
	logger zerolog.Logger
}

// NewService creates a new push token service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{repo: cfg.Repo, now: cfg.Now, logger: cfg.Logger}
}

// Save registers token for userID. Returns whether it was new.
func (s *Service) Save(ctx context.Context, userID, token string) (*Registration, bool, error) {
	token = strings.TrimSpace(token)
	if token == "" || len(token) > MaxTokenLength {
		return nil, false, ErrInvalidToken
	}

	now := s.now().UTC()
	reg := &Registration{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Upsert(ctx, reg)
	if err != nil {
		return nil, false, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("token_last4", reg.TokenLast4()).
		Bool("created", created).
		Msg("push token saved")
	return reg, created, nil
}

// Delete removes a user's token.
func (s *Service) Delete(ctx context.Context, userID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}
	if err := s.repo.Delete(ctx, userID, token); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("push token deleted")
	return nil
}

// List returns a user's registrations.
func (s *Service) List(ctx context.Context, userID string) ([]*Registration, error) {
	return s.repo.ListByUser(ctx, userID)
}
