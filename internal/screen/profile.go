package screen

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clinicmate/clinicmate/internal/clinicapi"
	"github.com/clinicmate/clinicmate/internal/nav"
)

// ProfileAPI is the part of the clinic API used by the profile screen.
type ProfileAPI interface {
	User(ctx context.Context) (*clinicapi.User, error)
	Logout(ctx context.Context) error
	DeletePushToken(ctx context.Context, pushToken string) error
}

// ProfileConfig holds configuration for the profile screen.
type ProfileConfig struct {
	API       ProfileAPI
	Session   Session
	Navigator nav.Navigator
	Logger    zerolog.Logger
}

// ProfileView is the loaded profile.
type ProfileView struct {
	User     clinicapi.User
	Initials string
}

// Profile is the profile tab controller.
type Profile struct {
	api       ProfileAPI
	session   Session
	navigator nav.Navigator
	logger    zerolog.Logger
}

// NewProfile creates a profile screen controller.
func NewProfile(cfg ProfileConfig) *Profile {
	return &Profile{
		api:       cfg.API,
		session:   cfg.Session,
		navigator: cfg.Navigator,
		logger:    cfg.Logger,
	}
}

// Mount loads the profile. Without a token, or on any failure, the history
// is reset to Login.
func (s *Profile) Mount(ctx context.Context) (*ProfileView, error) {
	token, err := s.session.AuthToken(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load token")
		s.navigator.Reset(nav.RouteLogin)
		return nil, fmt.Errorf("reading session: %w", err)
	}
	if token == "" {
		s.navigator.Reset(nav.RouteLogin)
		return nil, ErrNoSession
	}

	user, err := s.api.User(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch user")
		s.navigator.Reset(nav.RouteLogin)
		return nil, err
	}

	return &ProfileView{User: *user, Initials: Initials(user.Name)}, nil
}

// Logout tears down the session. Each cleanup step is attempted in turn and
// its failure only logged; the history is always reset to Login.
func (s *Profile) Logout(ctx context.Context) {
	defer s.navigator.Reset(nav.RouteLogin)

	pushToken, err := s.session.PushToken(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load push token")
	}
	if pushToken != "" {
		if err := s.api.DeletePushToken(ctx, pushToken); err != nil {
			s.logger.Error().Err(err).Msg("failed to delete push token")
		} else {
			s.logger.Info().Msg("push token deleted")
		}
	}

	if err := s.api.Logout(ctx); err != nil {
		s.logger.Error().Err(err).Msg("logout request failed")
	}

	if err := s.session.Clear(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear session")
	}
}
