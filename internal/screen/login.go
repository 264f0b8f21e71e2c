package screen

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clinicmate/clinicmate/internal/nav"
)

// Login validation errors.
var (
	ErrEmptyCredentials = errors.New("email and password cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email format")
)

// LoginAPI is the part of the clinic API used by the login screen.
type LoginAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	SavePushToken(ctx context.Context, pushToken string) error
}

// PushTokenFunc returns the device push token, or "" if there is none.
type PushTokenFunc func(ctx context.Context) string

// LoginConfig holds configuration for the login screen.
type LoginConfig struct {
	API       LoginAPI
	Session   Session
	Navigator nav.Navigator
	Alerter   Alerter

	// PushToken supplies the push token at submit time (optional).
	PushToken PushTokenFunc

	Logger zerolog.Logger
}

// Login is the login screen controller.
type Login struct {
	api       LoginAPI
	session   Session
	navigator nav.Navigator
	alerter   Alerter
	pushToken PushTokenFunc
	logger    zerolog.Logger
}

// NewLogin creates a login screen controller.
func NewLogin(cfg LoginConfig) *Login {
	return &Login{
		api:       cfg.API,
		session:   cfg.Session,
		navigator: cfg.Navigator,
		alerter:   cfg.Alerter,
		pushToken: cfg.PushToken,
		logger:    cfg.Logger,
	}
}

// ValidateCredentials checks the form before anything is sent.
func ValidateCredentials(email, password string) error {
	if email == "" || password == "" {
		return ErrEmptyCredentials
	}
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	return nil
}

// Submit logs in, stores the session and moves to the tab set.
// Every failure is alerted; the returned error is for the caller's exit status.
func (l *Login) Submit(ctx context.Context, email, password string) error {
	if err := ValidateCredentials(email, password); err != nil {
		msg := MsgEmptyCredentials
		if errors.Is(err, ErrInvalidEmail) {
			msg = MsgInvalidEmail
		}
		alert(l.alerter, TitleValidationError, msg)
		return err
	}

	if err := l.login(ctx, email, password); err != nil {
		l.logger.Error().Err(err).Msg("login failed")
		alert(l.alerter, TitleLoginFailed, MsgInvalidLogin)
		return err
	}

	l.navigator.Reset(nav.RouteHomeTabs)
	return nil
}

func (l *Login) login(ctx context.Context, email, password string) error {
	token, err := l.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := l.session.SetAuthToken(ctx, token); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	pushToken := ""
	if l.pushToken != nil {
		pushToken = l.pushToken(ctx)
	}
	if pushToken == "" {
		return nil
	}

	// The token is already stored, so the request carries it.
	if err := l.api.SavePushToken(ctx, pushToken); err != nil {
		l.logger.Error().Err(err).Msg("failed to save push token")
	}
	if err := l.session.SetPushToken(ctx, pushToken); err != nil {
		return fmt.Errorf("saving push token: %w", err)
	}
	return nil
}

// ForgotPassword raises the password reset notice.
func (l *Login) ForgotPassword() {
	alert(l.alerter, "Forgot password", "Password reset process")
}

// SignUp raises the registration notice.
func (l *Login) SignUp() {
	alert(l.alerter, "Sign up", "Registration process")
}
