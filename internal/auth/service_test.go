package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicmate/clinicmate/internal/auth"
)

type staticUsers map[string]string

func (u staticUsers) Authenticate(_ context.Context, email, password string) (string, error) {
	if password != "secret" {
		return "", errors.New("bad password")
	}
	id, ok := u[email]
	if !ok {
		return "", errors.New("unknown")
	}
	return id, nil
}

func newAuthService() *auth.Service {
	return auth.NewService(auth.ServiceConfig{
		JWTService: newJWT("k", nil),
		Users:      staticUsers{"jane@clinicmate.test": "1"},
		Logger:     zerolog.Nop(),
	})
}

func TestService_LoginAndValidate(t *testing.T) {
	svc := newAuthService()

	token, err := svc.Login(context.Background(), "jane@clinicmate.test", "secret")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.UserID)
}

func TestService_LoginRejected(t *testing.T) {
	svc := newAuthService()

	_, err := svc.Login(context.Background(), "jane@clinicmate.test", "nope")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "who@clinicmate.test", "secret")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_LogoutRevokesOnlyThatToken(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	first, err := svc.Login(ctx, "jane@clinicmate.test", "secret")
	require.NoError(t, err)
	second, err := svc.Login(ctx, "jane@clinicmate.test", "secret")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(first)
	require.NoError(t, err)
	svc.Logout(ctx, claims)

	_, err = svc.ValidateAccessToken(first)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)

	_, err = svc.ValidateAccessToken(second)
	assert.NoError(t, err)
}

func TestService_LogoutNilClaims(t *testing.T) {
	assert.NotPanics(t, func() { newAuthService().Logout(context.Background(), nil) })
}

func TestRevocationList_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	list := auth.NewRevocationList(func() time.Time { return now })

	list.Revoke("a", now.Add(time.Minute))
	assert.True(t, list.IsRevoked("a"))
	assert.False(t, list.IsRevoked("b"))

	now = now.Add(2 * time.Minute)
	assert.False(t, list.IsRevoked("a"))

	list.Revoke("c", now.Add(time.Minute))
	assert.Equal(t, 1, list.Len())
}
