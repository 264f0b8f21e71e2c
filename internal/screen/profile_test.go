package screen_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicmate/clinicmate/internal/clinicapi"
	"github.com/clinicmate/clinicmate/internal/nav"
	"github.com/clinicmate/clinicmate/internal/screen"
	"github.com/clinicmate/clinicmate/internal/session"
)

func newProfile(api *fakeAPI, sess screen.Session, navigator nav.Navigator) *screen.Profile {
	return screen.NewProfile(screen.ProfileConfig{
		API:       api,
		Session:   sess,
		Navigator: navigator,
		Logger:    zerolog.Nop(),
	})
}

func TestProfile_Mount(t *testing.T) {
	api := &fakeAPI{user: &clinicapi.User{Name: "Jane Mary Doe", Email: "jane@x.io", LicenseNumber: "L-1"}}
	sess, _ := newSession(map[string]string{session.KeyAuthToken: "abc"})
	navigator := nav.NewRecorder(nav.RouteHomeTabs)

	view, err := newProfile(api, sess, navigator).Mount(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "JD", view.Initials)
	assert.Equal(t, "L-1", view.User.LicenseNumber)
	assert.Empty(t, navigator.Actions())
}

func TestProfile_MountWithoutSession(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		api := &fakeAPI{}
		sess, _ := newSession(nil)
		navigator := nav.NewRecorder(nav.RouteHomeTabs)

		_, err := newProfile(api, sess, navigator).Mount(context.Background())

		assert.ErrorIs(t, err, screen.ErrNoSession)
		assert.Empty(t, api.calls)
		assert.Equal(t, []nav.Action{{Kind: nav.ActionReset, Route: nav.RouteLogin}}, navigator.Actions())
	})

	t.Run("storage error", func(t *testing.T) {
		sess, store := newSession(nil)
		store.Err = errors.New("locked")
		navigator := nav.NewRecorder(nav.RouteHomeTabs)

		_, err := newProfile(&fakeAPI{}, sess, navigator).Mount(context.Background())

		assert.Error(t, err)
		assert.Equal(t, nav.RouteLogin, navigator.Current())
	})

	t.Run("user fetch fails", func(t *testing.T) {
		sess, _ := newSession(map[string]string{session.KeyAuthToken: "abc"})
		navigator := nav.NewRecorder(nav.RouteHomeTabs)

		_, err := newProfile(&fakeAPI{userErr: clinicapi.ErrUnauthorized}, sess, navigator).Mount(context.Background())

		assert.ErrorIs(t, err, clinicapi.ErrUnauthorized)
		assert.Equal(t, []nav.Action{{Kind: nav.ActionReset, Route: nav.RouteLogin}}, navigator.Actions())
	})
}

func TestProfile_Logout(t *testing.T) {
	api := &fakeAPI{}
	sess, store := newSession(map[string]string{
		session.KeyAuthToken: "abc",
		session.KeyPushToken: "p1",
	})
	navigator := nav.NewRecorder(nav.RouteHomeTabs)

	newProfile(api, sess, navigator).Logout(context.Background())

	assert.Equal(t, []string{"delete-push-token:p1", "logout"}, api.calls)
	assert.Empty(t, store.Snapshot())
	assert.Equal(t, []nav.Action{{Kind: nav.ActionReset, Route: nav.RouteLogin}}, navigator.Actions())
}

func TestProfile_LogoutWithoutPushToken(t *testing.T) {
	api := &fakeAPI{}
	sess, store := newSession(map[string]string{session.KeyAuthToken: "abc"})
	navigator := nav.NewRecorder(nav.RouteHomeTabs)

	newProfile(api, sess, navigator).Logout(context.Background())

	assert.Equal(t, []string{"logout"}, api.calls)
	assert.Empty(t, store.Snapshot())
	assert.Equal(t, nav.RouteLogin, navigator.Current())
}

func TestProfile_LogoutAlwaysNavigates(t *testing.T) {
	api := &fakeAPI{
		deletePushErr: errors.New("push delete failed"),
		logoutErr:     errors.New("logout failed"),
	}
	sess, store := newSession(map[string]string{
		session.KeyAuthToken: "abc",
		session.KeyPushToken: "p1",
	})
	navigator := nav.NewRecorder(nav.RouteHomeTabs)

	newProfile(api, sess, navigator).Logout(context.Background())

	assert.Equal(t, []string{"delete-push-token:p1", "logout"}, api.calls)
	assert.Empty(t, store.Snapshot())
	assert.Equal(t, []nav.Action{{Kind: nav.ActionReset, Route: nav.RouteLogin}}, navigator.Actions())
}

func TestProfile_LogoutWithBrokenStorage(t *testing.T) {
	sess, store := newSession(map[string]string{session.KeyAuthToken: "abc"})
	store.Err = errors.New("locked")
	navigator := nav.NewRecorder(nav.RouteHomeTabs)

	assert.NotPanics(t, func() {
		newProfile(&fakeAPI{}, sess, navigator).Logout(context.Background())
	})
	assert.Equal(t, nav.RouteLogin, navigator.Current())
}
