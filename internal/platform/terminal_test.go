package platform_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicmate/clinicmate/internal/platform"
	"github.com/clinicmate/clinicmate/internal/push"
	"github.com/clinicmate/clinicmate/internal/pushrelay"
	"github.com/clinicmate/clinicmate/internal/session"
)

type fakeIssuer struct {
	req   pushrelay.TokenRequest
	token string
	err   error
}

func (f *fakeIssuer) PushToken(_ context.Context, req pushrelay.TokenRequest) (string, error) {
	f.req = req
	return f.token, f.err
}

func TestTerminal_IsDevice(t *testing.T) {
	assert.False(t, platform.NewTerminal(platform.TerminalConfig{}).IsDevice())
	assert.False(t, platform.NewTerminal(platform.TerminalConfig{PhysicalDevice: true}).IsDevice())
	assert.True(t, platform.NewTerminal(platform.TerminalConfig{PhysicalDevice: true, DeviceID: "d1"}).IsDevice())
}

func TestTerminal_PermissionPrompt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  push.PermissionStatus
	}{
		{name: "yes", input: "y\n", want: push.PermissionGranted},
		{name: "yes without newline", input: "YES", want: push.PermissionGranted},
		{name: "no", input: "n\n", want: push.PermissionDenied},
		{name: "empty", input: "\n", want: push.PermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewInMemoryStore(nil)
			var out bytes.Buffer
			term := platform.NewTerminal(platform.TerminalConfig{
				Store:  store,
				In:     strings.NewReader(tt.input),
				Out:    &out,
				Logger: zerolog.Nop(),
			})

			before, err := term.Permission(context.Background())
			require.NoError(t, err)
			assert.Equal(t, push.PermissionUndetermined, before)

			status, err := term.RequestPermission(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
			assert.Contains(t, out.String(), "[y/N]")

			after, err := term.Permission(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, after)
		})
	}
}

func TestTerminal_NoInputDeclines(t *testing.T) {
	term := platform.NewTerminal(platform.TerminalConfig{Logger: zerolog.Nop()})

	status, err := term.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, push.PermissionDenied, status)
}

func TestTerminal_PushToken(t *testing.T) {
	issuer := &fakeIssuer{token: "ExponentPushToken[t]"}
	term := platform.NewTerminal(platform.TerminalConfig{
		PhysicalDevice: true,
		DeviceID:       "device-1",
		OS:             "ios",
		Issuer:         issuer,
		Logger:         zerolog.Nop(),
	})

	token, err := term.PushToken(context.Background(), "proj")
	require.NoError(t, err)
	assert.Equal(t, "ExponentPushToken[t]", token)
	assert.Equal(t, "apns", issuer.req.Type)
	assert.Equal(t, "device-1", issuer.req.DeviceID)
	assert.Equal(t, "proj", issuer.req.ProjectID)

	issuer.err = errors.New("relay down")
	_, err = term.PushToken(context.Background(), "proj")
	assert.Error(t, err)

	_, err = platform.NewTerminal(platform.TerminalConfig{}).PushToken(context.Background(), "proj")
	assert.Error(t, err)
}

func TestTerminal_RegistersThroughRegistrar(t *testing.T) {
	var out bytes.Buffer
	term := platform.NewTerminal(platform.TerminalConfig{
		PhysicalDevice: true,
		DeviceID:       "device-1",
		OS:             "android",
		Store:          session.NewInMemoryStore(nil),
		Issuer:         &fakeIssuer{token: "ExponentPushToken[a]"},
		In:             strings.NewReader("y\n"),
		Out:            &out,
		Logger:         zerolog.Nop(),
	})

	registrar := push.NewRegistrar(push.RegistrarConfig{Platform: term, Alerter: term, Logger: zerolog.Nop()})
	assert.Equal(t, "ExponentPushToken[a]", registrar.Register(context.Background()))

	ch, ok := term.Channel("default")
	require.True(t, ok)
	assert.Equal(t, push.DefaultChannel, ch)
}

func TestTerminal_Alert(t *testing.T) {
	var out bytes.Buffer
	term := platform.NewTerminal(platform.TerminalConfig{Out: &out})

	term.Alert("Login failed", "Invalid credentials")
	term.Alert("", "Must use physical device for push notifications")

	assert.Equal(t, "! Login failed: Invalid credentials\n! Must use physical device for push notifications\n", out.String())
}

func TestTerminal_OpenURLCommandFailure(t *testing.T) {
	var out bytes.Buffer
	term := platform.NewTerminal(platform.TerminalConfig{
		Out:         &out,
		OpenCommand: []string{"/nonexistent/opener"},
		Logger:      zerolog.Nop(),
	})

	err := term.OpenURL(context.Background(), "http://clinic.test/api/download?url=medical_files%2Fa.pdf")
	assert.Error(t, err)
	assert.Contains(t, out.String(), "medical_files%2Fa.pdf")
}
