// Package platform provides the device services of the terminal client:
// push capability, permission prompt, URL opener and alerts.
package platform

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/clinicmate/clinicmate/internal/push"
	"github.com/clinicmate/clinicmate/internal/pushrelay"
	"github.com/clinicmate/clinicmate/internal/session"
)

// KeyPermission is the store key holding the notification permission answer.
const KeyPermission = "notificationPermission"

// TokenIssuer obtains push-delivery tokens from the relay.
type TokenIssuer interface {
	PushToken(ctx context.Context, req pushrelay.TokenRequest) (string, error)
}

// TerminalConfig holds configuration for the terminal platform.
type TerminalConfig struct {
	// PhysicalDevice reports whether this installation may receive pushes.
	PhysicalDevice bool
	DeviceID       string
	OS             string

	// Store persists the permission answer (optional).
	Store session.Store

	// Issuer requests push tokens (required for PushToken).
	Issuer TokenIssuer

	// In and Out are used for the permission prompt and alerts.
	// A nil In means the prompt is always declined.
	In  io.Reader
	Out io.Writer

	// OpenCommand overrides the URL opener command, e.g. []string{"xdg-open"}.
	OpenCommand []string

	Logger zerolog.Logger
}

// Terminal implements push.Platform, screen.Alerter and screen.URLOpener.
type Terminal struct {
	physical    bool
	deviceID    string
	os          string
	store       session.Store
	issuer      TokenIssuer
	in          *bufio.Reader
	out         io.Writer
	openCommand []string
	logger      zerolog.Logger

	mu       sync.Mutex
	channels map[string]push.Channel
}

// NewTerminal creates a terminal platform.
func NewTerminal(cfg TerminalConfig) *Terminal {
	t := &Terminal{
		physical:    cfg.PhysicalDevice,
		deviceID:    cfg.DeviceID,
		os:          cfg.OS,
		store:       cfg.Store,
		issuer:      cfg.Issuer,
		out:         cfg.Out,
		openCommand: cfg.OpenCommand,
		logger:      cfg.Logger,
		channels:    make(map[string]push.Channel),
	}
	if t.os == "" {
		t.os = runtime.GOOS
	}
	if t.out == nil {
		t.out = io.Discard
	}
	if cfg.In != nil {
		t.in = bufio.NewReader(cfg.In)
	}
	return t
}

var _ push.Platform = (*Terminal)(nil)

func (t *Terminal) IsDevice() bool {
	return t.physical && t.deviceID != ""
}

func (t *Terminal) OS() string {
	return t.os
}

// SetNotificationChannel records the channel; the terminal has a single
// presentation path so the settings are informational.
func (t *Terminal) SetNotificationChannel(_ context.Context, ch push.Channel) error {
	if ch.ID == "" {
		return errors.New("channel id is required")
	}
	t.mu.Lock()
	t.channels[ch.ID] = ch
	t.mu.Unlock()
	return nil
}

// Channel returns a configured channel.
func (t *Terminal) Channel(id string) (push.Channel, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch, ok := t.channels[id]
	return ch, ok
}

// Permission returns the remembered permission answer.
func (t *Terminal) Permission(ctx context.Context) (push.PermissionStatus, error) {
	if t.store == nil {
		return push.PermissionUndetermined, nil
	}
	v, err := t.store.Get(ctx, KeyPermission)
	if errors.Is(err, session.ErrKeyNotFound) {
		return push.PermissionUndetermined, nil
	}
	if err != nil {
		return "", fmt.Errorf("reading permission: %w", err)
	}
	return push.PermissionStatus(v), nil
}

// RequestPermission asks on the terminal and remembers the answer.
func (t *Terminal) RequestPermission(ctx context.Context) (push.PermissionStatus, error) {
	status := push.PermissionDenied
	if t.in != nil {
		fmt.Fprint(t.out, "Allow clinicmate to send you notifications? [y/N] ")
		line, err := t.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading answer: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			status = push.PermissionGranted
		}
	}

	if t.store != nil {
		if err := t.store.Set(ctx, KeyPermission, string(status)); err != nil {
			t.logger.Warn().Err(err).Msg("failed to remember notification permission")
		}
	}
	return status, nil
}

// PushToken requests a push-delivery token for this device from the relay.
func (t *Terminal) PushToken(ctx context.Context, projectID string) (string, error) {
	if t.issuer == nil {
		return "", errors.New("no push token issuer configured")
	}
	return t.issuer.PushToken(ctx, pushrelay.TokenRequest{
		Type:        tokenType(t.os),
		DeviceID:    t.deviceID,
		ProjectID:   projectID,
		AppID:       "com.clinicmate.terminal",
		DeviceToken: t.deviceID,
	})
}

func tokenType(os string) string {
	if os == "ios" {
		return "apns"
	}
	return "fcm"
}

// Alert prints a message box to the output.
func (t *Terminal) Alert(title, message string) {
	if title == "" {
		fmt.Fprintf(t.out, "! %s\n", message)
		return
	}
	fmt.Fprintf(t.out, "! %s: %s\n", title, message)
}

// OpenURL hands url to the desktop opener, or prints it when none is available.
func (t *Terminal) OpenURL(ctx context.Context, url string) error {
	command := t.openCommand
	if len(command) == 0 {
		command = defaultOpenCommand(runtime.GOOS)
	}
	if len(command) == 0 {
		fmt.Fprintln(t.out, url)
		return nil
	}

	args := append(append([]string{}, command[1:]...), url)
	cmd := exec.CommandContext(ctx, command[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.logger.Debug().Str("output", string(out)).Msg("url opener failed")
		fmt.Fprintln(t.out, url)
		return fmt.Errorf("opening url: %w", err)
	}
	return nil
}

func defaultOpenCommand(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	case "linux", "freebsd", "openbsd", "netbsd":
		if _, err := exec.LookPath("xdg-open"); err == nil {
			return []string{"xdg-open"}
		}
	}
	return nil
}
