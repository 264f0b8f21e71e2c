package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/clinicmate/clinicmate/internal/app"
	"github.com/clinicmate/clinicmate/internal/clinicapi"
	"github.com/clinicmate/clinicmate/internal/config"
	"github.com/clinicmate/clinicmate/internal/nav"
	"github.com/clinicmate/clinicmate/internal/notification"
	"github.com/clinicmate/clinicmate/internal/platform"
	"github.com/clinicmate/clinicmate/internal/provider/resilience"
	"github.com/clinicmate/clinicmate/internal/push"
	"github.com/clinicmate/clinicmate/internal/pushrelay"
	"github.com/clinicmate/clinicmate/internal/session"
	"github.com/clinicmate/clinicmate/internal/telemetry"
)

// Client holds the dependencies shared by every command.
type Client struct {
	cfg    *config.Client
	logger zerolog.Logger
	stdin  io.Reader
	in     *bufio.Reader
	out    io.Writer

	store     *session.FileStore
	session   *session.Service
	registry  *resilience.Registry
	api       *clinicapi.Client
	relay     *pushrelay.Client
	terminal  *platform.Terminal
	registrar *push.Registrar
	center    *notification.Center
	nav       *nav.Recorder

	telemetry *telemetry.Provider
	tracer    trace.Tracer
}

func newClient(ctx context.Context, cmd *cobra.Command) (*Client, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)

	tp, err := telemetry.Init(ctx, telemetry.FromEnv("clinic", Version, cfg.Telemetry))
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	c := &Client{
		cfg:       cfg,
		logger:    logger,
		stdin:     cmd.InOrStdin(),
		in:        bufio.NewReader(cmd.InOrStdin()),
		out:       &syncWriter{w: cmd.OutOrStdout()},
		registry:  resilience.NewRegistry(),
		nav:       nav.NewRecorder(nav.RouteLogin),
		telemetry: tp,
		tracer:    tp.Tracer,
	}

	c.store = session.NewFileStore(cfg.SessionFile, logger)
	c.session = session.NewService(session.ServiceConfig{Store: c.store, Logger: logger})

	c.api = clinicapi.NewClient(clinicapi.ClientConfig{
		BaseURL:  cfg.APIBaseURL,
		Tokens:   c.session,
		Timeout:  cfg.HTTPTimeout,
		Registry: c.registry,
		Logger:   logger,
	})

	c.relay = pushrelay.NewClient(pushrelay.ClientConfig{
		BaseURL:  cfg.PushRelayURL,
		Timeout:  cfg.HTTPTimeout,
		Retry:    resilience.NoRetry,
		Registry: c.registry,
		Logger:   logger,
	})

	c.terminal = platform.NewTerminal(platform.TerminalConfig{
		PhysicalDevice: cfg.PhysicalDevice,
		DeviceID:       cfg.DeviceID,
		OS:             cfg.PlatformOS,
		Store:          c.store,
		Issuer:         c.relay,
		In:             c.in,
		Out:            c.out,
		Logger:         logger,
	})

	c.registrar = push.NewRegistrar(push.RegistrarConfig{
		Platform:  c.terminal,
		Alerter:   c.terminal,
		ProjectID: cfg.ProjectID,
		Logger:    logger,
	})

	c.center = notification.NewCenter(notification.CenterConfig{Logger: logger})

	return c, nil
}

func newLogger(cfg *config.Client) zerolog.Logger {
	var w io.Writer = os.Stderr
	if pretty || cfg.LogPretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Bootstrap starts the launch sequence. Push registration only runs when
// withPush is set, so read-only commands never prompt for permission.
func (c *Client) Bootstrap(ctx context.Context, withPush bool) *app.Bootstrap {
	cfg := app.Config{
		Session:       c.session,
		Notifications: c.center,
		Logger:        c.logger,
	}
	if withPush {
		cfg.Push = c.registrar
	}
	boot := app.New(cfg)
	boot.Start(ctx)
	return boot
}

// RequireSession resolves the initial route and prints a hint when the user
// has to log in first.
func (c *Client) RequireSession(ctx context.Context, boot *app.Bootstrap) (bool, error) {
	route, err := boot.InitialRoute(ctx)
	if err != nil {
		return false, err
	}
	c.nav.Reset(route)
	if route != nav.RouteHomeTabs {
		c.printLoginHint()
		return false, nil
	}
	return true, nil
}

func (c *Client) printLoginHint() {
	fmt.Fprintln(c.out, "Not logged in. Run `clinic login` first.")
}

// Close flushes telemetry.
func (c *Client) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.telemetry.Shutdown(ctx); err != nil {
		c.logger.Error().Err(err).Msg("failed to shutdown telemetry")
	}
}

// syncWriter serializes writes from the bootstrap goroutines and the command.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
