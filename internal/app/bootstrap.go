// Package app runs the start-up sequence of the client.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/clinicmate/clinicmate/internal/nav"
	"github.com/clinicmate/clinicmate/internal/notification"
)

// TokenReader reads the stored auth token.
type TokenReader interface {
	AuthToken(ctx context.Context) (string, error)
}

// PushRegistrar obtains the device push token. It must return "" on failure.
type PushRegistrar interface {
	Register(ctx context.Context) string
}

// Config holds configuration for the Bootstrap.
type Config struct {
	Session TokenReader

	// Push registers for notifications (optional).
	Push PushRegistrar

	// Notifications receives the app-lifetime subscriptions (optional).
	Notifications *notification.Center

	Logger zerolog.Logger
}

// Bootstrap decides the initial route and registers for push notifications.
// The two steps run concurrently; only the session check gates the first render.
type Bootstrap struct {
	session       TokenReader
	push          PushRegistrar
	notifications *notification.Center
	logger        zerolog.Logger

	routeDone chan struct{}
	route     nav.Route

	pushDone  chan struct{}
	pushToken string

	mu            sync.Mutex
	last          *notification.Notification
	lastResponse  *notification.Response
	subscriptions []*notification.Subscription
	closeOnce     sync.Once
}

// New creates a Bootstrap. Call Start to run it.
func New(cfg Config) *Bootstrap {
	return &Bootstrap{
		session:       cfg.Session,
		push:          cfg.Push,
		notifications: cfg.Notifications,
		logger:        cfg.Logger,
		routeDone:     make(chan struct{}),
		pushDone:      make(chan struct{}),
	}
}

// Start launches the session check and push registration and subscribes to
// notifications. It returns immediately.
func (b *Bootstrap) Start(ctx context.Context) {
	if b.notifications != nil {
		b.mu.Lock()
		b.subscriptions = append(b.subscriptions,
			b.notifications.OnReceived(b.handleReceived),
			b.notifications.OnResponse(b.handleResponse),
		)
		b.mu.Unlock()
	}

	go b.checkSession(ctx)
	go b.registerPush(ctx)
}

func (b *Bootstrap) checkSession(ctx context.Context) {
	defer close(b.routeDone)

	ctx, span := otel.Tracer("github.com/clinicmate/clinicmate/internal/app").Start(ctx, "bootstrap.session_check")
	defer span.End()

	b.route = nav.RouteLogin
	if b.session == nil {
		return
	}

	token, err := b.session.AuthToken(ctx)
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to load token")
		return
	}
	if token != "" {
		b.route = nav.RouteHomeTabs
	}
	span.SetAttributes(attribute.String("initial_route", string(b.route)))
}

func (b *Bootstrap) registerPush(ctx context.Context) {
	defer close(b.pushDone)

	if b.push == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().Interface("panic", r).Msg("push registration panicked")
			b.pushToken = ""
		}
	}()

	b.pushToken = b.push.Register(ctx)
}

// InitialRoute blocks until the session check completes and returns the
// route to render first.
func (b *Bootstrap) InitialRoute(ctx context.Context) (nav.Route, error) {
	select {
	case <-b.routeDone:
		return b.route, nil
	case <-ctx.Done():
		return nav.RouteLogin, ctx.Err()
	}
}

// Loading reports whether the session check is still running.
func (b *Bootstrap) Loading() bool {
	select {
	case <-b.routeDone:
		return false
	default:
		return true
	}
}

// PushToken returns the push token if registration has finished.
func (b *Bootstrap) PushToken() (string, bool) {
	select {
	case <-b.pushDone:
		return b.pushToken, true
	default:
		return "", false
	}
}

// WaitPush blocks until registration finishes or ctx ends, and returns the
// token or "".
func (b *Bootstrap) WaitPush(ctx context.Context) string {
	select {
	case <-b.pushDone:
		return b.pushToken
	case <-ctx.Done():
		return ""
	}
}

// LastNotification returns the most recently received notification.
func (b *Bootstrap) LastNotification() (notification.Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last == nil {
		return notification.Notification{}, false
	}
	return *b.last, true
}

// LastResponse returns the most recent user interaction with a notification.
func (b *Bootstrap) LastResponse() (notification.Response, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastResponse == nil {
		return notification.Response{}, false
	}
	return *b.lastResponse, true
}

func (b *Bootstrap) handleReceived(n notification.Notification) {
	b.mu.Lock()
	b.last = &n
	b.mu.Unlock()
}

func (b *Bootstrap) handleResponse(r notification.Response) {
	b.mu.Lock()
	b.lastResponse = &r
	b.mu.Unlock()

	b.logger.Info().
		Str("notification_id", r.Notification.ID).
		Str("action", r.ActionID).
		Msg("notification response")
}

// Close releases the notification subscriptions.
func (b *Bootstrap) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		subs := b.subscriptions
		b.subscriptions = nil
		b.mu.Unlock()

		for _, sub := range subs {
			sub.Unsubscribe()
		}
	})
}
