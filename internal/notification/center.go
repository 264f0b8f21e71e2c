// Package notification dispatches incoming push notifications to subscribers.
package notification

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Notification is a push notification delivered to the device.
type Notification struct {
	ID         string
	Title      string
	Body       string
	Data       map[string]interface{}
	ReceivedAt time.Time
}

// Response is the user's interaction with a notification.
type Response struct {
	Notification Notification
	ActionID     string
}

// DefaultActionID is the action of tapping the notification itself.
const DefaultActionID = "default"

// Behavior decides how a notification is presented while the app is in the foreground.
type Behavior struct {
	ShowAlert bool
	PlaySound bool
	SetBadge  bool
}

// DefaultBehavior shows an alert without sound or badge.
var DefaultBehavior = Behavior{ShowAlert: true}

// CenterConfig holds configuration for the Center.
type CenterConfig struct {
	// Behavior overrides DefaultBehavior when non-nil.
	Behavior *Behavior

	Logger zerolog.Logger
}

// Center fans notifications out to subscribers.
type Center struct {
	mu        sync.RWMutex
	nextID    uint64
	received  map[uint64]func(Notification)
	responses map[uint64]func(Response)
	behavior  Behavior
	logger    zerolog.Logger
}

// NewCenter creates a new notification center.
func NewCenter(cfg CenterConfig) *Center {
	behavior := DefaultBehavior
	if cfg.Behavior != nil {
		behavior = *cfg.Behavior
	}
	return &Center{
		received:  make(map[uint64]func(Notification)),
		responses: make(map[uint64]func(Response)),
		behavior:  behavior,
		logger:    cfg.Logger,
	}
}

// Behavior returns the foreground presentation policy.
func (c *Center) Behavior() Behavior {
	return c.behavior
}

// OnReceived subscribes fn to received notifications.
func (c *Center) OnReceived(fn func(Notification)) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.received[id] = fn

	return newSubscription(func() {
		c.mu.Lock()
		delete(c.received, id)
		c.mu.Unlock()
	})
}

// OnResponse subscribes fn to notification responses.
func (c *Center) OnResponse(fn func(Response)) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.responses[id] = fn

	return newSubscription(func() {
		c.mu.Lock()
		delete(c.responses, id)
		c.mu.Unlock()
	})
}

// DispatchReceived delivers n to every received-subscriber and returns
// how it should be presented.
func (c *Center) DispatchReceived(n Notification) Behavior {
	if n.ReceivedAt.IsZero() {
		n.ReceivedAt = time.Now()
	}

	for _, fn := range c.receivedHandlers() {
		fn(n)
	}

	c.logger.Debug().Str("notification_id", n.ID).Str("title", n.Title).Msg("notification received")
	return c.behavior
}

// DispatchResponse delivers r to every response-subscriber.
func (c *Center) DispatchResponse(r Response) {
	if r.ActionID == "" {
		r.ActionID = DefaultActionID
	}

	c.mu.RLock()
	handlers := make([]func(Response), 0, len(c.responses))
	for _, fn := range c.responses {
		handlers = append(handlers, fn)
	}
	c.mu.RUnlock()

	for _, fn := range handlers {
		fn(r)
	}
}

// Subscribers returns the number of active subscriptions.
func (c *Center) Subscribers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.received) + len(c.responses)
}

// handlers are copied so a subscriber may unsubscribe while being called.
func (c *Center) receivedHandlers() []func(Notification) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	handlers := make([]func(Notification), 0, len(c.received))
	for _, fn := range c.received {
		handlers = append(handlers, fn)
	}
	return handlers
}

// Subscription is a handle to a registered callback.
type Subscription struct {
	once   sync.Once
	remove func()
}

func newSubscription(remove func()) *Subscription {
	return &Subscription{remove: remove}
}

// Unsubscribe removes the callback. It is safe to call more than once
// and on a nil Subscription.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.remove)
}
