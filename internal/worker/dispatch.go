package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/clinicmate/clinicmate/internal/pushrelay"
)

// Relay delivers push messages.
type Relay interface {
	Send(ctx context.Context, msg pushrelay.Message) (*pushrelay.Ticket, error)
	Ping(ctx context.Context) error
}

// Outcome tells the subscriber what to do with a message.
type Outcome int

const (
	// Ack removes the message from the subscription.
	Ack Outcome = iota
	// Nack asks Pub/Sub to redeliver the message.
	Nack
)

func (o Outcome) String() string {
	if o == Nack {
		return "nack"
	}
	return "ack"
}

// RetryPolicy bounds relay delivery retries.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy retries three times starting at 500ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, InitialInterval: 500 * time.Millisecond, MaxInterval: 10 * time.Second}
}

// Stats counts processed jobs.
type Stats struct {
	Sent     int64
	Rejected int64
	Dropped  int64
	Failed   int64
}

// DispatcherConfig holds configuration for the dispatcher.
type DispatcherConfig struct {
	Relay  Relay
	Retry  RetryPolicy
	Logger zerolog.Logger
}

// Dispatcher processes job payloads.
type Dispatcher struct {
	relay  Relay
	retry  RetryPolicy
	logger zerolog.Logger

	sent, rejected, dropped, failed atomic.Int64
}

// NewDispatcher creates a new dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{relay: cfg.Relay, retry: cfg.Retry, logger: cfg.Logger}
}

// Handle processes one payload. Malformed, unknown and relay-rejected jobs
// are acked and dropped; relay outages are nacked for redelivery.
func (d *Dispatcher) Handle(ctx context.Context, data []byte) Outcome {
	job, err := ParseJob(data)
	if err != nil {
		d.dropped.Add(1)
		d.logger.Error().Err(err).Msg("dropping malformed job")
		return Ack
	}

	switch job.JobType {
	case JobTypePushSend:
		return d.handlePushSend(ctx, job)
	case JobTypeHealthCheck:
		d.handleHealthCheck(ctx)
		return Ack
	default:
		d.dropped.Add(1)
		d.logger.Warn().Str("job_type", job.JobType).Msg("unknown job type")
		return Ack
	}
}

func (d *Dispatcher) handlePushSend(ctx context.Context, job Job) Outcome {
	if job.Message == nil {
		d.dropped.Add(1)
		d.logger.Error().Msg("push_send job without message")
		return Ack
	}
	msg := *job.Message
	if err := msg.Validate(); err != nil {
		d.dropped.Add(1)
		d.logger.Error().Err(err).Msg("dropping invalid push message")
		return Ack
	}

	ticket, err := d.send(ctx, msg)
	switch {
	case err == nil:
		d.sent.Add(1)
		d.logger.Info().Str("ticket_id", ticket.ID).Msg("push message sent")
		return Ack
	case errors.Is(err, pushrelay.ErrRejected):
		d.rejected.Add(1)
		d.logger.Warn().Err(err).Msg("push message rejected by relay")
		return Ack
	default:
		d.failed.Add(1)
		d.logger.Error().Err(err).Msg("push delivery failed")
		return Nack
	}
}

func (d *Dispatcher) send(ctx context.Context, msg pushrelay.Message) (*pushrelay.Ticket, error) {
	var ticket *pushrelay.Ticket
	attempt := 0

	op := func() error {
		attempt++
		t, err := d.relay.Send(ctx, msg)
		if err != nil {
			if errors.Is(err, pushrelay.ErrRejected) {
				return backoff.Permanent(err)
			}
			d.logger.Debug().Err(err).Int("attempt", attempt).Msg("relay send failed")
			return err
		}
		ticket = t
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(d.backOff(), ctx)); err != nil {
		return nil, fmt.Errorf("after %d attempts: %w", attempt, err)
	}
	return ticket, nil
}

func (d *Dispatcher) backOff() backoff.BackOff {
	if d.retry.MaxRetries == 0 {
		return &backoff.StopBackOff{}
	}
	bo := backoff.NewExponentialBackOff()
	if d.retry.InitialInterval > 0 {
		bo.InitialInterval = d.retry.InitialInterval
	}
	if d.retry.MaxInterval > 0 {
		bo.MaxInterval = d.retry.MaxInterval
	}
	bo.MaxElapsedTime = 0
	return backoff.WithMaxRetries(bo, d.retry.MaxRetries)
}

func (d *Dispatcher) handleHealthCheck(ctx context.Context) {
	if err := d.relay.Ping(ctx); err != nil {
		d.logger.Warn().Err(err).Msg("relay health check failed")
		return
	}
	d.logger.Debug().Msg("relay health check passed")
}

// Stats returns a snapshot of the job counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Sent:     d.sent.Load(),
		Rejected: d.rejected.Load(),
		Dropped:  d.dropped.Load(),
		Failed:   d.failed.Load(),
	}
}
