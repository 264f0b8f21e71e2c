package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicmate/clinicmate/internal/pushrelay"
	"github.com/clinicmate/clinicmate/internal/worker"
)

type fakeRelay struct {
	errs    []error // returned in order, then success
	calls   atomic.Int32
	pingErr error
	pinged  atomic.Bool
	last    pushrelay.Message
}

func (f *fakeRelay) Send(_ context.Context, msg pushrelay.Message) (*pushrelay.Ticket, error) {
	n := int(f.calls.Add(1))
	f.last = msg
	if n <= len(f.errs) {
		return nil, f.errs[n-1]
	}
	return &pushrelay.Ticket{Status: "ok", ID: fmt.Sprintf("ticket-%d", n)}, nil
}

func (f *fakeRelay) Ping(context.Context) error {
	f.pinged.Store(true)
	return f.pingErr
}

func newDispatcher(relay worker.Relay, retries uint64) *worker.Dispatcher {
	return worker.NewDispatcher(worker.DispatcherConfig{
		Relay:  relay,
		Retry:  worker.RetryPolicy{MaxRetries: retries, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond},
		Logger: zerolog.Nop(),
	})
}

func pushJob(t *testing.T) []byte {
	t.Helper()
	data, err := worker.EncodePushSend(pushrelay.SampleMessage("ExponentPushToken[abc]"))
	require.NoError(t, err)
	return data
}

func TestDispatcher_SendsPush(t *testing.T) {
	relay := &fakeRelay{}
	d := newDispatcher(relay, 3)

	assert.Equal(t, worker.Ack, d.Handle(context.Background(), pushJob(t)))
	assert.Equal(t, int32(1), relay.calls.Load())
	assert.Equal(t, "Original Title", relay.last.Title)
	assert.Equal(t, worker.Stats{Sent: 1}, d.Stats())
}

func TestDispatcher_RetriesUnavailable(t *testing.T) {
	relay := &fakeRelay{errs: []error{pushrelay.ErrUnavailable, pushrelay.ErrUnavailable}}
	d := newDispatcher(relay, 3)

	assert.Equal(t, worker.Ack, d.Handle(context.Background(), pushJob(t)))
	assert.Equal(t, int32(3), relay.calls.Load())
}

func TestDispatcher_NacksWhenRetriesExhausted(t *testing.T) {
	relay := &fakeRelay{errs: []error{pushrelay.ErrUnavailable, pushrelay.ErrUnavailable, pushrelay.ErrUnavailable}}
	d := newDispatcher(relay, 2)

	assert.Equal(t, worker.Nack, d.Handle(context.Background(), pushJob(t)))
	assert.Equal(t, int32(3), relay.calls.Load())
	assert.Equal(t, int64(1), d.Stats().Failed)
}

func TestDispatcher_AcksRejected(t *testing.T) {
	relay := &fakeRelay{errs: []error{fmt.Errorf("DeviceNotRegistered: %w", pushrelay.ErrRejected)}}
	d := newDispatcher(relay, 3)

	assert.Equal(t, worker.Ack, d.Handle(context.Background(), pushJob(t)))
	assert.Equal(t, int32(1), relay.calls.Load(), "rejections are not retried")
	assert.Equal(t, int64(1), d.Stats().Rejected)
}

func TestDispatcher_DropsMalformed(t *testing.T) {
	relay := &fakeRelay{}
	d := newDispatcher(relay, 3)

	payloads := []string{
		`not json`,
		`{}`,
		`{"job_type":"push_send"}`,
		`{"job_type":"push_send","message":{"to":"","title":"x"}}`,
		`{"job_type":"provider_refresh"}`,
	}
	for _, p := range payloads {
		assert.Equal(t, worker.Ack, d.Handle(context.Background(), []byte(p)), p)
	}
	assert.Zero(t, relay.calls.Load())
	assert.Equal(t, int64(len(payloads)), d.Stats().Dropped)
}

func TestDispatcher_HealthCheckAlwaysAcks(t *testing.T) {
	relay := &fakeRelay{pingErr: errors.New("down")}
	d := newDispatcher(relay, 0)

	assert.Equal(t, worker.Ack, d.Handle(context.Background(), []byte(`{"job_type":"health_check"}`)))
	assert.True(t, relay.pinged.Load())
}

func TestDispatcher_CanceledContextNacks(t *testing.T) {
	relay := &fakeRelay{errs: []error{pushrelay.ErrUnavailable, pushrelay.ErrUnavailable, pushrelay.ErrUnavailable, pushrelay.ErrUnavailable}}
	d := worker.NewDispatcher(worker.DispatcherConfig{
		Relay:  relay,
		Retry:  worker.RetryPolicy{MaxRetries: 3, InitialInterval: time.Hour, MaxInterval: time.Hour},
		Logger: zerolog.Nop(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Equal(t, worker.Nack, d.Handle(ctx, pushJob(t)))
}

func TestEncodePushSend(t *testing.T) {
	data, err := worker.EncodePushSend(pushrelay.SampleMessage("tok"))
	require.NoError(t, err)

	job, err := worker.ParseJob(data)
	require.NoError(t, err)
	assert.Equal(t, worker.JobTypePushSend, job.JobType)
	require.NotNil(t, job.Message)
	assert.Equal(t, "tok", job.Message.To)
	assert.Equal(t, map[string]any{"someData": "goes here"}, job.Message.Data)

	_, err = worker.EncodePushSend(pushrelay.Message{})
	assert.Error(t, err)

	_, err = worker.ParseJob([]byte(`{"message":{}}`))
	assert.ErrorIs(t, err, worker.ErrMalformedJob)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "ack", worker.Ack.String())
	assert.Equal(t, "nack", worker.Nack.String())
}
