package worker

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/clinicmate/clinicmate/internal/pushrelay"
)

// PubSubConfig holds configuration for the Pub/Sub subscriber.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	Dispatcher       *Dispatcher
	Logger           zerolog.Logger
}

// PubSubHandler feeds subscription messages to a Dispatcher.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	dispatcher       *Dispatcher
	logger           zerolog.Logger
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 5 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		dispatcher:       cfg.Dispatcher,
		logger:           cfg.Logger,
	}, nil
}

// Start receives messages until ctx is done.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().Str("subscription", h.subscriptionName).Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		start := time.Now()
		outcome := h.dispatcher.Handle(ctx, msg.Data)

		h.logger.Info().
			Str("message_id", msg.ID).
			Str("outcome", outcome.String()).
			Dur("duration", time.Since(start)).
			Msg("message processed")

		if outcome == Nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

// Publisher enqueues push jobs on a topic.
type Publisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
}

// NewPublisher creates a publisher for topic.
func NewPublisher(ctx context.Context, projectID, topic string) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}
	return &Publisher{client: client, publisher: client.Publisher(topic)}, nil
}

// PublishPush enqueues a push_send job and waits for the server id.
func (p *Publisher) PublishPush(ctx context.Context, msg pushrelay.Message) (string, error) {
	data, err := EncodePushSend(msg)
	if err != nil {
		return "", err
	}
	id, err := p.publisher.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"job_type": JobTypePushSend},
	}).Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publishing push job: %w", err)
	}
	return id, nil
}

// Close flushes pending messages and closes the client.
func (p *Publisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}
