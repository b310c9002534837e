// Package eventbus provides the publish/subscribe transport used between modules.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/ahalia-sports/tournament-admin/pkg/observability"
	nc "github.com/nats-io/nats.go"
)

// CorrelationIDKey is the metadata key carrying the correlation ID.
const CorrelationIDKey = "correlation_id"

// EventBus publishes and subscribes to topics.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

type eventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     *slog.Logger
	shared     bool
	closeOnce  sync.Once
	closeErr   error
}

// NewInMemory returns an in-process bus backed by a watermill Go channel.
func NewInMemory(logger *slog.Logger) EventBus {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, watermill.NewSlogLogger(logger))

	return &eventBus{
		publisher:  pubSub,
		subscriber: pubSub,
		logger:     logger,
		shared:     true,
	}
}

// NewNATS returns a bus backed by core NATS subjects.
func NewNATS(natsURL, queueGroup string, logger *slog.Logger) (EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)
	marshaler := &wmnats.NATSMarshaler{}
	natsOptions := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Name(queueGroup),
	}

	publisher, err := wmnats.NewPublisher(wmnats.PublisherConfig{
		URL:         natsURL,
		NatsOptions: natsOptions,
		Marshaler:   marshaler,
		JetStream:   wmnats.JetStreamConfig{Disabled: true},
	}, wmLogger)
	if err != nil {
		logger.Error("Failed to create NATS publisher", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	subscriber, err := wmnats.NewSubscriber(wmnats.SubscriberConfig{
		URL:              natsURL,
		QueueGroupPrefix: queueGroup,
		SubscribersCount: 1,
		NatsOptions:      natsOptions,
		Unmarshaler:      marshaler,
		JetStream:        wmnats.JetStreamConfig{Disabled: true},
	}, wmLogger)
	if err != nil {
		publisher.Close()
		logger.Error("Failed to create NATS subscriber", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}

	return &eventBus{
		publisher:  publisher,
		subscriber: subscriber,
		logger:     logger,
	}, nil
}

func (b *eventBus) Publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
		b.logger.Debug("Publishing message",
			slog.String("topic", topic),
			slog.String("message_id", msg.UUID),
			slog.String(CorrelationIDKey, msg.Metadata.Get(CorrelationIDKey)),
		)
	}

	if err := b.publisher.Publish(topic, msgs...); err != nil {
		b.logger.Error("Failed to publish message", slog.String("topic", topic), slog.Any("error", err))
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (b *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	messages, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	b.logger.Info("Subscription started", slog.String("topic", topic))
	return messages, nil
}

// Close releases the publisher and subscriber. Safe to call more than once.
func (b *eventBus) Close() error {
	b.closeOnce.Do(func() {
		if err := b.publisher.Close(); err != nil {
			b.logger.Error("Error closing publisher", slog.Any("error", err))
			b.closeErr = err
		}
		if !b.shared {
			if err := b.subscriber.Close(); err != nil {
				b.logger.Error("Error closing subscriber", slog.Any("error", err))
				if b.closeErr == nil {
					b.closeErr = err
				}
			}
		}
	})
	return b.closeErr
}

// NewJSONMessage marshals payload into a message carrying the context's correlation ID.
func NewJSONMessage(ctx context.Context, payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	correlationID := observability.CorrelationID(ctx)
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	msg.Metadata.Set(CorrelationIDKey, correlationID)
	return msg, nil
}
