package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/commander-league/backend/app/shared"
)

// streamName derives a JetStream stream name from a topic,
// e.g. "group.events" -> "GROUP_EVENTS".
func streamName(topic string) string {
	return strings.ToUpper(strings.ReplaceAll(topic, ".", "_"))
}

// channelEventBus implements shared.EventBus in-process. Used when no NATS
// URL is configured and in tests.
type channelEventBus struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

// NewChannelEventBus creates an in-process EventBus.
func NewChannelEventBus(logger *slog.Logger) shared.EventBus {
	return &channelEventBus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger)),
		logger: logger,
	}
}

func (eb *channelEventBus) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for topic %s: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	return eb.pubSub.Publish(topic, msg)
}

func (eb *channelEventBus) Subscribe(ctx context.Context, topic string, handler func(ctx context.Context, payload []byte) error) error {
	messages, err := eb.pubSub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}

	go func() {
		for msg := range messages {
			if err := handler(ctx, msg.Payload); err != nil {
				eb.logger.Error("Handler error", slog.String("topic", topic), slog.Any("error", err))
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()

	return nil
}

func (eb *channelEventBus) Close() error {
	return eb.pubSub.Close()
}
