package shared

import "context"

// EventBus is the minimal publishing contract the services depend on.
// Implementations live in app/eventbus (NATS JetStream for deployments, an
// in-process gochannel bus for local mode and tests).
type EventBus interface {
	// Publish marshals payload as JSON and publishes it on topic.
	Publish(ctx context.Context, topic string, payload any) error

	// Subscribe registers a handler for a topic. The handler receives the
	// raw message payload.
	Subscribe(ctx context.Context, topic string, handler func(ctx context.Context, payload []byte) error) error

	// Close releases the underlying connections.
	Close() error
}
