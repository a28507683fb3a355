package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// MessagePublisher handles publishing messages to a topic
type MessagePublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NoopPublisher satisfies MessagePublisher when event publishing is
// disabled. Every publish succeeds without doing anything.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, key string, value interface{}) error { return nil }
func (NoopPublisher) Close() error                                                     { return nil }
