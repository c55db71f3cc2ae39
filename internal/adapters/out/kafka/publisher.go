// Package kafka writes outbox events and commands to Kafka topics.
package kafka

import (
	"context"

	"orders/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is implemented by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventPublisher publishes outbox messages to the events topic. The message
// key is the order identifier, so events of one order share a partition.
type EventPublisher struct {
	writer MessageWriter
}

// NewEventPublisher creates a publisher writing to writer.
func NewEventPublisher(writer MessageWriter) *EventPublisher {
	return &EventPublisher{writer: writer}
}

// Publish writes all messages in one synchronous batch. Order within the
// batch is preserved per key.
func (p *EventPublisher) Publish(ctx context.Context, msgs ...ports.OutboxMessage) error {
	if len(msgs) == 0 {
		return nil
	}

	out := make([]kafka.Message, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, kafka.Message{
			Key:   []byte(msg.Key),
			Value: msg.Payload,
			Time:  msg.CreatedAt,
			Headers: []kafka.Header{
				{Key: "eventType", Value: []byte(msg.EventType)},
				{Key: "eventId", Value: []byte(msg.EventID)},
			},
		})
	}

	return p.writer.WriteMessages(ctx, out...)
}

func (p *EventPublisher) Close() error {
	return p.writer.Close()
}
