package ports

import (
	"context"
	"time"

	"orders/internal/core/domain/model/order"
)

// OutboxMessage is an encoded domain event waiting to be published.
type OutboxMessage struct {
	ID        int64
	EventID   string
	Key       string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository stores events in the same transaction as the aggregate
// change that raised them.
type OutboxRepository interface {
	// Add encodes and stores events in the order given.
	Add(ctx context.Context, events ...order.Event) error

	// TryLock takes a transaction-scoped lock so that only one relay publishes
	// at a time. It returns false if another transaction holds it.
	TryLock(ctx context.Context) (bool, error)

	// GetPending returns up to limit unsent messages ordered by ID.
	GetPending(ctx context.Context, limit int) ([]OutboxMessage, error)

	// MarkSent flags messages as published.
	MarkSent(ctx context.Context, ids ...int64) error
}

// MessagePublisher delivers outbox messages to the events topic, keyed by
// order identifier so that events of one order stay ordered.
type MessagePublisher interface {
	Publish(ctx context.Context, msgs ...OutboxMessage) error
}
