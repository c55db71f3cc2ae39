// Package ports defines the contracts between the order lifecycle core and its
// infrastructure: persistence, outbox, deduplication and message publishing.
package ports

import (
	"context"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists status and item changes of an existing order. The write
	// only succeeds if the stored version equals aggregate.Version(); otherwise
	// an errs.VersionIsInvalidError is returned.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads the order with its items. A missing order is reported as
	// errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Exists reports whether an order with id is stored.
	Exists(ctx context.Context, id kernel.UUID) (bool, error)
}
