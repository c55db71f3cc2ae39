package commands

import (
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/guard"
)

var ErrResolveOrderOutcomeCommandIsNotConstructed = errors.New(
	"ResolveOrderOutcomeCommand must be created via NewResolveOrderOutcomeCommand constructor",
)

// ResolveOrderOutcomeCommand ends the processing of an IN_PROGRESS order.
type ResolveOrderOutcomeCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewResolveOrderOutcomeCommand creates a request to decide how an order ends.
func NewResolveOrderOutcomeCommand(orderID kernel.UUID) (ResolveOrderOutcomeCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ResolveOrderOutcomeCommand{}, err
	}

	return ResolveOrderOutcomeCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the command was created via NewResolveOrderOutcomeCommand.
func (c ResolveOrderOutcomeCommand) Validate() error {
	return c.guard.Validate(ErrResolveOrderOutcomeCommandIsNotConstructed)
}

// OrderID returns the order to resolve.
func (c ResolveOrderOutcomeCommand) OrderID() kernel.UUID {
	return c.orderID
}
