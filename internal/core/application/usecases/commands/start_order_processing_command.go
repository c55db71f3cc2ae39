package commands

import (
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/guard"
)

var ErrStartOrderProcessingCommandIsNotConstructed = errors.New(
	"StartOrderProcessingCommand must be created via NewStartOrderProcessingCommand constructor",
)

// StartOrderProcessingCommand moves a NEW order to IN_PROGRESS. It is issued
// by the event orchestrator when it sees OrderCreated.
type StartOrderProcessingCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartOrderProcessingCommand creates a request to move an order to IN_PROGRESS.
func NewStartOrderProcessingCommand(orderID kernel.UUID) (StartOrderProcessingCommand, error) {
	if err := orderID.Validate(); err != nil {
		return StartOrderProcessingCommand{}, err
	}

	return StartOrderProcessingCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the command was created via NewStartOrderProcessingCommand.
func (c StartOrderProcessingCommand) Validate() error {
	return c.guard.Validate(ErrStartOrderProcessingCommandIsNotConstructed)
}

// OrderID returns the order to start.
func (c StartOrderProcessingCommand) OrderID() kernel.UUID {
	return c.orderID
}
