package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
)

// CancelOrderCommandHandler cancels NEW and IN_PROGRESS orders.
type CancelOrderCommandHandler struct {
	step lifecycleStep
}

// NewCancelOrderCommandHandler creates a handler using the given unit of work factory.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		step: lifecycleStep{uowFactory: uowFactory},
	}
}

// Handle cancels a NEW or IN_PROGRESS order. Cancelling a terminal order
// returns an order.InvalidStateTransitionError and changes nothing.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.step.run(ctx, cmd.OrderID(), func(o *order.Order) error {
		return o.Cancel()
	})
}
