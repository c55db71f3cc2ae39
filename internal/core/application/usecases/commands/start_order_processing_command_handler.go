package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
)

// StartOrderProcessingCommandHandler loads the order fresh, starts processing
// and stores the OrderProcessingStarted event.
type StartOrderProcessingCommandHandler struct {
	step lifecycleStep
}

// NewStartOrderProcessingCommandHandler creates a handler using the given unit of work factory.
func NewStartOrderProcessingCommandHandler(uowFactory OrderUoWFactory) StartOrderProcessingCommandHandler {
	return StartOrderProcessingCommandHandler{
		step: lifecycleStep{uowFactory: uowFactory},
	}
}

// Handle loads the order, starts its processing and stores the raised events.
func (h *StartOrderProcessingCommandHandler) Handle(ctx context.Context, cmd StartOrderProcessingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.step.run(ctx, cmd.OrderID(), func(o *order.Order) error {
		return o.StartProcessing()
	})
}
