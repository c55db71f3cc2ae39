package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/domain/services"
)

// ResolveOrderOutcomeCommandHandler asks the OutcomeResolver how an
// IN_PROGRESS order ends and applies the decision.
type ResolveOrderOutcomeCommandHandler struct {
	step     lifecycleStep
	resolver services.OutcomeResolver
}

// NewResolveOrderOutcomeCommandHandler creates a handler deciding outcomes with resolver.
func NewResolveOrderOutcomeCommandHandler(
	uowFactory OrderUoWFactory,
	resolver services.OutcomeResolver,
) ResolveOrderOutcomeCommandHandler {
	return ResolveOrderOutcomeCommandHandler{
		step:     lifecycleStep{uowFactory: uowFactory},
		resolver: resolver,
	}
}

// Handle loads the order, applies the resolved outcome and stores the raised events.
func (h *ResolveOrderOutcomeCommandHandler) Handle(ctx context.Context, cmd ResolveOrderOutcomeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.step.run(ctx, cmd.OrderID(), func(o *order.Order) error {
		return services.ApplyOutcome(o, h.resolver.Resolve(o))
	})
}
