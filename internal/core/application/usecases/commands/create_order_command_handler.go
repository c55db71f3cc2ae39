package commands

import (
	"context"
	"errors"
	"fmt"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// CreateOrderCommandHandler builds a NEW order from a CreateOrderCommand and
// stores it with its OrderCreated event.
//
// Duplicate commands are filtered before this handler by the deduplication
// guard; the handler does not check whether the order already exists.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler using the given unit of work factory.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle validates the items through the aggregate, then persists the order
// and its events in one transaction.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	items, err := buildLineItems(cmd.Items())
	if err != nil {
		return err
	}

	aggregate, err := order.NewOrderWithItems(cmd.OrderID(), items)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.OutboxRepository().Add(ctx, aggregate.PullEvents()...); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func buildLineItems(requested []CreateOrderItem) ([]*order.LineItem, error) {
	items := make([]*order.LineItem, 0, len(requested))
	var errList []error

	for i, r := range requested {
		quantity, err := kernel.NewQuantity(r.Quantity)
		if err != nil {
			errList = append(errList, fmt.Errorf("items[%d]: %w", i, err))
			continue
		}

		price, err := kernel.NewMoney(r.Price, r.Currency)
		if err != nil {
			errList = append(errList, fmt.Errorf("items[%d]: %w", i, err))
			continue
		}

		item, err := order.NewLineItem(r.ProductID, quantity, price)
		if err != nil {
			errList = append(errList, fmt.Errorf("items[%d]: %w", i, err))
			continue
		}
		items = append(items, item)
	}

	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	return items, nil
}
