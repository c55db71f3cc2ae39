package commands

import (
	"errors"
	"fmt"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired = errors.New("at least one item is required")
)

// CreateOrderItem is one requested line of a CreateOrderCommand. Its values
// are validated by the domain when the order is built.
type CreateOrderItem struct {
	ProductID kernel.UUID
	Quantity  int
	Price     decimal.Decimal
	Currency  string
}

// CreateOrderCommand requests a new order with the externally supplied
// identifier and its initial items.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(orderID, []CreateOrderItem{
//	    {ProductID: productID, Quantity: 2, Price: decimal.RequireFromString("100.00"), Currency: "USD"},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	items   []CreateOrderItem

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the order identifier and that items is not empty.
func NewCreateOrderCommand(orderID kernel.UUID, items []CreateOrderItem) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to create.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Items returns a copy of the requested items.
func (c CreateOrderCommand) Items() []CreateOrderItem {
	return append([]CreateOrderItem(nil), c.items...)
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setItems(items []CreateOrderItem) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	for i, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}

	c.items = append([]CreateOrderItem(nil), items...)
	return nil
}
