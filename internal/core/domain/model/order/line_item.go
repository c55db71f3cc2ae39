package order

import (
	"errors"
	"fmt"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

// ErrLineItemIsNotConstructed is returned when validating a LineItem that was
// not created by NewLineItem or RestoreLineItem.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem")

// LineItem is one product line of an order. Quantity and unit price are both
// strictly positive. Each item has its own identifier, used to remove it.
type LineItem struct {
	id        kernel.UUID
	productID kernel.UUID
	quantity  kernel.Quantity
	unitPrice kernel.Money

	guard guard.ConstructorGuard
}

// NewLineItem creates an item with a fresh identifier.
func NewLineItem(productID kernel.UUID, quantity kernel.Quantity, unitPrice kernel.Money) (*LineItem, error) {
	return RestoreLineItem(kernel.NewUUID(), productID, quantity, unitPrice)
}

// RestoreLineItem rebuilds an item read back from storage.
func RestoreLineItem(
	id kernel.UUID,
	productID kernel.UUID,
	quantity kernel.Quantity,
	unitPrice kernel.Money,
) (*LineItem, error) {
	item := &LineItem{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		item.setID(id),
		item.setProductID(productID),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks that the line item was created via NewLineItem.
func (i *LineItem) Validate() error {
	if i == nil {
		return ErrLineItemIsNotConstructed
	}
	return i.guard.Validate(ErrLineItemIsNotConstructed)
}

// ID returns the line item identifier.
func (i *LineItem) ID() kernel.UUID {
	return i.id
}

// ProductID returns the ordered product.
func (i *LineItem) ProductID() kernel.UUID {
	return i.productID
}

// Quantity returns the ordered quantity.
func (i *LineItem) Quantity() kernel.Quantity {
	return i.quantity
}

// UnitPrice returns the price of a single unit.
func (i *LineItem) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Currency is the currency of the unit price.
func (i *LineItem) Currency() string {
	return i.unitPrice.Currency()
}

// LineTotal returns unitPrice × quantity.
func (i *LineItem) LineTotal() kernel.Money {
	return i.unitPrice.Multiply(i.quantity)
}

func (i *LineItem) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *LineItem) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("productId", err)
	}
	i.productID = productID
	return nil
}

func (i *LineItem) setQuantity(quantity kernel.Quantity) error {
	if !quantity.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity",
			fmt.Errorf("%d is not greater than 0", quantity.Value()),
		)
	}
	i.quantity = quantity
	return nil
}

func (i *LineItem) setUnitPrice(unitPrice kernel.Money) error {
	if err := unitPrice.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("unitPrice", err)
	}
	if !unitPrice.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause(
			"unitPrice",
			fmt.Errorf("%s is not greater than 0", unitPrice),
		)
	}
	i.unitPrice = unitPrice
	return nil
}
