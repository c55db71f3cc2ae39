package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
)

// DefaultCurrency is the currency of the total of an order without items.
const DefaultCurrency = "USD"

// DefaultFailureReason is recorded when MarkFailed is called without a reason.
const DefaultFailureReason = "order processing failed"

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder, NewOrderWithItems or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderIsNotEditable is returned by item mutations outside the NEW status.
	ErrOrderIsNotEditable = errors.New("order items can only be changed while the order is NEW")

	// ErrOrderHasNoItems is returned by StartProcessing on an empty order.
	ErrOrderHasNoItems = errors.New("order has no items")

	// ErrCurrencyMismatch is returned when an item's currency differs from the
	// currency established by the first item of the order.
	ErrCurrencyMismatch = errors.New("item currency does not match order currency")

	// ErrItemNotFound is returned when removing an item that is not part of the order.
	ErrItemNotFound = errors.New("item is not part of the order")
)

// Order is the aggregate root of a purchase order.
//
// Order follows these invariants:
//   - all items share the currency of the first item added
//   - items can be added or removed only while the status is NEW
//   - status changes follow the Status state machine
//   - batch item operations are all-or-nothing
//
// State-changing operations record domain events in an internal buffer that
// is drained with PullEvents. An Order is owned by a single goroutine for the
// duration of a handler; it performs no I/O.
type Order struct {
	id        kernel.UUID
	status    Status
	items     []*LineItem
	createdAt time.Time
	updatedAt time.Time

	// version is the optimistic concurrency token of the stored row.
	version int

	pendingEvents []Event

	isConstructed bool
}

// NewOrder creates an empty NEW order with the externally supplied identifier
// and records an OrderCreated event.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID())
//	if err != nil {
//	    return err
//	}
//	err = o.AddItem(item)
func NewOrder(id kernel.UUID) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}

	now := time.Now().UTC()
	o := &Order{
		id:            id,
		status:        New,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}
	o.raise(CreatedEvent{newBaseEvent(id, now)})

	return o, nil
}

// NewOrderWithItems creates a NEW order holding items. The list must be
// non-empty and single-currency.
func NewOrderWithItems(id kernel.UUID, items []*LineItem) (*Order, error) {
	o, err := NewOrder(id)
	if err != nil {
		return nil, err
	}
	if err = o.AddItems(items...); err != nil {
		return nil, err
	}
	return o, nil
}

// RestoreOrder rehydrates an order read from storage. No events are recorded.
func RestoreOrder(
	id kernel.UUID,
	status Status,
	items []*LineItem,
	createdAt time.Time,
	updatedAt time.Time,
	version int,
) (*Order, error) {
	o := &Order{
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setStatus(status),
		o.setItems(items),
		o.setVersion(version),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was built by one of the constructors.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Items returns a copy of the item list in insertion order.
func (o *Order) Items() []*LineItem {
	return slices.Clone(o.items)
}

// CreatedAt returns the creation time of the order.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the time of the last successful mutation.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version returns the version the order was loaded with. New orders start at 0.
func (o *Order) Version() int {
	return o.version
}

// IsEditable reports whether items may still be changed.
func (o *Order) IsEditable() bool {
	return o.status == New
}

// HasItems reports whether the order contains at least one line item.
func (o *Order) HasItems() bool {
	return len(o.items) > 0
}

// ItemCount returns the number of line items.
func (o *Order) ItemCount() int {
	return len(o.items)
}

// ContainsProduct reports whether any item references productID.
func (o *Order) ContainsProduct(productID kernel.UUID) bool {
	return slices.ContainsFunc(o.items, func(item *LineItem) bool {
		return item.ProductID().IsEqual(productID)
	})
}

// Currency returns the established currency. ok is false while the order has no items.
func (o *Order) Currency() (currency string, ok bool) {
	if len(o.items) == 0 {
		return "", false
	}
	return o.items[0].Currency(), true
}

// CalculateTotal sums the line totals in the order's currency. An order without
// items totals zero in DefaultCurrency.
func (o *Order) CalculateTotal() (kernel.Money, error) {
	currency, ok := o.Currency()
	if !ok {
		currency = DefaultCurrency
	}

	total, err := kernel.ZeroMoney(currency)
	if err != nil {
		return kernel.Money{}, err
	}
	for _, item := range o.items {
		if total, err = total.Add(item.LineTotal()); err != nil {
			return kernel.Money{}, err
		}
	}
	return total, nil
}

// CalculateTotalQuantity sums item quantities.
func (o *Order) CalculateTotalQuantity() kernel.Quantity {
	var total kernel.Quantity
	for _, item := range o.items {
		total = total.Add(item.Quantity())
	}
	return total
}

// AddItem appends a single item. See AddItems.
func (o *Order) AddItem(item *LineItem) error {
	return o.AddItems(item)
}

// AddItems appends items in order. Either every item is added or none is.
//
// Rules:
//   - the order must be NEW
//   - the list must be non-empty and contain no nil items
//   - every item must use the order's currency; on an empty order the first
//     item of the batch establishes it
//   - an item already in the order cannot be added again
func (o *Order) AddItems(items ...*LineItem) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if err := validateItemList(items); err != nil {
		return err
	}

	currency, ok := o.Currency()
	if !ok {
		currency = items[0].Currency()
	}

	for _, item := range items {
		if item.Currency() != currency {
			return fmt.Errorf("%w: order is %s, item %s is %s", ErrCurrencyMismatch, currency, item.ID(), item.Currency())
		}
		if o.indexOf(item.ID()) >= 0 {
			return errs.NewValueIsInvalidErrorWithCause("items", fmt.Errorf("item %s is already in the order", item.ID()))
		}
	}
	if hasDuplicateIDs(items) {
		return errs.NewValueIsInvalidErrorWithCause("items", errors.New("the same item is listed twice"))
	}

	o.items = append(o.items, items...)
	o.touch()
	return nil
}

// RemoveItem removes a single item. See RemoveItems.
func (o *Order) RemoveItem(item *LineItem) error {
	return o.RemoveItems(item)
}

// RemoveItems removes items by identifier. If any of them is not part of the
// order nothing is removed and ErrItemNotFound is returned.
func (o *Order) RemoveItems(items ...*LineItem) error {
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if err := validateItemList(items); err != nil {
		return err
	}

	for _, item := range items {
		if o.indexOf(item.ID()) < 0 {
			return fmt.Errorf("%w: %s", ErrItemNotFound, item.ID())
		}
	}

	o.items = slices.DeleteFunc(o.items, func(existing *LineItem) bool {
		return slices.ContainsFunc(items, func(item *LineItem) bool {
			return item.ID().IsEqual(existing.ID())
		})
	})
	o.touch()
	return nil
}

// StartProcessing moves a NEW order with items to IN_PROGRESS and records
// OrderProcessingStarted.
func (o *Order) StartProcessing() error {
	newStatus, err := o.status.StartProcessing()
	if err != nil {
		return err
	}
	if !o.HasItems() {
		return ErrOrderHasNoItems
	}

	o.status = newStatus
	o.touch()
	o.raise(ProcessingStartedEvent{newBaseEvent(o.id, o.updatedAt)})
	return nil
}

// Complete moves an IN_PROGRESS order to READY and records OrderReady.
func (o *Order) Complete() error {
	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch()
	o.raise(ReadyEvent{newBaseEvent(o.id, o.updatedAt)})
	return nil
}

// Cancel moves a NEW or IN_PROGRESS order to CANCELLED and records OrderCancelled.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch()
	o.raise(CancelledEvent{newBaseEvent(o.id, o.updatedAt)})
	return nil
}

// MarkFailed moves a NEW or IN_PROGRESS order to FAILED and records
// OrderProcessingFailed with reason. A blank reason is replaced by
// DefaultFailureReason.
func (o *Order) MarkFailed(reason string) error {
	newStatus, err := o.status.MarkFailed()
	if err != nil {
		return err
	}

	if strings.TrimSpace(reason) == "" {
		reason = DefaultFailureReason
	}

	o.status = newStatus
	o.touch()
	o.raise(ProcessingFailedEvent{baseEvent: newBaseEvent(o.id, o.updatedAt), reason: reason})
	return nil
}

// PullEvents returns the recorded events in the order they were raised and
// clears the buffer.
func (o *Order) PullEvents() []Event {
	events := o.pendingEvents
	o.pendingEvents = nil
	return events
}

// PendingEvents returns a copy of the buffer without clearing it.
func (o *Order) PendingEvents() []Event {
	return slices.Clone(o.pendingEvents)
}

func (o *Order) raise(event Event) {
	o.pendingEvents = append(o.pendingEvents, event)
}

func (o *Order) touch() {
	now := time.Now().UTC()
	if now.Before(o.updatedAt) {
		now = o.updatedAt
	}
	o.updatedAt = now
}

func (o *Order) ensureEditable() error {
	if !o.IsEditable() {
		return fmt.Errorf("%w: status is %s", ErrOrderIsNotEditable, o.status)
	}
	return nil
}

func (o *Order) indexOf(itemID kernel.UUID) int {
	return slices.IndexFunc(o.items, func(item *LineItem) bool {
		return item.ID().IsEqual(itemID)
	})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	o.id = id
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setItems(items []*LineItem) error {
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause(fmt.Sprintf("items[%d]", i), err)
		}
		if item.Currency() != items[0].Currency() {
			return fmt.Errorf("%w: items[%d] is %s", ErrCurrencyMismatch, i, item.Currency())
		}
	}
	o.items = slices.Clone(items)
	return nil
}

func (o *Order) setVersion(version int) error {
	if version < 0 {
		return errs.NewValueIsOutOfRangeError("version", version, 0, "unbounded")
	}
	o.version = version
	return nil
}

func validateItemList(items []*LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause(fmt.Sprintf("items[%d]", i), err)
		}
	}
	return nil
}

func hasDuplicateIDs(items []*LineItem) bool {
	seen := make(map[kernel.UUID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID()]; ok {
			return true
		}
		seen[item.ID()] = struct{}{}
	}
	return false
}
