package order

import (
	"fmt"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
)

// EventType is the wire discriminator of a domain event.
type EventType string

const (
	EventTypeCreated           EventType = "ORDER_CREATED"
	EventTypeProcessingStarted EventType = "ORDER_PROCESSING_STARTED"
	EventTypeReady             EventType = "ORDER_READY"
	EventTypeCancelled         EventType = "ORDER_CANCELLED"
	EventTypeProcessingFailed  EventType = "ORDER_PROCESSING_FAILED"
)

// Event is a fact recorded by the Order aggregate. The set of implementations
// is closed: CreatedEvent, ProcessingStartedEvent, ReadyEvent, CancelledEvent
// and ProcessingFailedEvent.
type Event interface {
	EventID() kernel.UUID
	OrderID() kernel.UUID
	OccurredAt() time.Time
	EventType() EventType

	isOrderEvent()
}

type baseEvent struct {
	eventID    kernel.UUID
	orderID    kernel.UUID
	occurredAt time.Time
}

func newBaseEvent(orderID kernel.UUID, occurredAt time.Time) baseEvent {
	return baseEvent{
		eventID:    kernel.NewUUID(),
		orderID:    orderID,
		occurredAt: occurredAt,
	}
}

func (e baseEvent) EventID() kernel.UUID  { return e.eventID }
func (e baseEvent) OrderID() kernel.UUID  { return e.orderID }
func (e baseEvent) OccurredAt() time.Time { return e.occurredAt }
func (baseEvent) isOrderEvent()           {}

type CreatedEvent struct{ baseEvent }

func (CreatedEvent) EventType() EventType { return EventTypeCreated }

type ProcessingStartedEvent struct{ baseEvent }

func (ProcessingStartedEvent) EventType() EventType { return EventTypeProcessingStarted }

type ReadyEvent struct{ baseEvent }

func (ReadyEvent) EventType() EventType { return EventTypeReady }

type CancelledEvent struct{ baseEvent }

func (CancelledEvent) EventType() EventType { return EventTypeCancelled }

// ProcessingFailedEvent carries the reason the order failed.
type ProcessingFailedEvent struct {
	baseEvent
	reason string
}

func (ProcessingFailedEvent) EventType() EventType { return EventTypeProcessingFailed }

func (e ProcessingFailedEvent) Reason() string { return e.reason }

// RestoreEvent rebuilds a decoded event. reason is only used for
// ORDER_PROCESSING_FAILED.
func RestoreEvent(
	eventType EventType,
	eventID kernel.UUID,
	orderID kernel.UUID,
	occurredAt time.Time,
	reason string,
) (Event, error) {
	if err := eventID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("eventId", err)
	}
	if err := orderID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}

	base := baseEvent{eventID: eventID, orderID: orderID, occurredAt: occurredAt}
	switch eventType {
	case EventTypeCreated:
		return CreatedEvent{base}, nil
	case EventTypeProcessingStarted:
		return ProcessingStartedEvent{base}, nil
	case EventTypeReady:
		return ReadyEvent{base}, nil
	case EventTypeCancelled:
		return CancelledEvent{base}, nil
	case EventTypeProcessingFailed:
		return ProcessingFailedEvent{baseEvent: base, reason: reason}, nil
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("eventType", fmt.Errorf("%q is not a known event type", eventType))
	}
}
