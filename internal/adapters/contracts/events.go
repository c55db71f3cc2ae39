package contracts

import (
	"encoding/json"
	"fmt"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// EventMessage is the wire form of every order event. Reason is only set for
// ORDER_PROCESSING_FAILED.
type EventMessage struct {
	EventType  order.EventType `json:"eventType"`
	EventID    string          `json:"eventId"`
	OccurredAt LocalDateTime   `json:"occurredAt"`
	OrderID    string          `json:"orderId"`
	Reason     string          `json:"reason,omitempty"`
}

// EncodeEvent converts a domain event to its JSON message.
func EncodeEvent(event order.Event) ([]byte, error) {
	msg := EventMessage{
		EventType:  event.EventType(),
		EventID:    event.EventID().String(),
		OccurredAt: NewLocalDateTime(event.OccurredAt()),
		OrderID:    event.OrderID().String(),
	}

	switch e := event.(type) {
	case order.CreatedEvent, order.ProcessingStartedEvent, order.ReadyEvent, order.CancelledEvent:
	case order.ProcessingFailedEvent:
		msg.Reason = e.Reason()
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMessageType, event)
	}

	return json.Marshal(msg)
}

// DecodeEvent parses a JSON message back into a domain event.
func DecodeEvent(data []byte) (order.Event, error) {
	var msg EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}

	switch msg.EventType {
	case order.EventTypeCreated, order.EventTypeProcessingStarted, order.EventTypeReady,
		order.EventTypeCancelled, order.EventTypeProcessingFailed:
	default:
		return nil, fmt.Errorf("%w: eventType %q", ErrUnknownMessageType, msg.EventType)
	}

	eventID, err := kernel.UUIDFromString(msg.EventID)
	if err != nil {
		return nil, fmt.Errorf("eventId: %w", err)
	}
	orderID, err := kernel.UUIDFromString(msg.OrderID)
	if err != nil {
		return nil, fmt.Errorf("orderId: %w", err)
	}

	return order.RestoreEvent(msg.EventType, eventID, orderID, msg.OccurredAt.Time, msg.Reason)
}
