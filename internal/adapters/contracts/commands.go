package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"orders/internal/core/domain/model/kernel"
)

// ErrUnknownMessageType is returned when a discriminator is missing or unknown.
var ErrUnknownMessageType = errors.New("unknown message type")

type CommandType string

const (
	CommandTypeCreateOrder CommandType = "CREATE_ORDER"
	CommandTypeCancelOrder CommandType = "CANCEL_ORDER"
)

// Command is a message of the commands topic. Implementations are
// CreateOrderCommand and CancelOrderCommand.
type Command interface {
	// ID is the command identifier used for deduplication.
	ID() string
	// Key is the order identifier the message is partitioned by.
	Key() string
	Type() CommandType

	isCommand()
}

type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     Price  `json:"price"`
	Currency  string `json:"currency"`
}

type OrderSnapshot struct {
	OrderID   string        `json:"orderId"`
	Status    string        `json:"status"`
	Items     []OrderItem   `json:"items"`
	CreatedAt LocalDateTime `json:"createdAt"`
	UpdatedAt LocalDateTime `json:"updatedAt"`
}

type CreateOrderCommand struct {
	CommandType CommandType   `json:"commandType"`
	CommandID   string        `json:"commandId"`
	IssuedAt    LocalDateTime `json:"issuedAt"`
	Order       OrderSnapshot `json:"order"`
}

// NewCreateOrderCommand builds a CREATE_ORDER message with a fresh command id.
func NewCreateOrderCommand(orderID kernel.UUID, items []OrderItem) CreateOrderCommand {
	now := NewLocalDateTime(time.Now())
	return CreateOrderCommand{
		CommandType: CommandTypeCreateOrder,
		CommandID:   kernel.NewUUID().String(),
		IssuedAt:    now,
		Order: OrderSnapshot{
			OrderID:   orderID.String(),
			Status:    "NEW",
			Items:     items,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func (c CreateOrderCommand) ID() string      { return c.CommandID }
func (c CreateOrderCommand) Key() string     { return c.Order.OrderID }
func (CreateOrderCommand) Type() CommandType { return CommandTypeCreateOrder }
func (CreateOrderCommand) isCommand()        {}

type CancelOrderCommand struct {
	CommandType CommandType   `json:"commandType"`
	CommandID   string        `json:"commandId"`
	IssuedAt    LocalDateTime `json:"issuedAt"`
	OrderID     string        `json:"orderId"`
	Reason      string        `json:"reason,omitempty"`
}

// NewCancelOrderCommand builds a CANCEL_ORDER message with a fresh command id.
func NewCancelOrderCommand(orderID kernel.UUID, reason string) CancelOrderCommand {
	return CancelOrderCommand{
		CommandType: CommandTypeCancelOrder,
		CommandID:   kernel.NewUUID().String(),
		IssuedAt:    NewLocalDateTime(time.Now()),
		OrderID:     orderID.String(),
		Reason:      reason,
	}
}

func (c CancelOrderCommand) ID() string      { return c.CommandID }
func (c CancelOrderCommand) Key() string     { return c.OrderID }
func (CancelOrderCommand) Type() CommandType { return CommandTypeCancelOrder }
func (CancelOrderCommand) isCommand()        {}

// EncodeCommand writes cmd with its discriminator set.
func EncodeCommand(cmd Command) ([]byte, error) {
	switch c := cmd.(type) {
	case CreateOrderCommand:
		c.CommandType = CommandTypeCreateOrder
		return json.Marshal(c)
	case CancelOrderCommand:
		c.CommandType = CommandTypeCancelOrder
		return json.Marshal(c)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMessageType, cmd)
	}
}

// DecodeCommand reads the discriminator and decodes the matching variant.
func DecodeCommand(data []byte) (Command, error) {
	var envelope struct {
		CommandType CommandType `json:"commandType"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}

	switch envelope.CommandType {
	case CommandTypeCreateOrder:
		var c CreateOrderCommand
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case CommandTypeCancelOrder:
		var c CancelOrderCommand
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: commandType %q", ErrUnknownMessageType, envelope.CommandType)
	}
}
