package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orders/internal/adapters/contracts"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"
	"orders/internal/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// CommandProcessorScope is the deduplication scope of command identifiers.
const CommandProcessorScope = "CommandProcessor"

// CreateOrderHandler is implemented by commands.CreateOrderCommandHandler.
type CreateOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
}

// CancelOrderHandler is implemented by commands.CancelOrderCommandHandler.
type CancelOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CancelOrderCommand) error
}

// CommandProcessor turns messages of the commands topic into use case calls.
// Each command identifier is processed at most once.
type CommandProcessor struct {
	dedup         ports.Deduplicator
	createHandler CreateOrderHandler
	cancelHandler CancelOrderHandler
	logger        *slog.Logger
}

// NewCommandProcessor creates a processor that claims every command id in dedup
// before dispatching it.
func NewCommandProcessor(
	dedup ports.Deduplicator,
	createHandler CreateOrderHandler,
	cancelHandler CancelOrderHandler,
	logger *slog.Logger,
) *CommandProcessor {
	return &CommandProcessor{
		dedup:         dedup,
		createHandler: createHandler,
		cancelHandler: cancelHandler,
		logger:        logger.With("component", "command_processor"),
	}
}

// Handle decodes, deduplicates and dispatches one command message. Errors are
// logged and reported as the returned result, never propagated.
func (p *CommandProcessor) Handle(ctx context.Context, msg kafka.Message) string {
	logger := p.logger.With("partition", msg.Partition, "offset", msg.Offset, "key", string(msg.Key))

	cmd, err := contracts.DecodeCommand(msg.Value)
	if err != nil {
		logger.WarnContext(ctx, "Dropping malformed command", "error", err)
		return metrics.ResultMalformed
	}
	logger = logger.With("commandType", cmd.Type(), "commandId", cmd.ID())

	commandID, err := kernel.UUIDFromString(cmd.ID())
	if err != nil {
		logger.WarnContext(ctx, "Dropping command with invalid id", "error", err)
		return metrics.ResultMalformed
	}

	run, err := p.prepare(cmd, logger)
	if err != nil {
		logger.WarnContext(ctx, "Dropping invalid command", "error", err)
		return metrics.ResultMalformed
	}

	claimed, err := p.dedup.Claim(ctx, CommandProcessorScope, commandID)
	if err != nil {
		logger.ErrorContext(ctx, "Deduplication store unavailable, command skipped", "error", err)
		return metrics.ResultDedupError
	}
	if !claimed {
		logger.InfoContext(ctx, "Duplicate command ignored")
		return metrics.ResultDuplicate
	}

	if err = run(ctx); err != nil {
		logger.ErrorContext(ctx, "Command failed", "error", err)
		return metrics.ResultFailed
	}

	logger.InfoContext(ctx, "Command processed")
	return metrics.ResultProcessed
}

// prepare maps a wire command to a use case call without side effects.
func (p *CommandProcessor) prepare(cmd contracts.Command, logger *slog.Logger) (func(ctx context.Context) error, error) {
	switch c := cmd.(type) {
	case contracts.CreateOrderCommand:
		createCmd, err := toCreateOrderCommand(c)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) error {
			return p.createHandler.Handle(ctx, createCmd)
		}, nil

	case contracts.CancelOrderCommand:
		orderID, err := kernel.UUIDFromString(c.OrderID)
		if err != nil {
			return nil, fmt.Errorf("orderId: %w", err)
		}
		cancelCmd, err := commands.NewCancelOrderCommand(orderID, c.Reason)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) error {
			logger.InfoContext(ctx, "Cancelling order", "orderId", cancelCmd.OrderID().String(),
				"reason", cancelCmd.Reason())
			return p.cancelHandler.Handle(ctx, cancelCmd)
		}, nil

	default:
		return nil, fmt.Errorf("%w: %T", contracts.ErrUnknownMessageType, cmd)
	}
}

func toCreateOrderCommand(c contracts.CreateOrderCommand) (commands.CreateOrderCommand, error) {
	orderID, err := kernel.UUIDFromString(c.Order.OrderID)
	if err != nil {
		return commands.CreateOrderCommand{}, fmt.Errorf("order.orderId: %w", err)
	}

	items := make([]commands.CreateOrderItem, 0, len(c.Order.Items))
	var itemErrs []error
	for i, item := range c.Order.Items {
		productID, idErr := kernel.UUIDFromString(item.ProductID)
		if idErr != nil {
			itemErrs = append(itemErrs, fmt.Errorf("order.items[%d].productId: %w", i, idErr))
			continue
		}
		items = append(items, commands.CreateOrderItem{
			ProductID: productID,
			Quantity:  item.Quantity,
			Price:     item.Price.Decimal,
			Currency:  item.Currency,
		})
	}
	if err = errors.Join(itemErrs...); err != nil {
		return commands.CreateOrderCommand{}, err
	}

	return commands.NewCreateOrderCommand(orderID, items)
}
