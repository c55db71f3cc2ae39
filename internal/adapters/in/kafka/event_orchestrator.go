package kafka

import (
	"context"
	"errors"
	"log/slog"

	"orders/internal/adapters/contracts"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// EventOrchestratorScope is the deduplication scope of event identifiers.
const EventOrchestratorScope = "EventOrchestrator"

// StartProcessingHandler is implemented by commands.StartOrderProcessingCommandHandler.
type StartProcessingHandler interface {
	Handle(ctx context.Context, cmd commands.StartOrderProcessingCommand) error
}

// ResolveOutcomeHandler is implemented by commands.ResolveOrderOutcomeCommandHandler.
type ResolveOutcomeHandler interface {
	Handle(ctx context.Context, cmd commands.ResolveOrderOutcomeCommand) error
}

// EventOrchestrator reacts to order events with the next lifecycle step:
//
//	ORDER_CREATED            -> start processing
//	ORDER_PROCESSING_STARTED -> wait, then resolve the outcome
//	terminal events          -> logged only
type EventOrchestrator struct {
	dedup          ports.Deduplicator
	startHandler   StartProcessingHandler
	resolveHandler ResolveOutcomeHandler
	delay          ProcessingDelay
	logger         *slog.Logger
}

// NewEventOrchestrator creates an orchestrator that waits delay between the start
// of processing and the outcome decision.
func NewEventOrchestrator(
	dedup ports.Deduplicator,
	startHandler StartProcessingHandler,
	resolveHandler ResolveOutcomeHandler,
	delay ProcessingDelay,
	logger *slog.Logger,
) *EventOrchestrator {
	return &EventOrchestrator{
		dedup:          dedup,
		startHandler:   startHandler,
		resolveHandler: resolveHandler,
		delay:          delay,
		logger:         logger.With("component", "event_orchestrator"),
	}
}

// Handle decodes one event message and runs the follow-up step at most once per
// event id. ResultInterrupted means the message must not be committed.
func (o *EventOrchestrator) Handle(ctx context.Context, msg kafka.Message) string {
	logger := o.logger.With("partition", msg.Partition, "offset", msg.Offset, "key", string(msg.Key))

	event, err := contracts.DecodeEvent(msg.Value)
	if err != nil {
		logger.WarnContext(ctx, "Dropping malformed event", "error", err)
		return metrics.ResultMalformed
	}
	logger = logger.With("eventType", event.EventType(), "eventId", event.EventID().String(),
		"orderId", event.OrderID().String())

	var step func(ctx context.Context) error
	switch e := event.(type) {
	case order.CreatedEvent:
		step = func(ctx context.Context) error {
			cmd, cmdErr := commands.NewStartOrderProcessingCommand(e.OrderID())
			if cmdErr != nil {
				return cmdErr
			}
			return o.startHandler.Handle(ctx, cmd)
		}

	case order.ProcessingStartedEvent:
		// Waiting happens before the claim so that an interrupted wait leaves
		// the event unclaimed for redelivery.
		if err = o.delay.Wait(ctx); err != nil {
			return metrics.ResultInterrupted
		}
		step = func(ctx context.Context) error {
			cmd, cmdErr := commands.NewResolveOrderOutcomeCommand(e.OrderID())
			if cmdErr != nil {
				return cmdErr
			}
			return o.resolveHandler.Handle(ctx, cmd)
		}
	}

	claimed, err := o.dedup.Claim(ctx, EventOrchestratorScope, event.EventID())
	if err != nil {
		logger.ErrorContext(ctx, "Deduplication store unavailable, event skipped", "error", err)
		return metrics.ResultDedupError
	}
	if !claimed {
		logger.InfoContext(ctx, "Duplicate event ignored")
		return metrics.ResultDuplicate
	}

	if step == nil {
		attrs := []any{}
		if failed, ok := event.(order.ProcessingFailedEvent); ok {
			attrs = append(attrs, "reason", failed.Reason())
		}
		logger.InfoContext(ctx, "Order reached terminal state", attrs...)
		return metrics.ResultIgnored
	}

	if err = step(ctx); err != nil {
		if errors.Is(err, commands.ErrOrderMarkedFailed) {
			logger.WarnContext(ctx, "Lifecycle step failed, order marked as failed", "error", err)
		} else {
			logger.ErrorContext(ctx, "Lifecycle step failed", "error", err)
		}
		return metrics.ResultFailed
	}

	logger.InfoContext(ctx, "Event processed")
	return metrics.ResultProcessed
}
