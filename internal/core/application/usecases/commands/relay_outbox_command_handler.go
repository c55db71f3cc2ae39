package commands

import (
	"context"

	"orders/internal/core/ports"
)

// RelayOutboxCommandHandler moves pending outbox messages to the events topic.
//
// The batch is read under a transaction-scoped lock so that concurrent relays
// never publish the same rows. Rows are marked sent only after the publisher
// accepted all of them; on failure the transaction is rolled back and the
// batch is retried on the next run.
type RelayOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.MessagePublisher
}

// NewRelayOutboxCommandHandler creates a handler publishing through publisher.
func NewRelayOutboxCommandHandler(
	uowFactory OutboxUoWFactory,
	publisher ports.MessagePublisher,
) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle returns the number of published messages.
func (h *RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outbox := uow.OutboxRepository()

	locked, err := outbox.TryLock(ctx)
	if err != nil || !locked {
		return 0, err
	}

	msgs, err := outbox.GetPending(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}
	if len(msgs) == 0 {
		return 0, uow.Commit(ctx)
	}

	if err = h.publisher.Publish(ctx, msgs...); err != nil {
		return 0, err
	}

	ids := make([]int64, 0, len(msgs))
	for _, msg := range msgs {
		ids = append(ids, msg.ID)
	}

	if err = outbox.MarkSent(ctx, ids...); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return len(msgs), nil
}
