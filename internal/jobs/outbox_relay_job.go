package jobs

import (
	"context"
	"log/slog"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/pkg/metrics"
)

// OutboxRelayer publishes one batch of pending outbox messages.
type OutboxRelayer interface {
	Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (int, error)
}

// OutboxRelayJob drains the outbox every second. Each tick publishes batches
// until a batch comes back smaller than the batch size.
type OutboxRelayJob struct {
	scheduler
	relayer   OutboxRelayer
	batchSize int
	metrics   *metrics.Metrics
}

// NewOutboxRelayJob creates the job. batchSize bounds the rows published per
// transaction.
func NewOutboxRelayJob(relayer OutboxRelayer, batchSize int, m *metrics.Metrics, logger *slog.Logger) *OutboxRelayJob {
	return &OutboxRelayJob{
		scheduler: newScheduler("outbox_relay_job", "* * * * * *", logger),
		relayer:   relayer,
		batchSize: batchSize,
		metrics:   m,
	}
}

// Start schedules the job.
func (j *OutboxRelayJob) Start() error {
	return j.start(func(ctx context.Context) {
		_, _ = j.RunOnce(ctx)
	})
}

// RunOnce relays until the outbox is drained or an error occurs and returns
// the number of published messages.
func (j *OutboxRelayJob) RunOnce(ctx context.Context) (int, error) {
	cmd, err := commands.NewRelayOutboxCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Invalid relay batch size", "error", err)
		return 0, err
	}

	total := 0
	for {
		published, err := j.relayer.Handle(ctx, cmd)
		total += published
		j.metrics.AddPublished(published)

		if err != nil {
			j.logger.ErrorContext(ctx, "Outbox relay failed", "error", err, "published", total)
			return total, err
		}
		if published < cmd.BatchSize() || ctx.Err() != nil {
			break
		}
	}

	if total > 0 {
		j.logger.DebugContext(ctx, "Outbox relayed", "published", total)
	}
	return total, nil
}
