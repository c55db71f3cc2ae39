package jobs

import (
	"context"
	"log/slog"

	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/metrics"
)

// StatusCounter is implemented by queries.CountOrdersByStatusQueryHandler.
type StatusCounter interface {
	Handle(ctx context.Context, query queries.CountOrdersByStatusQuery) (map[order.Status]int64, error)
}

// OrderStatusGaugeJob copies order counts per status into a Prometheus gauge.
type OrderStatusGaugeJob struct {
	scheduler
	counter StatusCounter
	metrics *metrics.Metrics
}

// NewOrderStatusGaugeJob creates the job. It does nothing until Start is called.
func NewOrderStatusGaugeJob(counter StatusCounter, m *metrics.Metrics, logger *slog.Logger) *OrderStatusGaugeJob {
	return &OrderStatusGaugeJob{
		scheduler: newScheduler("order_status_gauge_job", "*/15 * * * * *", logger),
		counter:   counter,
		metrics:   m,
	}
}

// Start schedules the job.
func (j *OrderStatusGaugeJob) Start() error {
	return j.start(func(ctx context.Context) {
		_ = j.RunOnce(ctx)
	})
}

// RunOnce counts the orders per status and updates the gauge.
func (j *OrderStatusGaugeJob) RunOnce(ctx context.Context) error {
	counts, err := j.counter.Handle(ctx, queries.NewCountOrdersByStatusQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Counting orders failed", "error", err)
		return err
	}

	for status, count := range counts {
		j.metrics.SetOrdersByStatus(status.String(), count)
	}
	return nil
}
