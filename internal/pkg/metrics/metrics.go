// Package metrics holds the Prometheus collectors of the order service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "orders"

// Message handling results.
const (
	ResultProcessed  = "processed"
	ResultDuplicate  = "duplicate"
	ResultMalformed  = "malformed"
	ResultFailed     = "failed"
	ResultDedupError = "dedup_error"
	ResultPanic      = "panic"
	ResultIgnored    = "ignored"

	// ResultInterrupted marks a message left uncommitted because the consumer
	// is shutting down. It is delivered again after restart.
	ResultInterrupted = "interrupted"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	MessagesTotal   *prometheus.CounterVec
	HandlerDuration *prometheus.HistogramVec
	OutboxPublished prometheus.Counter
	OrdersByStatus  *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		MessagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Consumed messages by processor and result.",
		}, []string{"processor", "result"}),
		HandlerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "message_handling_duration_seconds",
			Help:      "Time spent handling one message.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"processor"}),
		OutboxPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_published_total",
			Help:      "Outbox messages published to the events topic.",
		}),
		OrdersByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "orders",
			Help:      "Stored orders by status.",
		}, []string{"status"}),
	}

	for _, c := range []prometheus.Collector{m.MessagesTotal, m.HandlerDuration, m.OutboxPublished, m.OrdersByStatus} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveMessage counts one handled message and its duration.
func (m *Metrics) ObserveMessage(processor, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.MessagesTotal.WithLabelValues(processor, result).Inc()
	m.HandlerDuration.WithLabelValues(processor).Observe(elapsed.Seconds())
}

func (m *Metrics) AddPublished(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.OutboxPublished.Add(float64(n))
}

func (m *Metrics) SetOrdersByStatus(status string, count int64) {
	if m == nil {
		return
	}
	m.OrdersByStatus.WithLabelValues(status).Set(float64(count))
}
