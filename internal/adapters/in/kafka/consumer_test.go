package kafka_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	kafkain "orders/internal/adapters/in/kafka"
	"orders/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runConsumer(t *testing.T, c *kafkain.Consumer) (cancel func()) {
	t.Helper()
	ctx, cancelCtx := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	return func() {
		cancelCtx()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("consumer did not stop")
		}
	}
}

func TestConsumer_CommitsEveryMessage(t *testing.T) {
	reader := newFakeReader(
		kafka.Message{Offset: 1, Value: []byte("a")},
		kafka.Message{Offset: 2, Value: []byte("b")},
		kafka.Message{Offset: 3, Value: []byte("c")},
	)
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	results := []string{metrics.ResultProcessed, metrics.ResultFailed, metrics.ResultMalformed}
	var calls atomic.Int32
	handler := handlerFunc(func(_ context.Context, msg kafka.Message) string {
		calls.Add(1)
		return results[msg.Offset-1]
	})

	stop := runConsumer(t, kafkain.NewConsumer("test", []kafkain.MessageReader{reader}, handler, m, discardLogger()))
	require.Eventually(t, func() bool { return len(reader.Committed()) == 3 }, time.Second, 5*time.Millisecond)
	stop()

	committed := reader.Committed()
	for i, msg := range committed {
		assert.Equal(t, int64(i+1), msg.Offset, "offsets are committed in order")
	}
	assert.Equal(t, int32(3), calls.Load())
	assert.True(t, reader.IsClosed())
	assert.InDelta(t, 1, testutil.ToFloat64(m.MessagesTotal.WithLabelValues("test", metrics.ResultFailed)), 0)
}

func TestConsumer_CommitsAfterPanic(t *testing.T) {
	reader := newFakeReader(
		kafka.Message{Offset: 1},
		kafka.Message{Offset: 2},
	)
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	handler := handlerFunc(func(_ context.Context, msg kafka.Message) string {
		if msg.Offset == 1 {
			panic("boom")
		}
		return metrics.ResultProcessed
	})

	stop := runConsumer(t, kafkain.NewConsumer("test", []kafkain.MessageReader{reader}, handler, m, discardLogger()))
	require.Eventually(t, func() bool { return len(reader.Committed()) == 2 }, time.Second, 5*time.Millisecond)
	stop()

	assert.InDelta(t, 1, testutil.ToFloat64(m.MessagesTotal.WithLabelValues("test", metrics.ResultPanic)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.MessagesTotal.WithLabelValues("test", metrics.ResultProcessed)), 0)
}

func TestConsumer_InterruptedMessageIsNotCommitted(t *testing.T) {
	reader := newFakeReader(kafka.Message{Offset: 1})
	handled := make(chan struct{})
	handler := handlerFunc(func(ctx context.Context, _ kafka.Message) string {
		close(handled)
		<-ctx.Done()
		return metrics.ResultInterrupted
	})

	stop := runConsumer(t, kafkain.NewConsumer("test", []kafkain.MessageReader{reader}, handler, nil, discardLogger()))
	<-handled
	stop()

	assert.Empty(t, reader.Committed())
}

func TestConsumer_LanesAreIndependent(t *testing.T) {
	slow := newFakeReader(kafka.Message{Partition: 0, Offset: 1})
	fast := newFakeReader(
		kafka.Message{Partition: 1, Offset: 1},
		kafka.Message{Partition: 1, Offset: 2},
	)
	release := make(chan struct{})
	handler := handlerFunc(func(ctx context.Context, msg kafka.Message) string {
		if msg.Partition == 0 {
			select {
			case <-release:
			case <-ctx.Done():
			}
		}
		return metrics.ResultProcessed
	})

	stop := runConsumer(t, kafkain.NewConsumer("test", []kafkain.MessageReader{slow, fast}, handler, nil, discardLogger()))
	require.Eventually(t, func() bool { return len(fast.Committed()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, slow.Committed(), "the slow lane is still busy")

	close(release)
	require.Eventually(t, func() bool { return len(slow.Committed()) == 1 }, time.Second, 5*time.Millisecond)
	stop()
}

func TestProcessingDelay(t *testing.T) {
	d := kafkain.ProcessingDelay{Min: 10 * time.Millisecond, Max: 20 * time.Millisecond}
	for range 100 {
		next := d.Next()
		assert.GreaterOrEqual(t, next, d.Min)
		assert.LessOrEqual(t, next, d.Max)
	}

	assert.Equal(t, time.Duration(0), kafkain.ProcessingDelay{}.Next())
	assert.Equal(t, 5*time.Millisecond, kafkain.ProcessingDelay{Min: 5 * time.Millisecond}.Next())

	def := kafkain.DefaultProcessingDelay()
	assert.Equal(t, 200*time.Millisecond, def.Min)
	assert.Equal(t, 3*time.Second, def.Max)
}

func TestProcessingDelay_WaitHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := kafkain.ProcessingDelay{Min: time.Minute, Max: time.Minute}.Wait(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
	require.NoError(t, kafkain.ProcessingDelay{}.Wait(context.Background()))
}
