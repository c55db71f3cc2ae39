// Package kafka consumes the commands and events topics and drives the order
// lifecycle use cases.
//
// A Consumer runs one lane per reader. Each lane handles one message at a
// time and commits its offset afterwards, whatever the outcome, so a message
// that cannot be processed never blocks its partition.
package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"orders/internal/pkg/metrics"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

const (
	defaultCommitTimeout = 5 * time.Second
	fetchRetryDelay      = time.Second
)

// MessageReader is implemented by *kafka.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// MessageHandler processes a single message and reports the outcome as one of
// the metrics.Result constants. It must not block beyond ctx.
type MessageHandler interface {
	Handle(ctx context.Context, msg kafka.Message) string
}

// Consumer feeds the messages of its readers to a MessageHandler.
type Consumer struct {
	name          string
	readers       []MessageReader
	handler       MessageHandler
	metrics       *metrics.Metrics
	logger        *slog.Logger
	commitTimeout time.Duration
}

// NewConsumer creates a consumer with one lane per reader. name labels the
// logs and metrics of the consumer.
func NewConsumer(
	name string,
	readers []MessageReader,
	handler MessageHandler,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Consumer {
	return &Consumer{
		name:          name,
		readers:       readers,
		handler:       handler,
		metrics:       m,
		logger:        logger.With("component", name),
		commitTimeout: defaultCommitTimeout,
	}
}

// Run blocks until ctx is cancelled and all lanes have stopped, then closes
// the readers.
func (c *Consumer) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i, reader := range c.readers {
		g.Go(func() error {
			return c.runLane(ctx, i, reader)
		})
	}

	err := g.Wait()

	for _, reader := range c.readers {
		if closeErr := reader.Close(); closeErr != nil {
			c.logger.WarnContext(ctx, "Failed to close reader", "error", closeErr)
		}
	}
	return err
}

func (c *Consumer) runLane(ctx context.Context, lane int, reader MessageReader) error {
	logger := c.logger.With("lane", lane)
	logger.InfoContext(ctx, "Lane started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				logger.InfoContext(ctx, "Lane stopped")
				return nil
			}

			logger.ErrorContext(ctx, "Failed to fetch message", "error", err)
			if !sleep(ctx, fetchRetryDelay) {
				return nil
			}
			continue
		}

		if result := c.process(ctx, logger, msg); result == metrics.ResultInterrupted {
			logger.InfoContext(ctx, "Message left uncommitted on shutdown",
				"partition", msg.Partition, "offset", msg.Offset)
			return nil
		}

		commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.commitTimeout)
		err = reader.CommitMessages(commitCtx, msg)
		cancel()
		if err != nil {
			logger.ErrorContext(ctx, "Failed to commit message",
				"error", err, "partition", msg.Partition, "offset", msg.Offset)
		}
	}
}

// process runs the handler and converts a panic into ResultPanic.
func (c *Consumer) process(ctx context.Context, logger *slog.Logger, msg kafka.Message) (result string) {
	start := time.Now()
	result = metrics.ResultPanic

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "Message handler panicked",
				"panic", r, "partition", msg.Partition, "offset", msg.Offset)
		}
		c.metrics.ObserveMessage(c.name, result, time.Since(start))
	}()

	return c.handler.Handle(ctx, msg)
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
