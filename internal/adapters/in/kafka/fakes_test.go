package kafka_test

import (
	"context"
	"sync"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/kernel"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type fakeReader struct {
	msgs chan kafka.Message

	mu        sync.Mutex
	committed []kafka.Message
	closed    bool
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	r := &fakeReader{msgs: make(chan kafka.Message, len(msgs))}
	for _, msg := range msgs {
		r.msgs <- msg
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case msg := <-r.msgs:
		return msg, nil
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) Committed() []kafka.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]kafka.Message(nil), r.committed...)
}

func (r *fakeReader) IsClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

type handlerFunc func(ctx context.Context, msg kafka.Message) string

func (f handlerFunc) Handle(ctx context.Context, msg kafka.Message) string {
	return f(ctx, msg)
}

type MockDeduplicator struct {
	mock.Mock
}

func (m *MockDeduplicator) Claim(ctx context.Context, scope string, messageID kernel.UUID) (bool, error) {
	args := m.Called(ctx, scope, messageID)
	return args.Bool(0), args.Error(1)
}

// memDeduplicator is a thread-safe in-memory Deduplicator without expiry.
type memDeduplicator struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newMemDeduplicator() *memDeduplicator {
	return &memDeduplicator{seen: make(map[string]struct{})}
}

func (d *memDeduplicator) Claim(_ context.Context, scope string, messageID kernel.UUID) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := scope + ":" + messageID.String()
	if _, ok := d.seen[key]; ok {
		return false, nil
	}
	d.seen[key] = struct{}{}
	return true, nil
}

type MockCreateOrderHandler struct {
	mock.Mock
}

func (m *MockCreateOrderHandler) Handle(ctx context.Context, cmd commands.CreateOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockCancelOrderHandler struct {
	mock.Mock
}

func (m *MockCancelOrderHandler) Handle(ctx context.Context, cmd commands.CancelOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockStartProcessingHandler struct {
	mock.Mock
}

func (m *MockStartProcessingHandler) Handle(ctx context.Context, cmd commands.StartOrderProcessingCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockResolveOutcomeHandler struct {
	mock.Mock
}

func (m *MockResolveOutcomeHandler) Handle(ctx context.Context, cmd commands.ResolveOrderOutcomeCommand) error {
	return m.Called(ctx, cmd).Error(0)
}
