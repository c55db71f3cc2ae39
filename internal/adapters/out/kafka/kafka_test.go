package kafka_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"orders/internal/adapters/contracts"
	kafkaadapter "orders/internal/adapters/out/kafka"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMessageWriter struct {
	mock.Mock
}

func (m *MockMessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockMessageWriter) Close() error {
	return m.Called().Error(0)
}

func TestEventPublisher_Publish(t *testing.T) {
	writer := new(MockMessageWriter)
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	msgs := []ports.OutboxMessage{
		{ID: 1, EventID: "e-1", Key: "order-1", EventType: "ORDER_CREATED", Payload: []byte(`{"a":1}`), CreatedAt: created},
		{ID: 2, EventID: "e-2", Key: "order-1", EventType: "ORDER_PROCESSING_STARTED", Payload: []byte(`{"a":2}`), CreatedAt: created},
	}

	var written []kafka.Message
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(1).([]kafka.Message) }).
		Return(nil).Once()

	err := kafkaadapter.NewEventPublisher(writer).Publish(context.Background(), msgs...)

	require.NoError(t, err)
	require.Len(t, written, 2)
	for i, msg := range written {
		assert.Equal(t, []byte("order-1"), msg.Key)
		assert.Equal(t, msgs[i].Payload, msg.Value)
		assert.Equal(t, created, msg.Time)
		assert.Equal(t, []byte(msgs[i].EventType), msg.Headers[0].Value)
	}
	writer.AssertExpectations(t)
}

func TestEventPublisher_PublishNothing(t *testing.T) {
	writer := new(MockMessageWriter)

	require.NoError(t, kafkaadapter.NewEventPublisher(writer).Publish(context.Background()))
	writer.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestEventPublisher_WriteError(t *testing.T) {
	writer := new(MockMessageWriter)
	writeErr := errors.New("leader not available")
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(writeErr).Once()

	err := kafkaadapter.NewEventPublisher(writer).Publish(context.Background(), ports.OutboxMessage{ID: 1, Key: "k"})

	require.ErrorIs(t, err, writeErr)
}

func TestCommandSender_Send(t *testing.T) {
	writer := new(MockMessageWriter)
	orderID := kernel.NewUUID()
	create := contracts.NewCreateOrderCommand(orderID, []contracts.OrderItem{{
		ProductID: kernel.NewUUID().String(),
		Quantity:  2,
		Price:     contracts.NewPrice(decimal.RequireFromString("100.00")),
		Currency:  "USD",
	}})
	cancel := contracts.NewCancelOrderCommand(orderID, "changed my mind")

	var written []kafka.Message
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(1).([]kafka.Message) }).
		Return(nil).Once()

	err := kafkaadapter.NewCommandSender(writer).Send(context.Background(), create, cancel)

	require.NoError(t, err)
	require.Len(t, written, 2)
	assert.Equal(t, []byte(orderID.String()), written[0].Key)
	assert.Equal(t, []byte(orderID.String()), written[1].Key)

	decoded, err := contracts.DecodeCommand(written[0].Value)
	require.NoError(t, err)
	assert.Equal(t, create.ID(), decoded.ID())

	decoded, err = contracts.DecodeCommand(written[1].Value)
	require.NoError(t, err)
	assert.IsType(t, contracts.CancelOrderCommand{}, decoded)
}
