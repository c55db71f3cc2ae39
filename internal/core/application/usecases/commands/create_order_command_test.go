package commands_test

import (
	"testing"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItems() []commands.CreateOrderItem {
	return []commands.CreateOrderItem{
		{ProductID: kernel.NewUUID(), Quantity: 2, Price: decimal.RequireFromString("100.00"), Currency: "USD"},
	}
}

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()
	items := validItems()

	cmd, err := commands.NewCreateOrderCommand(id, items)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, items, cmd.Items())
}

func TestNewCreateOrderCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.UUID{}, validItems())

	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCreateOrderCommand_NoItems(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), nil)

	require.ErrorIs(t, err, commands.ErrItemsAreRequired)
}

func TestNewCreateOrderCommand_MissingProduct(t *testing.T) {
	items := validItems()
	items[0].ProductID = kernel.UUID{}

	_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), items)

	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	assert.Contains(t, err.Error(), "items[0]")
}

func TestCreateOrderCommand_NotConstructed(t *testing.T) {
	require.ErrorIs(t, commands.CreateOrderCommand{}.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}

func TestLifecycleCommands_Constructors(t *testing.T) {
	id := kernel.NewUUID()

	start, err := commands.NewStartOrderProcessingCommand(id)
	require.NoError(t, err)
	require.NoError(t, start.Validate())
	assert.Equal(t, id, start.OrderID())

	resolve, err := commands.NewResolveOrderOutcomeCommand(id)
	require.NoError(t, err)
	require.NoError(t, resolve.Validate())

	cancel, err := commands.NewCancelOrderCommand(id, "  customer request ")
	require.NoError(t, err)
	assert.Equal(t, "customer request", cancel.Reason())

	_, err = commands.NewStartOrderProcessingCommand(kernel.UUID{})
	require.Error(t, err)
	_, err = commands.NewResolveOrderOutcomeCommand(kernel.UUID{})
	require.Error(t, err)
	_, err = commands.NewCancelOrderCommand(kernel.UUID{}, "")
	require.Error(t, err)

	require.Error(t, commands.StartOrderProcessingCommand{}.Validate())
	require.Error(t, commands.ResolveOrderOutcomeCommand{}.Validate())
	require.Error(t, commands.CancelOrderCommand{}.Validate())
}

func TestNewRelayOutboxCommand(t *testing.T) {
	cmd, err := commands.NewRelayOutboxCommand(50)
	require.NoError(t, err)
	assert.Equal(t, 50, cmd.BatchSize())

	_, err = commands.NewRelayOutboxCommand(0)
	require.Error(t, err)
	require.Error(t, commands.RelayOutboxCommand{}.Validate())
}
