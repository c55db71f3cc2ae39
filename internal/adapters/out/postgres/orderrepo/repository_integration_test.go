package orderrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OrderRepositoryIntegrationTestSuite verifies order persistence against a
// PostgreSQL container.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, order_items").Error)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_AndGet_RoundTrip() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("19.99", "5.00")

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	stored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Equal(testOrder.ID(), stored.ID())
	suite.Equal(order.New, stored.Status())
	suite.Equal(0, stored.Version())
	suite.WithinDuration(testOrder.CreatedAt(), stored.CreatedAt(), time.Millisecond)
	suite.WithinDuration(testOrder.UpdatedAt(), stored.UpdatedAt(), time.Millisecond)
	suite.Empty(stored.PendingEvents(), "Restored orders carry no events")

	suite.Require().Len(stored.Items(), 2)
	for i, item := range testOrder.Items() {
		got := stored.Items()[i]
		suite.Equal(item.ID(), got.ID(), "Items should keep their insertion order")
		suite.Equal(item.ProductID(), got.ProductID())
		suite.Equal(item.Quantity(), got.Quantity())
		suite.True(item.UnitPrice().IsEqual(got.UnitPrice()), "%s != %s", item.UnitPrice(), got.UnitPrice())
	}

	expectedTotal, err := testOrder.CalculateTotal()
	suite.Require().NoError(err)
	storedTotal, err := stored.CalculateTotal()
	suite.Require().NoError(err)
	suite.True(expectedTotal.IsEqual(storedTotal))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateID_Fails() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("1.00")

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))
	suite.Require().Error(suite.repository.Add(ctx, testOrder))
	suite.assertOrderCount(1)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_UnconstructedOrder_Fails() {
	err := suite.repository.Add(context.Background(), &order.Order{})

	suite.Require().ErrorIs(err, order.ErrOrderIsNotConstructed)
	suite.assertOrderCount(0)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_MissingOrder_ReturnsNotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestExists() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("1.00")
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	exists, err := suite.repository.Exists(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(exists)

	exists, err = suite.repository.Exists(ctx, kernel.NewUUID())
	suite.Require().NoError(err)
	suite.False(exists)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StatusAndVersion() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("3.00")
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	loaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.StartProcessing())
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	stored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.InProgress, stored.Status())
	suite.Equal(1, stored.Version())
	suite.Len(stored.Items(), 1)
	suite.False(stored.UpdatedAt().Before(testOrder.UpdatedAt()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ReplacesItems() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("3.00", "4.00")
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	loaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	removed := loaded.Items()[0]
	suite.Require().NoError(loaded.RemoveItem(removed))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	stored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(stored.Items(), 1)
	suite.False(stored.ContainsProduct(removed.ProductID()))

	var itemCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderItemDTO{}).Count(&itemCount).Error)
	suite.Equal(int64(1), itemCount)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_Fails() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("3.00")
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	first, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.StartProcessing())
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.Cancel())
	err = suite.repository.Update(ctx, second)
	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)

	stored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.InProgress, stored.Status(), "Stale write must not be applied")
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_MissingOrder_ReturnsNotFound() {
	testOrder := suite.createTestOrder("3.00")

	err := suite.repository.Update(context.Background(), testOrder)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ConcurrentWriters_OnlyOneWins() {
	ctx := context.Background()
	testOrder := suite.createTestOrder("3.00")
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	const writers = 5
	loaded := make([]*order.Order, writers)
	for i := range loaded {
		o, err := suite.repository.Get(ctx, testOrder.ID())
		suite.Require().NoError(err)
		suite.Require().NoError(o.StartProcessing())
		loaded[i] = o
	}

	var wg sync.WaitGroup
	results := make(chan error, writers)
	for _, o := range loaded {
		wg.Add(1)
		go func(o *order.Order) {
			defer wg.Done()
			results <- orderrepo.NewGormOrderRepository(suite.db).Update(ctx, o)
		}(o)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		suite.ErrorIs(err, errs.ErrVersionIsInvalid)
	}
	suite.Equal(1, succeeded)
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(prices ...string) *order.Order {
	items := make([]*order.LineItem, 0, len(prices))
	for i, p := range prices {
		qty, err := kernel.NewQuantity(i + 1)
		suite.Require().NoError(err)
		price, err := kernel.NewMoney(decimal.RequireFromString(p), "USD")
		suite.Require().NoError(err)
		item, err := order.NewLineItem(kernel.NewUUID(), qty, price)
		suite.Require().NoError(err)
		items = append(items, item)
	}

	o, err := order.NewOrderWithItems(kernel.NewUUID(), items)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	err := suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
