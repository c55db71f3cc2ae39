package outboxrepo_test

import (
	"context"
	"testing"
	"time"

	"orders/internal/adapters/contracts"
	"orders/internal/adapters/out/postgres/outboxrepo"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type OutboxRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *outboxrepo.GormOutboxRepository
}

func (suite *OutboxRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&outboxrepo.OutboxDTO{}))
}

func (suite *OutboxRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE outbox RESTART IDENTITY").Error)
	suite.repository = outboxrepo.NewGormOutboxRepository(suite.db)
}

func (suite *OutboxRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestAdd_StoresEventsInOrder() {
	ctx := context.Background()
	events := suite.lifecycleEvents()

	suite.Require().NoError(suite.repository.Add(ctx, events...))

	pending, err := suite.repository.GetPending(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(pending, len(events))

	for i, msg := range pending {
		suite.Equal(events[i].EventID().String(), msg.EventID)
		suite.Equal(events[i].OrderID().String(), msg.Key)
		suite.Equal(string(events[i].EventType()), msg.EventType)

		decoded, err := contracts.DecodeEvent(msg.Payload)
		suite.Require().NoError(err)
		suite.Equal(events[i].EventID(), decoded.EventID())
		suite.Equal(events[i].EventType(), decoded.EventType())
	}
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestAdd_NoEvents_IsNoop() {
	suite.Require().NoError(suite.repository.Add(context.Background()))
	suite.assertOutboxCount(0)
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestAdd_NilEvent_Fails() {
	err := suite.repository.Add(context.Background(), nil)

	suite.Require().ErrorIs(err, errs.ErrValueIsRequired)
	suite.assertOutboxCount(0)
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestAdd_SameEventTwice_Fails() {
	ctx := context.Background()
	events := suite.lifecycleEvents()

	suite.Require().NoError(suite.repository.Add(ctx, events[0]))
	suite.Require().Error(suite.repository.Add(ctx, events[0]))
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestGetPending_RespectsLimit() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.lifecycleEvents()...))

	pending, err := suite.repository.GetPending(ctx, 1)
	suite.Require().NoError(err)
	suite.Len(pending, 1)

	_, err = suite.repository.GetPending(ctx, 0)
	suite.Require().ErrorIs(err, errs.ErrValueIsOutOfRange)
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestMarkSent_HidesMessages() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.lifecycleEvents()...))

	pending, err := suite.repository.GetPending(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 2)

	suite.Require().NoError(suite.repository.MarkSent(ctx, pending[0].ID))
	suite.Require().NoError(suite.repository.MarkSent(ctx))

	remaining, err := suite.repository.GetPending(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(remaining, 1)
	suite.Equal(pending[1].ID, remaining[0].ID)
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestTryLock_ExclusiveAcrossTransactions() {
	ctx := context.Background()

	tx1 := suite.db.Begin()
	defer tx1.Rollback()
	tx2 := suite.db.Begin()
	defer tx2.Rollback()

	locked, err := outboxrepo.NewGormOutboxRepository(tx1).TryLock(ctx)
	suite.Require().NoError(err)
	suite.True(locked)

	locked, err = outboxrepo.NewGormOutboxRepository(tx2).TryLock(ctx)
	suite.Require().NoError(err)
	suite.False(locked, "Second transaction must not get the relay lock")

	suite.Require().NoError(tx1.Commit().Error)

	locked, err = outboxrepo.NewGormOutboxRepository(tx2).TryLock(ctx)
	suite.Require().NoError(err)
	suite.True(locked, "Lock is released when the holding transaction ends")
}

func (suite *OutboxRepositoryIntegrationTestSuite) lifecycleEvents() []order.Event {
	o, err := order.NewOrder(kernel.NewUUID())
	suite.Require().NoError(err)
	suite.Require().NoError(o.Cancel())
	return o.PullEvents()
}

func (suite *OutboxRepositoryIntegrationTestSuite) assertOutboxCount(expected int) {
	var count int64
	suite.Require().NoError(suite.db.Model(&outboxrepo.OutboxDTO{}).Count(&count).Error)
	suite.Equal(int64(expected), count)
}

func TestOutboxRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OutboxRepositoryIntegrationTestSuite))
}
