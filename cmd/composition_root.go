package cmd

import (
	"io"
	"log/slog"

	"orders/internal/adapters/in/http"
	"orders/internal/adapters/in/kafka"
	kafkaout "orders/internal/adapters/out/kafka"
	"orders/internal/adapters/out/postgres"
	"orders/internal/adapters/out/postgres/dedupstore"
	redisdedup "orders/internal/adapters/out/redis"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/services"
	"orders/internal/core/ports"
	"orders/internal/jobs"
	kafkaclient "orders/internal/pkg/kafka"
	"orders/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot builds the application services from the configuration.
type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	redis      *redis.Client
	kafka      *kafkaclient.Client
	registry   *prometheus.Registry
	metrics    *metrics.Metrics
	logger     *slog.Logger
	uowFactory *postgres.GormUnitOfWorkFactory

	closers []io.Closer
}

// NewCompositionRoot wires the adapters around gormDB. A Redis client is
// created only when REDIS_ADDR is set.
func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(registry)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		kafka:      kafkaclient.NewClient(configs.KafkaBrokers),
		registry:   registry,
		metrics:    m,
		logger:     logger,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
	}
	if configs.RedisAddr != "" {
		c.redis = redis.NewClient(&redis.Options{
			Addr:     configs.RedisAddr,
			Password: configs.RedisPassword,
			DB:       configs.RedisDB,
		})
		c.closers = append(c.closers, c.redis)
	}
	return c, nil
}

func (c *CompositionRoot) Kafka() *kafkaclient.Client {
	return c.kafka
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateStartOrderProcessingCommandHandler() commands.StartOrderProcessingCommandHandler {
	return commands.NewStartOrderProcessingCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateResolveOrderOutcomeCommandHandler() commands.ResolveOrderOutcomeCommandHandler {
	return commands.NewResolveOrderOutcomeCommandHandler(c.orderUoWFactory(), services.NewRandomOutcomeResolver())
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() commands.RelayOutboxCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRelayOutboxCommandHandler(f, c.eventPublisher())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateCountOrdersByStatusQueryHandler() queries.CountOrdersByStatusQueryHandler {
	return queries.NewCountOrdersByStatusQueryHandler(c.gormDB)
}

// CreateDeduplicator returns the Redis guard when Redis is configured and the
// PostgreSQL one otherwise.
func (c *CompositionRoot) CreateDeduplicator() (ports.Deduplicator, error) {
	if c.redis != nil {
		return redisdedup.NewDeduplicator(c.redis, c.configs.DedupNamespace, c.configs.DedupTTL)
	}
	return c.createGormDeduplicator()
}

// CreateCommandConsumer builds the consumer of the commands topic. It opens
// the Kafka readers, so it is called after every fallible wiring step.
func (c *CompositionRoot) CreateCommandConsumer(dedup ports.Deduplicator) *kafka.Consumer {
	createHandler := c.CreateCreateOrderCommandHandler()
	cancelHandler := c.CreateCancelOrderCommandHandler()
	processor := kafka.NewCommandProcessor(dedup, &createHandler, &cancelHandler, c.logger)

	readers := c.readers(c.configs.KafkaCommandsTopic)
	return kafka.NewConsumer("command_consumer", readers, processor, c.metrics, c.logger)
}

// CreateEventConsumer builds the consumer of the events topic. Like
// CreateCommandConsumer it opens the readers and cannot fail.
func (c *CompositionRoot) CreateEventConsumer(dedup ports.Deduplicator) *kafka.Consumer {
	startHandler := c.CreateStartOrderProcessingCommandHandler()
	resolveHandler := c.CreateResolveOrderOutcomeCommandHandler()
	delay := kafka.ProcessingDelay{Min: c.configs.ProcessingDelayMin, Max: c.configs.ProcessingDelayMax}
	orchestrator := kafka.NewEventOrchestrator(dedup, &startHandler, &resolveHandler, delay, c.logger)

	readers := c.readers(c.configs.KafkaEventsTopic)
	return kafka.NewConsumer("event_consumer", readers, orchestrator, c.metrics, c.logger)
}

// CreateJobManager assembles the scheduled jobs. The dedup purge job runs only
// with the PostgreSQL deduplication store, Redis expires keys by itself.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	relayHandler := c.CreateRelayOutboxCommandHandler()
	countHandler := c.CreateCountOrdersByStatusQueryHandler()

	all := []jobs.Job{
		jobs.NewOutboxRelayJob(&relayHandler, c.configs.RelayBatchSize, c.metrics, c.logger),
		jobs.NewOrderStatusGaugeJob(&countHandler, c.metrics, c.logger),
	}
	if c.redis == nil {
		dedup, err := c.createGormDeduplicator()
		if err != nil {
			return nil, err
		}
		all = append(all, jobs.NewDedupPurgeJob(dedup, c.logger))
	}
	return jobs.NewJobManager(all...), nil
}

func (c *CompositionRoot) CreateHTTPServer() *http.Server {
	getOrderHandler := c.CreateGetOrderQueryHandler()
	return http.NewServer(&getOrderHandler, c.registry)
}

// Close releases the clients owned by the root. Kafka readers are closed by
// their consumers.
func (c *CompositionRoot) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) eventPublisher() *kafkaout.EventPublisher {
	publisher := kafkaout.NewEventPublisher(c.kafka.NewWriter(c.configs.KafkaEventsTopic))
	c.closers = append(c.closers, publisher)
	return publisher
}

func (c *CompositionRoot) createGormDeduplicator() (*dedupstore.GormDeduplicator, error) {
	return dedupstore.NewGormDeduplicator(c.gormDB, c.configs.DedupNamespace, c.configs.DedupTTL)
}

func (c *CompositionRoot) readers(topic string) []kafka.MessageReader {
	readers := c.kafka.NewReaders(topic, c.configs.KafkaConsumerGroup, c.configs.ConsumerConcurrency)
	out := make([]kafka.MessageReader, 0, len(readers))
	for _, r := range readers {
		out = append(out, r)
	}
	return out
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
