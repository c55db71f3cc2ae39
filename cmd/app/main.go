package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orders/cmd"
	httpin "orders/internal/adapters/in/http"
	"orders/internal/adapters/out/postgres"

	"golang.org/x/sync/errgroup"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(configs)
	if err := run(configs, logger); err != nil {
		logger.Error("Order service stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Order service stopped")
}

func run(configs cmd.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := openGorm(configs)
	if err != nil {
		return err
	}
	if err := postgres.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("Failed to close clients", "error", err)
		}
	}()

	if err := app.Kafka().EnsureTopics(ctx, configs.KafkaTopicPartitions,
		configs.KafkaCommandsTopic, configs.KafkaEventsTopic); err != nil {
		return fmt.Errorf("ensure topics: %w", err)
	}

	dedup, err := app.CreateDeduplicator()
	if err != nil {
		return err
	}
	jobManager, err := app.CreateJobManager()
	if err != nil {
		return err
	}

	if err := jobManager.StartAll(); err != nil {
		return fmt.Errorf("start jobs: %w", err)
	}
	defer jobManager.StopAll()

	// Consumers own their readers and close them when Run returns.
	commandConsumer := app.CreateCommandConsumer(dedup)
	eventConsumer := app.CreateEventConsumer(dedup)

	e := httpin.NewEcho(app.CreateHTTPServer())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return commandConsumer.Run(ctx)
	})
	g.Go(func() error {
		return eventConsumer.Run(ctx)
	})
	g.Go(func() error {
		logger.Info("HTTP server listening", "port", configs.HTTPPort)
		err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort))
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newLogger(configs cmd.Config) *slog.Logger {
	level, _ := configs.SlogLevel()
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func openGorm(configs cmd.Config) (*gorm.DB, error) {
	gormDB, err := gorm.Open(pgdriver.New(pgdriver.Config{
		DSN:                  configs.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(2 * configs.ConsumerConcurrency)
	return gormDB, nil
}
