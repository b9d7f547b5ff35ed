package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/bank-transaction-processor/internal/config"
	"github.com/sheikh-saqib/bank-transaction-processor/internal/consumer"
	eventskafka "github.com/sheikh-saqib/bank-transaction-processor/internal/events/kafka"
	queuekafka "github.com/sheikh-saqib/bank-transaction-processor/internal/queue/kafka"
	"github.com/sheikh-saqib/bank-transaction-processor/internal/storage/postgres"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("postgres open failed", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("postgres ping failed", zap.Error(err))
	}

	queue := queuekafka.NewQueue(cfg.KafkaBrokers, cfg.TransactionsTopic, cfg.ConsumerGroupID)
	defer queue.Close()

	publisher := eventskafka.NewPublisher(cfg.KafkaBrokers, cfg.CompletedTopic)
	defer publisher.Close()

	store := postgres.NewAccountStore(db)
	worker := consumer.New(queue, store, publisher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("worker starting",
		zap.String("run_id", uuid.NewString()),
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.TransactionsTopic),
		zap.String("consumer_group", cfg.ConsumerGroupID))

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("worker stopped unexpectedly", zap.Error(err))
	}

	logger.Info("worker stopped")
}
