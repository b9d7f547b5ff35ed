package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the worker's environment-driven settings.
type Config struct {
	KafkaBrokers      []string
	TransactionsTopic string
	ConsumerGroupID   string
	CompletedTopic    string
	PostgresDSN       string
}

// Load reads configuration from the environment, preloading a .env file when
// one is present.
func Load() (Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		KafkaBrokers:      splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		TransactionsTopic: getEnv("KAFKA_TRANSACTIONS_TOPIC", "bank_transactions"),
		ConsumerGroupID:   getEnv("KAFKA_CONSUMER_GROUP", "bank-transaction-processor"),
		CompletedTopic:    getEnv("KAFKA_COMPLETED_TOPIC", "transaction_completed"),
		PostgresDSN:       os.Getenv("POSTGRES_DSN"),
	}

	if cfg.PostgresDSN == "" {
		return Config{}, errors.New("POSTGRES_DSN is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
