package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	red "github.com/chatre7/AI-Guardrail/internal/redis"
	"github.com/chatre7/AI-Guardrail/internal/setup/logger"
	"github.com/chatre7/AI-Guardrail/internal/violations"
)

func main() {
	// Load env
	envErr := godotenv.Load()

	// Structured JSON logging, this worker never runs interactively
	logr := logger.New(getEnv("LOG_LEVEL", "info"))
	log.Logger = logr
	if envErr != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisClient, err := red.ConnectRedis(ctx, redisAddr, os.Getenv("REDIS_PASSWORD"), 5, &logr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	store, err := violations.NewStore(ctx, connString())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database ping failed")
	}
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure violations schema")
	}

	stream := os.Getenv("VIOLATIONS_STREAM")
	if stream == "" {
		stream = "violation-events"
	}

	hostname, _ := os.Hostname()
	consumer := violations.NewConsumer(redisClient, stream, "violation-audit", hostname, store, &logr)

	if err := consumer.Setup(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create consumer group")
	}

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Consumer failed")
	}

	log.Info().Msg("Audit consumer stopped")
}

func connString() string {
	host := getEnv("VIOLATIONS_DB_HOST", "localhost")
	port := getEnv("VIOLATIONS_DB_PORT", "5432")
	user := getEnv("VIOLATIONS_DB_USER", "postgres")
	password := getEnv("VIOLATIONS_DB_PASSWORD", "postgres")
	database := getEnv("VIOLATIONS_DB_NAME", "violations")
	sslMode := getEnv("VIOLATIONS_DB_SSLMODE", "disable")

	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s", user, password, host, port, database, sslMode)
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}
