package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"ticketbooking/internal/audit/consumer"
	"ticketbooking/internal/audit/repository"
	"ticketbooking/pkg/config"
	"ticketbooking/pkg/kafka"
	kafka_config "ticketbooking/pkg/kafka/config"
	kafka_middleware "ticketbooking/pkg/kafka/middleware"
	"ticketbooking/pkg/tracing"
)

const ServiceName = "booking-audit"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	shutdownTracing, err := tracing.Setup(ServiceName, cfg.JaegerEndpoint, cfg.Environment)
	if err != nil {
		cfg.Log.Fatal("Failed to initialise tracing", "error", err)
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	if !kafkaCfg.Enabled() {
		cfg.Log.Fatal("Kafka brokers are required for the audit consumer")
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	handler := consumer.NewHandler(repository.NewMongoEventRepository(cfg), cfg.Log)
	c, err := kafka.NewConsumer(kafkaCfg, kafkaCfg.BookingEventsTopic, kafkaCfg.AuditGroupID, kafkaCfg.BookingEventsDLQ, handler, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create consumer", "error", err)
	}

	metrics := kafka_middleware.NewMetrics()
	c.Use(metrics.ConsumerMiddleware())
	c.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting booking audit consumer", "topic", kafkaCfg.BookingEventsTopic, "group", kafkaCfg.AuditGroupID)
	if err := c.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := c.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		cfg.Log.Error("Failed to flush traces", "error", err)
	}
	cfg.Log.Info("Booking audit consumer stopped", metrics.Snapshot().LogArgs()...)
}
