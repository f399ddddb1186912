package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketbooking/pkg/kafka"
	kafka_config "ticketbooking/pkg/kafka/config"
	kafka_middleware "ticketbooking/pkg/kafka/middleware"
	"ticketbooking/pkg/logger"
	"ticketbooking/pkg/model"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

const (
	Source        = "ticketbooking-api"
	SchemaVersion = "1"
)

// Publisher announces booking lifecycle changes. Publishing happens after the
// database commit and never fails the request that triggered it.
type Publisher interface {
	Publish(ctx context.Context, eventType string, booking *model.Booking)
	Close() error
}

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	producer messagePublisher
	breaker  *gobreaker.CircuitBreaker
	timeout  time.Duration
	log      *logger.Logger
	now      func() time.Time
}

// NewPublisher returns a Kafka backed publisher, or a no-op one when Kafka is not configured.
func NewPublisher(cfg *kafka_config.Config, log *logger.Logger) (Publisher, error) {
	if cfg == nil || !cfg.Enabled() {
		log.Info("Kafka disabled, booking events will not be published")
		return NoopPublisher{}, nil
	}

	producer, err := kafka.NewProducer(cfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQ, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking events producer: %w", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(log))

	return newKafkaPublisher(producer, cfg.PublishTimeout, log), nil
}

func newKafkaPublisher(producer messagePublisher, timeout time.Duration, log *logger.Logger) *kafkaPublisher {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "booking-events",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &kafkaPublisher{
		producer: producer,
		breaker:  breaker,
		timeout:  timeout,
		log:      log,
		now:      time.Now,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, booking *model.Booking) {
	event := model.NewBookingEvent(eventType, booking, p.now().UTC())
	event.EventID = uuid.NewString()

	msg, err := kafka.NewMessage().
		WithKey(booking.ID).
		WithEventID(event.EventID).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithTraceContext(ctx).
		WithValue(event).
		Build()
	if err != nil {
		p.log.Error("Failed to build booking event", "type", eventType, "booking_id", booking.ID, "error", err)
		return
	}

	// The request may already be finishing; keep its values but not its deadline.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	_, err = p.breaker.Execute(func() (any, error) {
		return nil, p.producer.Publish(pubCtx, msg)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			p.log.Warn("Booking event dropped, circuit open", "type", eventType, "booking_id", booking.ID)
			return
		}
		p.log.Error("Failed to publish booking event", "type", eventType, "booking_id", booking.ID, "error", err)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, *model.Booking) {}

func (NoopPublisher) Close() error { return nil }
