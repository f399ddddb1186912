package kafka_config

import "time"

const (
	// Empty brokers disable event publishing; the API keeps working without Kafka.
	DefaultKafkaBrokers = ""

	DefaultBookingEventsTopic = "booking-events"
	DefaultBookingEventsDLQ   = "booking-events-dlq"
	DefaultAuditGroupID       = "booking-audit"

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1 // all replicas
	DefaultProducerCompression  = "snappy"
	DefaultPublishTimeout       = 3 * time.Second

	DefaultConsumerStartOffset    = -2 // oldest: the audit log wants full history
	DefaultConsumerMaxWait        = 500 * time.Millisecond
	DefaultConsumerCommitInterval = 0 // synchronous commits
	DefaultConsumerMaxRetries     = 3
	DefaultConsumerRetryBackoff   = 500 * time.Millisecond
)
