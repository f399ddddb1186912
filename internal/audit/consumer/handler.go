package consumer

import (
	"context"

	"ticketbooking/internal/audit/repository"
	"ticketbooking/pkg/kafka"
	"ticketbooking/pkg/logger"
	"ticketbooking/pkg/model"
)

// NewHandler persists every booking event it receives. Undecodable or
// incomplete payloads are permanent failures and go to the dead letter topic.
func NewHandler(repo repository.EventRepository, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event model.BookingEvent
		if err := msg.DecodeValue(&event); err != nil {
			return kafka.NewPermanentError("failed to decode booking event", err)
		}

		if event.EventID == "" {
			event.EventID = msg.GetEventID()
		}
		if event.EventID == "" || event.BookingID == "" || event.Type == "" {
			return kafka.NewPermanentError("booking event is missing event_id, booking_id or type", kafka.ErrInvalidMessage)
		}

		if err := repo.Record(ctx, &event); err != nil {
			return kafka.NewTransientError("failed to store booking event", err)
		}

		log.Debug("Booking event recorded",
			"event_id", event.EventID,
			"type", event.Type,
			"booking_id", event.BookingID,
		)
		return nil
	}
}
