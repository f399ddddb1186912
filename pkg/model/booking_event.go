package model

import "time"

const (
	BookingEventCreated    = "booking.created"
	BookingEventCancelled  = "booking.cancelled"
	BookingEventCheckedIn  = "booking.checked_in"
	BookingEventCheckedOut = "booking.checked_out"
)

type BookingEvent struct {
	EventID    string    `json:"event_id" bson:"_id"`
	Type       string    `json:"type" bson:"type"`
	BookingID  string    `json:"booking_id" bson:"booking_id"`
	HotelID    string    `json:"hotel_id" bson:"hotel_id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	RoomNumber string    `json:"room_number" bson:"room_number"`
	Status     string    `json:"status" bson:"status"`
	TotalPrice float64   `json:"total_price" bson:"total_price"`
	OccurredAt time.Time `json:"occurred_at" bson:"occurred_at"`
	RecordedAt time.Time `json:"recorded_at,omitempty" bson:"recorded_at"`
}

func NewBookingEvent(eventType string, b *Booking, occurredAt time.Time) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		HotelID:    b.HotelID,
		UserID:     b.UserID,
		RoomNumber: b.Room.Number,
		Status:     b.Status,
		TotalPrice: b.TotalPrice,
		OccurredAt: occurredAt,
	}
}
