package model

import (
	"math"
	"time"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCheckedIn = "checked_in"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

var BookingStatuses = []string{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCheckedIn,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

const nightDuration = 24 * time.Hour

type RoomSnapshot struct {
	Number string  `json:"number" bson:"number"`
	Type   string  `json:"type" bson:"type"`
	Price  float64 `json:"price" bson:"price"`
}

type Payment struct {
	Method        string `json:"method,omitempty" bson:"method,omitempty"`
	Paid          bool   `json:"paid" bson:"paid"`
	TransactionID string `json:"transaction_id,omitempty" bson:"transaction_id,omitempty"`
}

type Booking struct {
	ID          string       `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      string       `json:"user_id" bson:"user_id"`
	HotelID     string       `json:"hotel_id" bson:"hotel_id"`
	Room        RoomSnapshot `json:"room" bson:"room"`
	CheckIn     time.Time    `json:"check_in" bson:"check_in"`
	CheckOut    time.Time    `json:"check_out" bson:"check_out"`
	NightlyRate float64      `json:"nightly_rate" bson:"nightly_rate"`
	Nights      int          `json:"nights" bson:"nights"`
	TotalPrice  float64      `json:"total_price" bson:"total_price"`
	Status      string       `json:"status" bson:"status"`
	Payment     Payment      `json:"payment" bson:"payment"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`
}

// IsTerminal reports whether no further transition is possible.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}

func (b *Booking) CanCheckIn() bool {
	return b.Status == BookingStatusConfirmed
}

func (b *Booking) CanCheckOut() bool {
	return b.Status == BookingStatusCheckedIn
}

func (b *Booking) CanCancel() bool {
	return !b.IsTerminal()
}

// Overlaps uses half-open intervals: a stay ending on day D does not collide with one starting on day D.
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut)
}

func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// Nights counts started 24h periods between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(float64(d) / float64(nightDuration)))
}

func TotalPrice(nightlyRate float64, nights int) float64 {
	return nightlyRate * float64(nights)
}

type BookingRequest struct {
	HotelID       string `json:"hotel_id" validate:"required,mongodb"`
	RoomNumber    string `json:"room_number" validate:"required,max=20"`
	CheckIn       string `json:"check_in" validate:"required,stay_date"`
	CheckOut      string `json:"check_out" validate:"required,stay_date"`
	PaymentMethod string `json:"payment_method,omitempty" validate:"omitempty,oneof=card cash transfer"`
}

// BookingView is the per-user listing shape, with the hotel summarised.
type BookingView struct {
	ID         string        `json:"id"`
	Hotel      *HotelSummary `json:"hotel"`
	RoomNumber string        `json:"room_number"`
	Room       RoomSnapshot  `json:"room"`
	CheckIn    time.Time     `json:"check_in"`
	CheckOut   time.Time     `json:"check_out"`
	Nights     int           `json:"nights"`
	TotalPrice float64       `json:"total_price"`
	Status     string        `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type ManagerBookingView struct {
	Booking
	User *UserSummary `json:"user"`
}

type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type HotelBookings struct {
	Hotel    *HotelSummary        `json:"hotel"`
	Bookings []ManagerBookingView `json:"bookings"`
}

type ManagerBookingsResponse struct {
	Count   int             `json:"count"`
	Grouped []HotelBookings `json:"grouped"`
}

type BookingFilter struct {
	UserID  string
	HotelID string
	Status  string
}
