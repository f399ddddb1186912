package validator

import (
	"slices"
	"time"

	"ticketbooking/pkg/logger"
	"ticketbooking/pkg/model"
	"ticketbooking/pkg/validation"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingValidator struct {
	validate *validator.Validate
	now      func() time.Time
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize booking validator", "error", err)
	}
	return &BookingValidator{validate: v, now: time.Now}
}

// Stay is a validated booking window.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// ValidateRequest checks field rules and returns the parsed stay. Check-out must
// follow check-in, and check-in may not fall before the current UTC day.
func (v *BookingValidator) ValidateRequest(req *model.BookingRequest) (Stay, error) {
	if err := validation.Struct(v.validate, req); err != nil {
		return Stay{}, err
	}

	checkIn, err := validation.ParseDate(req.CheckIn)
	if err != nil {
		return Stay{}, validation.Errors{{Field: "check_in", Message: err.Error()}}
	}
	checkOut, err := validation.ParseDate(req.CheckOut)
	if err != nil {
		return Stay{}, validation.Errors{{Field: "check_out", Message: err.Error()}}
	}

	if !checkOut.After(checkIn) {
		return Stay{}, validation.Errors{{Field: "check_out", Message: "must be after check_in"}}
	}

	today := v.now().UTC().Truncate(24 * time.Hour)
	if checkIn.Before(today) {
		return Stay{}, validation.Errors{{Field: "check_in", Message: "cannot be in the past"}}
	}

	return Stay{CheckIn: checkIn, CheckOut: checkOut}, nil
}

func (v *BookingValidator) ValidateFilter(filter model.BookingFilter) error {
	var errs validation.Errors
	if filter.Status != "" && !slices.Contains(model.BookingStatuses, filter.Status) {
		errs = append(errs, validation.FieldError{Field: "status", Message: "must be one of pending confirmed checked_in completed cancelled"})
	}
	if filter.HotelID != "" && !primitive.IsValidObjectID(filter.HotelID) {
		errs = append(errs, validation.FieldError{Field: "hotel_id", Message: "must be a valid id"})
	}
	if filter.UserID != "" && !primitive.IsValidObjectID(filter.UserID) {
		errs = append(errs, validation.FieldError{Field: "user_id", Message: "must be a valid id"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
