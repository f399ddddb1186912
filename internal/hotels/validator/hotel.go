package validator

import (
	"ticketbooking/pkg/logger"
	"ticketbooking/pkg/model"
	"ticketbooking/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type HotelValidator struct {
	validate *validator.Validate
}

func NewHotelValidator(log *logger.Logger) *HotelValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize hotel validator", "error", err)
	}
	return &HotelValidator{validate: v}
}

// ValidateCreate checks field rules, then requires a way to price a stay:
// at least one room or a base price.
func (v *HotelValidator) ValidateCreate(req *model.HotelCreateRequest) error {
	if err := validation.Struct(v.validate, req); err != nil {
		return err
	}

	if len(req.Rooms) == 0 && req.BasePrice == nil {
		return validation.Errors{{
			Field:   "rooms",
			Message: "either rooms or base_price is required",
		}}
	}
	return nil
}
