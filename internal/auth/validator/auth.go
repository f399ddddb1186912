package validator

import (
	"ticketbooking/pkg/logger"
	"ticketbooking/pkg/model"
	"ticketbooking/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type AuthValidator struct {
	validate *validator.Validate
}

func NewAuthValidator(log *logger.Logger) *AuthValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize auth validator", "error", err)
	}
	return &AuthValidator{validate: v}
}

func (v *AuthValidator) ValidateSignup(req *model.SignupRequest) error {
	return validation.Struct(v.validate, req)
}

func (v *AuthValidator) ValidateLogin(req *model.LoginRequest) error {
	return validation.Struct(v.validate, req)
}
