package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	TagStayDate      = "stay_date"
	TagUsernameChars = "username_chars"

	DateLayout = "2006-01-02"
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Errors []FieldError

func (v Errors) Error() string {
	if len(v) == 0 {
		return ""
	}
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details is the shape placed in the error response.
func (v Errors) Details() map[string]any {
	fields := make(map[string]any, len(v))
	for _, err := range v {
		if _, exists := fields[err.Field]; !exists {
			fields[err.Field] = err.Message
		}
	}
	return map[string]any{"fields": fields}
}

// New returns a validator reporting json field names and knowing the shared custom tags.
func New() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation(TagStayDate, validateStayDate); err != nil {
		return nil, fmt.Errorf("register %s: %w", TagStayDate, err)
	}
	if err := v.RegisterValidation(TagUsernameChars, validateUsernameChars); err != nil {
		return nil, fmt.Errorf("register %s: %w", TagUsernameChars, err)
	}
	return v, nil
}

func validateStayDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

func validateUsernameChars(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

// ParseDate accepts RFC3339 timestamps or plain YYYY-MM-DD dates (midnight UTC).
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return t.UTC(), nil
}

// Struct runs v against s and converts tag failures into Errors.
func Struct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return Translate(validationErrs)
		}
		return err
	}
	return nil
}

func Translate(errs validator.ValidationErrors) Errors {
	var out Errors

	for _, err := range errs {
		field := err.Field()
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s", field, lengthOrValue(err))
		case "max":
			message = fmt.Sprintf("%s must be at most %s", field, lengthOrValue(err))
		case "gte":
			message = fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
		case "lte":
			message = fmt.Sprintf("%s must be less than or equal to %s", field, err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid id", field)
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", field, err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", field)
		case "unique":
			message = fmt.Sprintf("%s must not contain duplicates", field)
		case TagStayDate:
			message = fmt.Sprintf("%s must be a date (YYYY-MM-DD or RFC3339)", field)
		case TagUsernameChars:
			message = fmt.Sprintf("%s may only contain letters, digits, '.', '_' and '-'", field)
		}

		out = append(out, FieldError{Field: field, Message: message})
	}

	return out
}

func lengthOrValue(err validator.FieldError) string {
	switch err.Kind() {
	case reflect.String:
		return err.Param() + " characters"
	case reflect.Slice, reflect.Map, reflect.Array:
		return err.Param() + " items"
	default:
		return err.Param()
	}
}
