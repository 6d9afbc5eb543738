package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Shared validator instance, safe for concurrent use.
var validate = validator.New()

// ValidateRequest runs struct tag validation and reports the first
// failing field with a readable message.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return fmt.Errorf("validation failed: %s: %s", ve[0].Field(), fieldErrorMessage(ve[0]))
	}
	return fmt.Errorf("validation failed: %w", err)
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must have a minimum of %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
