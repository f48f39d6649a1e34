package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldError is one entry in a validation error's details list
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Global validator instance (reused across all handlers)
var validate = validator.New()

// ValidateRequest validates a request struct and returns per-field details
// suitable for the error envelope, or nil if the struct is valid
func ValidateRequest(req interface{}) []FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	if ve, ok := err.(validator.ValidationErrors); ok {
		details := make([]FieldError, 0, len(ve))
		for _, fieldError := range ve {
			details = append(details, FieldError{
				Field:   fieldError.Field(),
				Message: formatValidationError(fieldError),
			})
		}
		return details
	}

	return []FieldError{{Field: "", Message: "invalid request"}}
}

// formatValidationError converts a validator FieldError to a user-friendly message
func formatValidationError(fe validator.FieldError) string {
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
