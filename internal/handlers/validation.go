package handlers

import (
	"github.com/go-playground/validator/v10"
)

// ValidationError is one field-level failure reported back to the client.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseValidationErrors flattens validator errors into client-facing field
// messages. Non-validator errors (malformed JSON, wrong types) produce nil;
// the envelope's top-level message covers those.
func ParseValidationErrors(err error) []ValidationError {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	out := make([]ValidationError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "url":
		return "Invalid URL format"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must not exceed " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
