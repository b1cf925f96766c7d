package middleware

import (
	"github.com/go-playground/validator/v10"
)

// ValidationDetails maps each failed field to a human readable message
func ValidationDetails(errs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, e := range errs {
		details[fieldName(e)] = formatValidationError(e)
	}
	return details
}

func firstDetail(errs validator.ValidationErrors, details map[string]string) string {
	if len(errs) == 0 {
		return "Validation failed"
	}
	return details[fieldName(errs[0])]
}

// fieldName prefers the json/form tag name registered on the validator
func fieldName(e validator.FieldError) string {
	if e.Field() != "" {
		return e.Field()
	}
	return e.StructField()
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := fieldName(e)
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "email":
		return field + " must be a valid email address"
	case "phone":
		return field + " must be a valid phone number"
	case "url":
		return field + " must be a valid URL"
	case "oneof":
		return field + " must be one of: " + e.Param()
	default:
		return field + " is invalid"
	}
}
