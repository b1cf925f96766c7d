package services

import (
	"fmt"
	"strings"

	"github.com/yigit/clubsite/internal/pkg/apperrors"
	"github.com/yigit/clubsite/internal/pkg/richtext"
	"github.com/yigit/clubsite/internal/pkg/validation"
)

type requiredField struct {
	name  string
	value string
}

// requireFields reports the first blank field
func requireFields(fields ...requiredField) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return apperrors.NewValidationError(f.name + " is required")
		}
	}
	return nil
}

// checkSender applies the name and email rules shared by every public form
func checkSender(name, email string) error {
	nameRule := validation.NewStringValidation(name).
		WithMinLength(validation.NameMinLength).
		WithMaxLength(validation.NameMaxLength)
	if !nameRule.Validate() {
		return apperrors.NewValidationError(fmt.Sprintf("name must be between %d and %d characters",
			validation.NameMinLength, validation.NameMaxLength))
	}
	if !validation.IsEmail(email) {
		return apperrors.NewValidationError("email must be a valid email address")
	}
	return nil
}

// checkLink rejects links that are not absolute http(s) URLs
func checkLink(field, value string) error {
	if value != "" && !validation.IsHTTPURL(value) {
		return apperrors.NewValidationError(field + " must be an http or https URL")
	}
	return nil
}

// cleanAll strips markup from every pointed-to string in place
func cleanAll(text *richtext.Renderer, values ...*string) {
	for _, v := range values {
		*v = text.PlainText(*v)
	}
}

// statusFilter validates an optional status query parameter
func statusFilter[T ~string](raw string, parse func(string) (T, error)) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	status, err := parse(raw)
	if err != nil {
		return "", invalidStatus(err)
	}
	return string(status), nil
}

// invalidStatus reports a status value outside its enum
func invalidStatus(err error) error {
	return apperrors.NewCustomError(apperrors.ErrInvalidStatus, err.Error())
}
