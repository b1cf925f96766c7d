package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")

	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// ErrUpstream marks failures of the database or the media store
	ErrUpstream = errors.New("upstream failure")
)

// Submission errors
var (
	ErrMembershipNotFound     = notFound("Membership application not found")
	ErrContactMessageNotFound = notFound("Contact message not found")
	ErrJobApplicationNotFound = notFound("Job application not found")
	ErrInvalidStatus          = invalid("Invalid status value")
	ErrJobClosed              = invalid("This job post is no longer accepting applications")
	ErrExternalApplication    = invalid("This job post accepts applications on an external site")
)

// Content errors
var (
	ErrActivityNotFound      = notFound("Activity not found")
	ErrActivityImageNotFound = notFound("Activity image not found")
	ErrJobPostNotFound       = notFound("Job post not found")
	ErrBoardCategoryNotFound = notFound("Board category not found")
	ErrBoardMemberNotFound   = notFound("Board member not found")
	ErrGuidelineNotFound     = notFound("Career guideline not found")
	ErrInterviewTipNotFound  = notFound("Interview tip not found")
	ErrCVTemplateNotFound    = notFound("CV template not found")
	ErrSuccessStoryNotFound  = notFound("Success story not found")
)

// Media errors
var (
	ErrMediaRequired       = invalid("File is required")
	ErrUnsupportedFileType = invalid("Unsupported file type")
	ErrFileTooLarge        = invalid("File is too large")
	ErrMediaUpload         = &CustomError{Err: ErrUpstream, Message: "Failed to upload file"}
)

func notFound(message string) *CustomError {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

func invalid(message string) *CustomError {
	return &CustomError{Err: ErrValidationFailed, Message: message}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewValidationError reports a missing or malformed field
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// Message returns the client-facing message carried by err, if any
func Message(err error) (string, bool) {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message, true
	}
	return "", false
}
