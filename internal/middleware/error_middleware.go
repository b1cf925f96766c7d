package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/pkg/apperrors"
	"github.com/yigit/clubsite/internal/pkg/logger"
)

// HandleAPIError maps err to a status code and writes the error envelope.
// Errors outside the taxonomy are logged and reported as a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	status, message := classify(err)

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}

	resp := dto.NewErrorResponse(message)
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && len(ce.Details) > 0 && status < http.StatusInternalServerError {
		resp = resp.WithDetails(ce.Details)
	}
	c.AbortWithStatusJSON(status, resp)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, messageOr(err, "Validation failed")
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, messageOr(err, "Bad request")
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusBadRequest, messageOr(err, "Conflict")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, messageOr(err, "Resource not found")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password"
	case apperrors.Is(err, apperrors.ErrUnauthorized, apperrors.ErrTokenExpired, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperrors.ErrUpstream):
		// curated upstream messages such as "Failed to upload file" carry no internals
		return http.StatusInternalServerError, messageOr(err, "Internal server error")
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func messageOr(err error, fallback string) string {
	if msg, ok := apperrors.Message(err); ok {
		return msg
	}
	return fallback
}

// HandleBindError reports a gin binding failure as 400 with per-field details
func HandleBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := ValidationDetails(verrs)
		c.AbortWithStatusJSON(http.StatusBadRequest,
			dto.NewErrorResponse(firstDetail(verrs, details)).WithDetails(details))
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request body"))
}

// Recovery turns panics into the generic 500 envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error"))
	})
}
