package helpers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubsite/internal/pkg/apperrors"
)

// UnknownIP is stored when no forwarding header names the caller
const UnknownIP = "unknown"

// ClientIP returns the submitter address recorded on public submissions:
// the first X-Forwarded-For entry, then X-Real-IP, then UnknownIP.
func ClientIP(header http.Header) string {
	if forwarded := header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return UnknownIP
}

// ParseIDParam reads a positive int64 path parameter
func ParseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("Invalid " + name)
	}
	return id, nil
}

// QueryInt reads an optional integer query parameter, returning 0 when absent or malformed
func QueryInt(c *gin.Context, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return 0
	}
	return n
}
