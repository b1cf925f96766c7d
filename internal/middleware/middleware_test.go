package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubsite/internal/pkg/apperrors"
	"github.com/yigit/clubsite/internal/pkg/auth"
	"github.com/yigit/clubsite/internal/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.UseTagFieldNames(v)
		_ = validation.RegisterCustomValidators(v)
	}
}

type envelope struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newSessions() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", SessionExp: time.Hour, Issuer: "clubsite"})
}

func TestRequireAdmin(t *testing.T) {
	sessions := newSessions()
	token, _, err := sessions.GenerateSessionToken(auth.Identity{AdminID: 4, Username: "admin"})
	require.NoError(t, err)

	expired := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", SessionExp: -time.Hour, Issuer: "clubsite"})
	expiredToken, _, err := expired.GenerateSessionToken(auth.Identity{AdminID: 4})
	require.NoError(t, err)

	m := NewAuthMiddleware(sessions, "admin_session")
	router := gin.New()
	router.GET("/admin", m.RequireAdmin(), func(c *gin.Context) {
		identity, ok := AdminIdentity(c)
		require.True(t, ok)
		c.String(http.StatusOK, "%d", identity.AdminID)
	})

	tests := []struct {
		name       string
		prepare    func(r *http.Request)
		wantStatus int
	}{
		{"no credentials", func(r *http.Request) {}, http.StatusUnauthorized},
		{"cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "admin_session", Value: token})
		}, http.StatusOK},
		{"bearer header", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token)
		}, http.StatusOK},
		{"expired", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+expiredToken)
		}, http.StatusUnauthorized},
		{"garbage cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "admin_session", Value: "nope"})
		}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			tt.prepare(req)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				body := decode(t, w)
				assert.False(t, body.Success)
				assert.Equal(t, "Unauthorized", body.Error)
			} else {
				assert.Equal(t, "4", w.Body.String())
			}
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"validation", apperrors.NewValidationError("email is required"), http.StatusBadRequest, "email is required"},
		{"conflict", apperrors.NewConflictError("Cannot delete job post with 2 application(s)"), http.StatusBadRequest, "Cannot delete job post with 2 application(s)"},
		{"not found", apperrors.ErrActivityNotFound, http.StatusNotFound, "Activity not found"},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid username or password"},
		{"token", apperrors.ErrTokenExpired, http.StatusUnauthorized, "Unauthorized"},
		{"upload", apperrors.ErrMediaUpload, http.StatusInternalServerError, "Failed to upload file"},
		{"database", fmt.Errorf("query failed: %w", errors.New("pq: relation missing")), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMessage, body.Error)
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestHandleBindError(t *testing.T) {
	type request struct {
		Email string `json:"email" binding:"required,email"`
		Phone string `json:"phone" binding:"required,phone"`
	}

	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleBindError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	t.Run("field errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","phone":"x"}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, "email must be a valid email address", body.Error)
		assert.Equal(t, "phone must be a valid phone number", body.Details["phone"])
	})

	t.Run("malformed json", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", decode(t, w).Error)
	})
}

func newLimitedRouter(t *testing.T, trusted []string) *gin.Engine {
	t.Helper()
	router := gin.New()
	require.NoError(t, router.SetTrustedProxies(trusted))
	router.POST("/submit", RateLimit(NewIPRateLimiter(0.001, 2)), func(c *gin.Context) { c.Status(http.StatusCreated) })
	return router
}

func submitFrom(router *gin.Engine, remoteAddr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit(t *testing.T) {
	router := newLimitedRouter(t, nil)

	assert.Equal(t, http.StatusCreated, submitFrom(router, "203.0.113.1:4000", ""))
	assert.Equal(t, http.StatusCreated, submitFrom(router, "203.0.113.1:4001", ""))
	assert.Equal(t, http.StatusTooManyRequests, submitFrom(router, "203.0.113.1:4002", ""))
	assert.Equal(t, http.StatusCreated, submitFrom(router, "203.0.113.2:4000", ""), "budgets are per address")
}

func TestRateLimit_IgnoresSpoofedForwardedFor(t *testing.T) {
	router := newLimitedRouter(t, nil)

	allowed := 0
	for i := 0; i < 20; i++ {
		if submitFrom(router, "10.0.0.1:5000", fmt.Sprintf("198.51.100.%d", i)) == http.StatusCreated {
			allowed++
		}
	}
	assert.Equal(t, 2, allowed)
}

func TestRateLimit_TrustedProxyForwardsClient(t *testing.T) {
	router := newLimitedRouter(t, []string{"10.0.0.1"})

	assert.Equal(t, http.StatusCreated, submitFrom(router, "10.0.0.1:5000", "198.51.100.7"))
	assert.Equal(t, http.StatusCreated, submitFrom(router, "10.0.0.1:5000", "198.51.100.7"))
	assert.Equal(t, http.StatusTooManyRequests, submitFrom(router, "10.0.0.1:5000", "198.51.100.7"))
	assert.Equal(t, http.StatusCreated, submitFrom(router, "10.0.0.1:5000", "198.51.100.8"))
}

func TestIPRateLimiter_PrunesIdleVisitors(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.Allow("a")
	limiter.Allow("b")
	require.Len(t, limiter.visitors, 2)

	now = now.Add(visitorIdle + time.Minute)
	limiter.Allow("c")
	assert.Len(t, limiter.visitors, 1)
}

func TestIPRateLimiter_EvictsPastCapacity(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	limiter.capacity = 3
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for _, ip := range []string{"a", "b", "c", "d", "e"} {
		now = now.Add(time.Second)
		limiter.Allow(ip)
	}

	assert.Len(t, limiter.visitors, 3)
	assert.NotContains(t, limiter.visitors, "a")
	assert.Contains(t, limiter.visitors, "e")
}

func TestSecurityHeadersAndLogger(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger(zerolog.Nop()), SecurityHeaders())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decode(t, w).Error)
}
