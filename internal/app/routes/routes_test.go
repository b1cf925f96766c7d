package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/clubsite/internal/middleware"
	"github.com/yigit/clubsite/internal/pkg/auth"
)

func newTestRouter(health func(ctx context.Context) error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	sessions := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", SessionExp: time.Hour, Issuer: "clubsite"})

	router := gin.New()
	SetupRouter(router, Controllers{}, Options{
		AuthMiddleware:    middleware.NewAuthMiddleware(sessions, "admin_session"),
		SubmissionLimiter: middleware.NewIPRateLimiter(1, 1),
		HealthCheck:       health,
	})
	return router
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		health     func(ctx context.Context) error
		wantStatus int
	}{
		{"no health check", nil, http.StatusOK},
		{"database up", func(ctx context.Context) error { return nil }, http.StatusOK},
		{"database down", func(ctx context.Context) error { return errors.New("refused") }, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newTestRouter(tt.health).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAdminRoutesRequireSession(t *testing.T) {
	router := newTestRouter(nil)

	for _, path := range []string{"/api/admin/membership", "/api/admin/stats", "/api/auth/session"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestUnknownRoute(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Route not found"}`, w.Body.String())
}
