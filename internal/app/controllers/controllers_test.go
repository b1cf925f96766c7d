package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/app/services"
	"github.com/yigit/clubsite/internal/middleware"
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
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Error      string              `json:"error"`
	Data       json.RawMessage     `json:"data"`
	Pagination *dto.PaginationInfo `json:"pagination"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// multipartBody writes fields and files (key -> filename) into a multipart request body
func multipartBody(t *testing.T, fields map[string]string, files [][2]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f[0], f[1])
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 test"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

type mockMembershipService struct{ mock.Mock }

func (m *mockMembershipService) Submit(ctx context.Context, req dto.CreateMembershipRequest, ip string) (int64, error) {
	args := m.Called(ctx, req, ip)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMembershipService) List(ctx context.Context, status string, page, limit int) ([]*models.MembershipApplication, dto.PaginationInfo, error) {
	args := m.Called(ctx, status, page, limit)
	items, _ := args.Get(0).([]*models.MembershipApplication)
	return items, args.Get(1).(dto.PaginationInfo), args.Error(2)
}

func (m *mockMembershipService) UpdateStatus(ctx context.Context, id int64, raw string) (models.MembershipStatus, error) {
	args := m.Called(ctx, id, raw)
	return args.Get(0).(models.MembershipStatus), args.Error(1)
}

func (m *mockMembershipService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.SessionResponse, error) {
	args := m.Called(ctx, req)
	session, _ := args.Get(0).(*dto.SessionResponse)
	return session, args.Error(1)
}

type mockJobApplicationService struct{ mock.Mock }

func (m *mockJobApplicationService) Apply(ctx context.Context, jobID int64, form dto.JobApplicationForm, ip string) (int64, error) {
	args := m.Called(ctx, jobID, form, ip)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockJobApplicationService) List(ctx context.Context, status string, jobID int64, page, limit int) ([]dto.JobApplicationResponse, dto.PaginationInfo, error) {
	args := m.Called(ctx, status, jobID, page, limit)
	items, _ := args.Get(0).([]dto.JobApplicationResponse)
	return items, args.Get(1).(dto.PaginationInfo), args.Error(2)
}

func (m *mockJobApplicationService) UpdateStatus(ctx context.Context, id int64, raw string) (models.JobApplicationStatus, error) {
	args := m.Called(ctx, id, raw)
	return args.Get(0).(models.JobApplicationStatus), args.Error(1)
}

func (m *mockJobApplicationService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockActivityService struct{ mock.Mock }

func (m *mockActivityService) List(ctx context.Context, q services.ActivityQuery, public bool) ([]dto.ActivityResponse, dto.PaginationInfo, error) {
	args := m.Called(ctx, q, public)
	items, _ := args.Get(0).([]dto.ActivityResponse)
	return items, args.Get(1).(dto.PaginationInfo), args.Error(2)
}

func (m *mockActivityService) Get(ctx context.Context, id int64, public bool) (dto.ActivityResponse, error) {
	args := m.Called(ctx, id, public)
	return args.Get(0).(dto.ActivityResponse), args.Error(1)
}

func (m *mockActivityService) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]string)
	return items, args.Error(1)
}

func (m *mockActivityService) Create(ctx context.Context, form dto.ActivityForm) (int64, error) {
	args := m.Called(ctx, form)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockActivityService) Update(ctx context.Context, id int64, form dto.ActivityForm) error {
	return m.Called(ctx, id, form).Error(0)
}

func (m *mockActivityService) AddImages(ctx context.Context, id int64, files []*multipart.FileHeader) (int, error) {
	args := m.Called(ctx, id, files)
	return args.Int(0), args.Error(1)
}

func (m *mockActivityService) DeleteImage(ctx context.Context, activityID, imageID int64) error {
	return m.Called(ctx, activityID, imageID).Error(0)
}

func (m *mockActivityService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestMembershipController_Submit(t *testing.T) {
	svc := new(mockMembershipService)
	router := gin.New()
	router.POST("/api/membership", NewMembershipController(svc).Submit)

	svc.On("Submit", mock.Anything, mock.MatchedBy(func(r dto.CreateMembershipRequest) bool {
		return r.StudentID == "20201234" && r.WhyJoin == ""
	}), "203.0.113.7").Return(int64(12), nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/membership", strings.NewReader(
		`{"name":"Ada","email":"ada@club.test","studentId":"20201234","department":"CSE","batch":"2020","phone":"01711111111"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.True(t, body.Success)
	assert.JSONEq(t, `{"id":12}`, string(body.Data))
	svc.AssertExpectations(t)
}

func TestMembershipController_SubmitMissingField(t *testing.T) {
	svc := new(mockMembershipService)
	router := gin.New()
	router.POST("/api/membership", NewMembershipController(svc).Submit)

	req := httptest.NewRequest(http.MethodPost, "/api/membership", strings.NewReader(
		`{"name":"Ada","email":"ada@club.test","department":"CSE","batch":"2020","phone":"017"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "studentId is required", decode(t, w).Error)
	svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestMembershipController_SubmitRateLimited(t *testing.T) {
	svc := new(mockMembershipService)
	svc.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)

	router := gin.New()
	router.POST("/api/membership", middleware.RateLimit(middleware.NewIPRateLimiter(0.001, 1)), NewMembershipController(svc).Submit)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/membership", strings.NewReader(
			`{"name":"Ada","email":"ada@club.test","studentId":"1","department":"CSE","batch":"2020","phone":"017"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Real-IP", "198.51.100.3")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
	svc.AssertNumberOfCalls(t, "Submit", 1)
}

func TestMembershipController_AdminFlow(t *testing.T) {
	svc := new(mockMembershipService)
	mc := NewMembershipController(svc)
	router := gin.New()
	router.GET("/membership", mc.List)
	router.PUT("/membership/:id/status", mc.UpdateStatus)
	router.DELETE("/membership/:id", mc.Delete)

	t.Run("list", func(t *testing.T) {
		svc.On("List", mock.Anything, "new", 2, 5).
			Return([]*models.MembershipApplication{{ID: 6}}, dto.NewPaginationInfo(6, 2, 5), nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/membership?status=new&page=2&limit=5", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		require.NotNil(t, body.Pagination)
		assert.Equal(t, 2, body.Pagination.TotalPages)
		assert.False(t, body.Pagination.HasMore)
	})

	t.Run("status outside enum", func(t *testing.T) {
		svc.On("UpdateStatus", mock.Anything, int64(3), "maybe").
			Return(models.MembershipStatus(""), apperrors.NewValidationError("Invalid status")).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/membership/3/status", strings.NewReader(`{"status":"maybe"}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid status", decode(t, w).Error)
	})

	t.Run("delete missing", func(t *testing.T) {
		svc.On("Delete", mock.Anything, int64(40)).Return(apperrors.ErrMembershipNotFound).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/membership/40", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/membership/abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	svc.AssertExpectations(t)
}

func TestAuthController(t *testing.T) {
	sessions := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", SessionExp: time.Hour, Issuer: "clubsite"})
	identity := auth.Identity{AdminID: 1, Name: "Club Admin", Username: "admin"}
	token, expiresAt, err := sessions.GenerateSessionToken(identity)
	require.NoError(t, err)

	svc := new(mockAuthService)
	ac := NewAuthController(svc, CookieConfig{Name: "admin_session"}, zerolog.Nop())
	guard := middleware.NewAuthMiddleware(sessions, "admin_session")

	router := gin.New()
	router.POST("/api/auth/login", ac.Login)
	router.POST("/api/auth/logout", ac.Logout)
	router.GET("/api/auth/session", guard.RequireAdmin(), ac.Session)

	t.Run("login sets cookie", func(t *testing.T) {
		svc.On("Login", mock.Anything, dto.LoginRequest{Username: "admin", Password: "secret"}).
			Return(&dto.SessionResponse{Admin: services.NewAdminResponse(identity), ExpiresAt: expiresAt, Token: token}, nil).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"admin","password":"secret"}`))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "admin_session", cookies[0].Name)
		assert.Equal(t, token, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	})

	t.Run("login failure", func(t *testing.T) {
		svc.On("Login", mock.Anything, dto.LoginRequest{Username: "admin", Password: "wrong"}).
			Return(nil, apperrors.ErrInvalidCredentials).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"admin","password":"wrong"}`)))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid username or password", decode(t, w).Error)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		req.AddCookie(&http.Cookie{Name: "admin_session", Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var session dto.SessionResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &session))
		assert.Equal(t, "admin", session.Admin.Username)
		assert.Empty(t, session.Token)
	})

	t.Run("session without cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("logout clears cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

		require.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	})

	svc.AssertExpectations(t)
}

func TestJobApplicationController_Apply(t *testing.T) {
	svc := new(mockJobApplicationService)
	router := gin.New()
	router.POST("/api/jobs/:id/apply", NewJobApplicationController(svc).Apply)

	svc.On("Apply", mock.Anything, int64(4), mock.MatchedBy(func(f dto.JobApplicationForm) bool {
		return f.Name == "Linus" && f.Resume != nil && f.Resume.Filename == "cv.pdf"
	}), "unknown").Return(int64(21), nil).Once()

	body, contentType := multipartBody(t, map[string]string{
		"name":  "Linus",
		"email": "linus@club.test",
		"phone": "+8801711111111",
	}, [][2]string{{"resume", "cv.pdf"}})
	req := httptest.NewRequest(http.MethodPost, "/api/jobs/4/apply", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":21}`, string(decode(t, w).Data))
	svc.AssertExpectations(t)
}

func TestJobApplicationController_ApplyClosed(t *testing.T) {
	svc := new(mockJobApplicationService)
	router := gin.New()
	router.POST("/api/jobs/:id/apply", NewJobApplicationController(svc).Apply)

	svc.On("Apply", mock.Anything, int64(4), mock.Anything, mock.Anything).Return(int64(0), apperrors.ErrJobClosed).Once()

	body, contentType := multipartBody(t, map[string]string{
		"name":  "Linus",
		"email": "linus@club.test",
		"phone": "+8801711111111",
	}, [][2]string{{"resume", "cv.pdf"}})
	req := httptest.NewRequest(http.MethodPost, "/api/jobs/4/apply", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decode(t, w).Success)
}

func TestJobApplicationController_ListByJob(t *testing.T) {
	svc := new(mockJobApplicationService)
	router := gin.New()
	router.GET("/job-applications", NewJobApplicationController(svc).List)

	svc.On("List", mock.Anything, "", int64(9), 1, 20).
		Return([]dto.JobApplicationResponse{}, dto.NewPaginationInfo(0, 1, 20), nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/job-applications?jobId=9", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestActivityController_CreateCollectsImages(t *testing.T) {
	svc := new(mockActivityService)
	router := gin.New()
	router.POST("/activities", NewActivityController(svc).Create)

	svc.On("Create", mock.Anything, mock.MatchedBy(func(f dto.ActivityForm) bool {
		return f.Title == "Hackathon" && f.CoverImage != nil && len(f.Images) == 2
	})).Return(int64(5), nil).Once()

	body, contentType := multipartBody(t, map[string]string{
		"title":        "Hackathon",
		"category":     "Workshop",
		"activityDate": "2025-02-14",
	}, [][2]string{{"coverImage", "cover.png"}, {"images[]", "a.png"}, {"images[]", "b.png"}})
	req := httptest.NewRequest(http.MethodPost, "/activities", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestActivityController_ListPublicFilters(t *testing.T) {
	svc := new(mockActivityService)
	router := gin.New()
	router.GET("/api/activities", NewActivityController(svc).ListPublic)

	svc.On("List", mock.Anything, services.ActivityQuery{Category: "Workshop", Year: 2024, Page: 1, Limit: 12}, true).
		Return([]dto.ActivityResponse{}, dto.NewPaginationInfo(0, 1, 12), nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/activities?category=Workshop&year=2024", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestActivityController_GetHidden(t *testing.T) {
	svc := new(mockActivityService)
	ac := NewActivityController(svc)
	router := gin.New()
	router.GET("/api/activities/:id", ac.GetPublic)

	svc.On("Get", mock.Anything, int64(3), true).Return(dto.ActivityResponse{}, apperrors.ErrActivityNotFound).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/activities/3", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Activity not found", decode(t, w).Error)
}
