// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/app/services"
	"github.com/yigit/clubsite/internal/middleware"
)

// AuthService signs admins in
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.SessionResponse, error)
}

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthController handles admin sessions
type AuthController struct {
	authService AuthService
	cookie      CookieConfig
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService AuthService, cookie CookieConfig, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

// Login checks credentials and sets the HttpOnly session cookie.
// The token is also returned for clients that send it as a bearer header.
func (ac *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := ac.authService.Login(c.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ac.cookie.Name, session.Token, maxAge, "/", "", ac.cookie.Secure, true)

	ok(c, session, "Login successful")
}

// Logout clears the session cookie. Tokens are stateless, so a copied token
// stays valid until it expires.
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ac.cookie.Name, "", -1, "/", "", ac.cookie.Secure, true)
	ok(c, nil, "Logged out")
}

// Session returns the identity of the current session; RequireAdmin runs first
func (ac *AuthController) Session(c *gin.Context) {
	claims, found := middleware.SessionClaims(c)
	if !found {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Unauthorized"))
		return
	}

	session := dto.SessionResponse{Admin: services.NewAdminResponse(claims.Identity())}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	ok(c, session, "")
}
