package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/pkg/auth"
)

const (
	identityKey = "adminIdentity"
	claimsKey   = "sessionClaims"
)

// SessionValidator checks session tokens
type SessionValidator interface {
	ValidateSessionToken(token string) (*auth.Claims, error)
}

// AuthMiddleware guards the admin API
type AuthMiddleware struct {
	sessions   SessionValidator
	cookieName string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions SessionValidator, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		cookieName: cookieName,
	}
}

// SessionToken returns the token carried by the session cookie or, failing
// that, the Authorization bearer header
func (m *AuthMiddleware) SessionToken(c *gin.Context) (string, bool) {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		return cookie, true
	}
	return auth.ExtractBearerToken(c.GetHeader("Authorization"))
}

// RequireAdmin rejects requests without a valid session with 401
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := m.SessionToken(c)
		if !ok {
			abortUnauthorized(c)
			return
		}

		claims, err := m.sessions.ValidateSessionToken(token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(claimsKey, claims)
		c.Set(identityKey, claims.Identity())
		c.Next()
	}
}

// AdminIdentity returns the identity stored by RequireAdmin
func AdminIdentity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}

// SessionClaims returns the token claims stored by RequireAdmin
func SessionClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Unauthorized"))
}
