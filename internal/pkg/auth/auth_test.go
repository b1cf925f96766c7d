package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubsite/internal/pkg/apperrors"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:  "test-secret",
		SessionExp: 30 * 24 * time.Hour,
		Issuer:     "clubsite",
	})
}

func TestSessionToken_RoundTrip(t *testing.T) {
	svc := newTestService()
	identity := Identity{AdminID: 3, Name: "Club Admin", Email: "admin@club.test", Username: "admin"}

	token, expiresAt, err := svc.GenerateSessionToken(identity)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), expiresAt, time.Minute)

	claims, err := svc.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, identity, claims.Identity())
	assert.Equal(t, "3", claims.Subject)
}

func TestSessionToken_Expired(t *testing.T) {
	svc := newTestService()
	token, _, err := svc.GenerateSessionToken(Identity{AdminID: 1, Username: "admin"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }

	_, err = svc.ValidateSessionToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestSessionToken_Rejected(t *testing.T) {
	svc := newTestService()
	other := NewJWTService(JWTConfig{SecretKey: "other", SessionExp: time.Hour, Issuer: "clubsite"})
	foreign, _, err := other.GenerateSessionToken(Identity{AdminID: 1})
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{AdminID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong secret", foreign},
		{"unsigned", noneToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateSessionToken(tt.token)
			assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	token, ok := ExtractBearerToken("Bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)

	_, ok = ExtractBearerToken("Basic Zm9vOmJhcg==")
	assert.False(t, ok)

	_, ok = ExtractBearerToken("Bearer ")
	assert.False(t, ok)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "battery staple"))
	assert.False(t, CheckPassword("not-a-hash", "correct horse"))
}

func TestHashPasswordLimits(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)

	_, err = HashPassword(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	assert.False(t, CheckDecoy("anything"))
}
