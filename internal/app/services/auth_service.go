package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"github.com/yigit/clubsite/internal/pkg/apperrors"
	"github.com/yigit/clubsite/internal/pkg/auth"
)

// AdminRepository is the account storage used by AuthService
type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}

// SessionIssuer signs session tokens
type SessionIssuer interface {
	GenerateSessionToken(identity auth.Identity) (string, time.Time, error)
}

// AuthService handles admin sign in
type AuthService struct {
	adminRepo AdminRepository
	sessions  SessionIssuer
	logger    zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(adminRepo AdminRepository, sessions SessionIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		sessions:  sessions,
		logger:    logger,
	}
}

// Authenticate verifies credentials of an active admin. Unknown usernames,
// inactive accounts and wrong passwords all yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (auth.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return auth.Identity{}, apperrors.ErrInvalidCredentials
	}

	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			auth.CheckDecoy(password)
			return auth.Identity{}, apperrors.ErrInvalidCredentials
		}
		return auth.Identity{}, err
	}

	if !auth.CheckPassword(admin.PasswordHash, password) || admin.Status != models.AdminActive {
		s.logger.Warn().Str("username", username).Msg("Rejected admin sign in")
		return auth.Identity{}, apperrors.ErrInvalidCredentials
	}

	if err := s.adminRepo.UpdateLastLogin(ctx, admin.ID); err != nil {
		s.logger.Warn().Err(err).Int64("adminID", admin.ID).Msg("Failed to record last login")
	}

	return auth.Identity{
		AdminID:  admin.ID,
		Name:     admin.Name,
		Email:    admin.Email,
		Username: admin.Username,
	}, nil
}

// Login authenticates and issues a session token
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.SessionResponse, error) {
	identity, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.sessions.GenerateSessionToken(identity)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("adminID", identity.AdminID).Msg("Admin signed in")
	return &dto.SessionResponse{
		Admin:     NewAdminResponse(identity),
		ExpiresAt: expiresAt,
		Token:     token,
	}, nil
}

// NewAdminResponse exposes a session identity
func NewAdminResponse(identity auth.Identity) dto.AdminResponse {
	return dto.AdminResponse{
		ID:       identity.AdminID,
		Name:     identity.Name,
		Email:    identity.Email,
		Username: identity.Username,
	}
}
