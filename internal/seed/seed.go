package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/pkg/auth"
)

// AdminStore is the part of the admin repository the seed needs
type AdminStore interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, a *models.Admin) (int64, error)
}

// Admin describes the account created on first boot
type Admin struct {
	Username string
	Password string
	Name     string
	Email    string
}

// EnsureAdmin creates the configured admin when the admins table is empty.
// An existing admin of any name leaves the table untouched.
func EnsureAdmin(ctx context.Context, store AdminStore, admin Admin, lgr zerolog.Logger) error {
	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		lgr.Info().Int64("admins", count).Msg("Admin account already exists, skipping creation")
		return nil
	}

	username := strings.TrimSpace(admin.Username)
	if username == "" || admin.Password == "" {
		lgr.Warn().Msg("No admin account exists and admin credentials are not configured")
		return errors.New("admin username and password must be configured to create the first admin")
	}

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	id, err := store.Create(ctx, &models.Admin{
		Username:     username,
		PasswordHash: hash,
		Name:         strings.TrimSpace(admin.Name),
		Email:        strings.TrimSpace(admin.Email),
		Status:       models.AdminActive,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	lgr.Info().Int64("adminID", id).Str("username", username).Msg("Default admin created")
	return nil
}
