package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/db"
	"github.com/yigit/clubsite/internal/pkg/apperrors"
	"github.com/yigit/clubsite/internal/pkg/logger"
)

// AdminRepository handles admin account database operations
type AdminRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(conn db.DBTX) *AdminRepository {
	return &AdminRepository{
		db: conn,
		sb: psql,
	}
}

// GetByUsername retrieves an admin by username regardless of status
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	sql, args, err := r.sb.Select("id", "username", "password_hash", "name", "email", "status", "last_login_at", "created_at").
		From("admins").
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}

	a := &models.Admin{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Name,
		&a.Email, &a.Status, &a.LastLoginAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Admin not found")
		}
		logger.Error().Err(err).Msg("Error scanning admin row")
		return nil, fmt.Errorf("error getting admin: %w", err)
	}
	return a, nil
}

// UpdateLastLogin updates the last login time
func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("admins").
		Set("last_login_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("adminID", id).Msg("Error updating admin last login")
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// Count returns the number of admin accounts
func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("admins"))
}

// Create inserts an admin account
func (r *AdminRepository) Create(ctx context.Context, a *models.Admin) (int64, error) {
	sql, args, err := r.sb.Insert("admins").
		Columns("username", "password_hash", "name", "email", "status").
		Values(a.Username, a.PasswordHash, a.Name, a.Email, a.Status).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create admin query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if isDuplicateKeyError(err) {
			return 0, apperrors.NewConflictError("Username is already taken")
		}
		logger.Error().Err(err).Msg("Error executing create admin query")
		return 0, fmt.Errorf("error creating admin: %w", err)
	}
	return id, nil
}
