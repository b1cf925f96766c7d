package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/db"
	"github.com/yigit/clubsite/internal/pkg/apperrors"
	"github.com/yigit/clubsite/internal/pkg/logger"
)

// ContactRepository handles contact message database operations
type ContactRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(conn db.DBTX) *ContactRepository {
	return &ContactRepository{
		db: conn,
		sb: psql,
	}
}

// Create inserts a contact message and returns its ID
func (r *ContactRepository) Create(ctx context.Context, m *models.ContactMessage) (int64, error) {
	sql, args, err := r.sb.Insert("contact_messages").
		Columns("name", "email", "subject", "message", "status", "ip_address").
		Values(m.Name, m.Email, m.Subject, m.Message, m.Status, m.IPAddress).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create contact query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Msg("Error executing create contact query")
		return 0, fmt.Errorf("error creating contact message: %w", err)
	}
	return id, nil
}

// List returns one page of messages, newest first, optionally filtered by status
func (r *ContactRepository) List(ctx context.Context, status string, offset uint64, limit int) ([]*models.ContactMessage, int64, error) {
	where := squirrel.And{}
	if status != "" {
		where = append(where, squirrel.Eq{"status": status})
	}

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("contact_messages").Where(where))
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := r.sb.Select("id", "name", "email", "subject", "message", "status", "ip_address", "created_at").
		From("contact_messages").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list contact query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list contact query")
		return nil, 0, fmt.Errorf("error querying contact messages: %w", err)
	}
	defer rows.Close()

	items := []*models.ContactMessage{}
	for rows.Next() {
		m := &models.ContactMessage{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Status, &m.IPAddress, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning contact row: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating contact rows: %w", err)
	}

	return items, total, nil
}

// UpdateStatus sets the moderation status; a missing ID is reported as not found
func (r *ContactRepository) UpdateStatus(ctx context.Context, id int64, status models.ContactStatus) error {
	sql, args, err := r.sb.Update("contact_messages").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update contact status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("contactID", id).Msg("Error updating contact status")
		return fmt.Errorf("error updating contact status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrContactMessageNotFound
	}
	return nil
}

// Delete removes a message
func (r *ContactRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("contact_messages").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete contact query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("contactID", id).Msg("Error deleting contact message")
		return fmt.Errorf("error deleting contact message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrContactMessageNotFound
	}
	return nil
}
