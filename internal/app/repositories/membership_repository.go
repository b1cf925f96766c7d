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

var membershipColumns = []string{
	"id", "name", "email", "student_id", "department", "batch", "phone",
	"why_join", "status", "ip_address", "created_at",
}

// MembershipRepository handles membership application database operations
type MembershipRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(conn db.DBTX) *MembershipRepository {
	return &MembershipRepository{
		db: conn,
		sb: psql,
	}
}

// Create inserts a membership application and returns its ID
func (r *MembershipRepository) Create(ctx context.Context, m *models.MembershipApplication) (int64, error) {
	sql, args, err := r.sb.Insert("membership_applications").
		Columns("name", "email", "student_id", "department", "batch", "phone", "why_join", "status", "ip_address").
		Values(m.Name, m.Email, m.StudentID, m.Department, m.Batch, m.Phone, m.WhyJoin, m.Status, m.IPAddress).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create membership query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Msg("Error executing create membership query")
		return 0, fmt.Errorf("error creating membership application: %w", err)
	}
	return id, nil
}

// List returns one page of applications, newest first, optionally filtered by status
func (r *MembershipRepository) List(ctx context.Context, status string, offset uint64, limit int) ([]*models.MembershipApplication, int64, error) {
	where := squirrel.And{}
	if status != "" {
		where = append(where, squirrel.Eq{"status": status})
	}

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("membership_applications").Where(where))
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := r.sb.Select(membershipColumns...).
		From("membership_applications").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list membership query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list membership query")
		return nil, 0, fmt.Errorf("error querying membership applications: %w", err)
	}
	defer rows.Close()

	items := []*models.MembershipApplication{}
	for rows.Next() {
		m := &models.MembershipApplication{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.StudentID, &m.Department, &m.Batch,
			&m.Phone, &m.WhyJoin, &m.Status, &m.IPAddress, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning membership row: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating membership rows: %w", err)
	}

	return items, total, nil
}

// UpdateStatus sets the moderation status; a missing ID is reported as not found
func (r *MembershipRepository) UpdateStatus(ctx context.Context, id int64, status models.MembershipStatus) error {
	sql, args, err := r.sb.Update("membership_applications").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update membership status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("membershipID", id).Msg("Error updating membership status")
		return fmt.Errorf("error updating membership status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMembershipNotFound
	}
	return nil
}

// Delete removes an application
func (r *MembershipRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("membership_applications").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete membership query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("membershipID", id).Msg("Error deleting membership application")
		return fmt.Errorf("error deleting membership application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMembershipNotFound
	}
	return nil
}
