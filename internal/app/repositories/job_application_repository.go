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

// JobApplicationFilter narrows an admin listing
type JobApplicationFilter struct {
	Status    string
	JobPostID int64
	Offset    uint64
	Limit     int
}

// JobApplicationRepository handles job application database operations
type JobApplicationRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewJobApplicationRepository creates a new JobApplicationRepository
func NewJobApplicationRepository(conn db.DBTX) *JobApplicationRepository {
	return &JobApplicationRepository{
		db: conn,
		sb: psql,
	}
}

// Create inserts an application; the job post must still exist
func (r *JobApplicationRepository) Create(ctx context.Context, a *models.JobApplication) (int64, error) {
	sql, args, err := r.sb.Insert("job_applications").
		Columns("job_post_id", "name", "email", "phone", "cover_letter", "resume_url", "status", "ip_address").
		Values(a.JobPostID, a.Name, a.Email, a.Phone, a.CoverLetter, a.ResumeURL, a.Status, a.IPAddress).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create job application query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if isForeignKeyError(err) {
			return 0, apperrors.ErrJobPostNotFound
		}
		logger.Error().Err(err).Msg("Error executing create job application query")
		return 0, fmt.Errorf("error creating job application: %w", err)
	}
	return id, nil
}

// List returns one page of applications with their job title, newest first
func (r *JobApplicationRepository) List(ctx context.Context, f JobApplicationFilter) ([]*models.JobApplication, int64, error) {
	where := squirrel.And{}
	if f.Status != "" {
		where = append(where, squirrel.Eq{"ja.status": f.Status})
	}
	if f.JobPostID > 0 {
		where = append(where, squirrel.Eq{"ja.job_post_id": f.JobPostID})
	}

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("job_applications ja").Where(where))
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := r.sb.Select(
		"ja.id", "ja.job_post_id", "ja.name", "ja.email", "ja.phone", "ja.cover_letter",
		"ja.resume_url", "ja.status", "ja.ip_address", "ja.created_at", "jp.title", "jp.company",
	).
		From("job_applications ja").
		Join("job_posts jp ON jp.id = ja.job_post_id").
		Where(where).
		OrderBy("ja.created_at DESC", "ja.id DESC").
		Offset(f.Offset).
		Limit(uint64(f.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list job applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list job applications query")
		return nil, 0, fmt.Errorf("error querying job applications: %w", err)
	}
	defer rows.Close()

	items := []*models.JobApplication{}
	for rows.Next() {
		a := &models.JobApplication{}
		if err := rows.Scan(&a.ID, &a.JobPostID, &a.Name, &a.Email, &a.Phone, &a.CoverLetter,
			&a.ResumeURL, &a.Status, &a.IPAddress, &a.CreatedAt, &a.JobTitle, &a.JobCompany); err != nil {
			return nil, 0, fmt.Errorf("error scanning job application row: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating job application rows: %w", err)
	}

	return items, total, nil
}

// UpdateStatus sets the moderation status; a missing ID is reported as not found
func (r *JobApplicationRepository) UpdateStatus(ctx context.Context, id int64, status models.JobApplicationStatus) error {
	sql, args, err := r.sb.Update("job_applications").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update job application status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("applicationID", id).Msg("Error updating job application status")
		return fmt.Errorf("error updating job application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrJobApplicationNotFound
	}
	return nil
}

// Delete removes an application and queues its résumé for removal in the same transaction
func (r *JobApplicationRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("job_applications").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING resume_url").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete job application query: %w", err)
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var resumeURL string
		if err := tx.QueryRow(ctx, sql, args...).Scan(&resumeURL); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrJobApplicationNotFound
			}
			logger.Error().Err(err).Int64("applicationID", id).Msg("Error deleting job application")
			return fmt.Errorf("error deleting job application: %w", err)
		}
		return enqueueMediaCleanup(ctx, tx, resumeURL)
	})
}
