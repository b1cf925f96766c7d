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

// JobPostFilter narrows a job post listing
type JobPostFilter struct {
	Search     string
	JobType    string
	ActiveOnly bool
	Offset     uint64
	Limit      int
}

var jobPostColumns = []string{
	"jp.id", "jp.title", "jp.company", "jp.location", "jp.job_type", "jp.description",
	"jp.requirements", "jp.salary", "jp.apply_url", "jp.deadline", "jp.status",
	"jp.display_order", "jp.created_at", "jp.updated_at",
	"(SELECT COUNT(*) FROM job_applications ja WHERE ja.job_post_id = jp.id) AS application_count",
}

// JobPostRepository handles job post database operations
type JobPostRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewJobPostRepository creates a new JobPostRepository
func NewJobPostRepository(conn db.DBTX) *JobPostRepository {
	return &JobPostRepository{
		db: conn,
		sb: psql,
	}
}

func scanJobPost(row rowScanner) (*models.JobPost, error) {
	j := &models.JobPost{}
	err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.JobType, &j.Description,
		&j.Requirements, &j.Salary, &j.ApplyURL, &j.Deadline, &j.Status,
		&j.DisplayOrder, &j.CreatedAt, &j.UpdatedAt, &j.ApplicationCount)
	return j, err
}

// Create inserts a job post, assigning the next display order when none is given
func (r *JobPostRepository) Create(ctx context.Context, j *models.JobPost) (int64, error) {
	var id int64
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if j.DisplayOrder <= 0 {
			next, err := nextDisplayOrder(ctx, tx, "job_posts")
			if err != nil {
				return err
			}
			j.DisplayOrder = next
		}

		sql, args, err := r.sb.Insert("job_posts").
			Columns("title", "company", "location", "job_type", "description", "requirements",
				"salary", "apply_url", "deadline", "status", "display_order").
			Values(j.Title, j.Company, j.Location, j.JobType, j.Description, j.Requirements,
				j.Salary, j.ApplyURL, j.Deadline, j.Status, j.DisplayOrder).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create job post query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			logger.Error().Err(err).Msg("Error executing create job post query")
			return fmt.Errorf("error creating job post: %w", err)
		}
		return nil
	})
	return id, err
}

// GetByID retrieves a job post with its application count
func (r *JobPostRepository) GetByID(ctx context.Context, id int64) (*models.JobPost, error) {
	sql, args, err := r.sb.Select(jobPostColumns...).
		From("job_posts jp").
		Where(squirrel.Eq{"jp.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get job post query: %w", err)
	}

	j, err := scanJobPost(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrJobPostNotFound
		}
		logger.Error().Err(err).Int64("jobPostID", id).Msg("Error scanning job post row")
		return nil, fmt.Errorf("error getting job post: %w", err)
	}
	return j, nil
}

// List returns one page of job posts ordered by display order
func (r *JobPostRepository) List(ctx context.Context, f JobPostFilter) ([]*models.JobPost, int64, error) {
	where := squirrel.And{}
	if f.ActiveOnly {
		where = append(where, squirrel.Eq{"jp.status": models.JobPostActive})
	}
	if f.JobType != "" {
		where = append(where, squirrel.Eq{"jp.job_type": f.JobType})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"jp.title": pattern},
			squirrel.ILike{"jp.company": pattern},
			squirrel.ILike{"jp.description": pattern},
		})
	}

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("job_posts jp").Where(where))
	if err != nil {
		return nil, 0, err
	}

	query := r.sb.Select(jobPostColumns...).
		From("job_posts jp").
		Where(where).
		OrderBy("jp.display_order ASC", "jp.created_at DESC").
		Offset(f.Offset)
	if f.Limit > 0 {
		query = query.Limit(uint64(f.Limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list job posts query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list job posts query")
		return nil, 0, fmt.Errorf("error querying job posts: %w", err)
	}
	defer rows.Close()

	items := []*models.JobPost{}
	for rows.Next() {
		j, err := scanJobPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning job post row: %w", err)
		}
		items = append(items, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating job post rows: %w", err)
	}

	return items, total, nil
}

// Update writes the full field set of a job post
func (r *JobPostRepository) Update(ctx context.Context, j *models.JobPost) error {
	sql, args, err := r.sb.Update("job_posts").
		SetMap(map[string]interface{}{
			"title":         j.Title,
			"company":       j.Company,
			"location":      j.Location,
			"job_type":      j.JobType,
			"description":   j.Description,
			"requirements":  j.Requirements,
			"salary":        j.Salary,
			"apply_url":     j.ApplyURL,
			"deadline":      j.Deadline,
			"status":        j.Status,
			"display_order": j.DisplayOrder,
			"updated_at":    squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": j.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update job post query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("jobPostID", j.ID).Msg("Error executing update job post query")
		return fmt.Errorf("error updating job post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrJobPostNotFound
	}
	return nil
}

// Delete removes a job post unless applications reference it
func (r *JobPostRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		count, err := countRows(ctx, tx, r.sb.Select("COUNT(*)").From("job_applications").Where(squirrel.Eq{"job_post_id": id}))
		if err != nil {
			return err
		}
		if count > 0 {
			return apperrors.NewConflictError(fmt.Sprintf("Cannot delete job post with %d application(s)", count))
		}

		sql, args, err := r.sb.Delete("job_posts").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete job post query: %w", err)
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			if isForeignKeyError(err) {
				return apperrors.NewConflictError("Cannot delete job post with applications")
			}
			logger.Error().Err(err).Int64("jobPostID", id).Msg("Error deleting job post")
			return fmt.Errorf("error deleting job post: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrJobPostNotFound
		}
		return nil
	})
}
