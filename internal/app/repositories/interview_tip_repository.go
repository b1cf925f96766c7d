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

var interviewTipColumns = []string{
	"id", "title", "content", "category", "thumbnail_url", "view_count",
	"display_order", "is_active", "created_at", "updated_at",
}

// InterviewTipRepository handles interview tip database operations
type InterviewTipRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewInterviewTipRepository creates a new InterviewTipRepository
func NewInterviewTipRepository(conn db.DBTX) *InterviewTipRepository {
	return &InterviewTipRepository{
		db: conn,
		sb: psql,
	}
}

func scanInterviewTip(row rowScanner) (*models.InterviewTip, error) {
	t := &models.InterviewTip{}
	err := row.Scan(&t.ID, &t.Title, &t.Content, &t.Category, &t.ThumbnailURL, &t.ViewCount,
		&t.DisplayOrder, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Create inserts an interview tip
func (r *InterviewTipRepository) Create(ctx context.Context, t *models.InterviewTip) (int64, error) {
	var id int64
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if t.DisplayOrder <= 0 {
			next, err := nextDisplayOrder(ctx, tx, "interview_tips")
			if err != nil {
				return err
			}
			t.DisplayOrder = next
		}

		sql, args, err := r.sb.Insert("interview_tips").
			Columns("title", "content", "category", "thumbnail_url", "display_order", "is_active").
			Values(t.Title, t.Content, t.Category, t.ThumbnailURL, t.DisplayOrder, t.IsActive).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create interview tip query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			logger.Error().Err(err).Msg("Error executing create interview tip query")
			return fmt.Errorf("error creating interview tip: %w", err)
		}
		return nil
	})
	return id, err
}

// GetByID retrieves an interview tip
func (r *InterviewTipRepository) GetByID(ctx context.Context, id int64) (*models.InterviewTip, error) {
	sql, args, err := r.sb.Select(interviewTipColumns...).
		From("interview_tips").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get interview tip query: %w", err)
	}

	t, err := scanInterviewTip(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInterviewTipNotFound
		}
		return nil, fmt.Errorf("error getting interview tip: %w", err)
	}
	return t, nil
}

// List returns interview tips in display order
func (r *InterviewTipRepository) List(ctx context.Context, f ContentFilter) ([]*models.InterviewTip, int64, error) {
	where := f.where()

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("interview_tips").Where(where))
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := f.page(r.sb.Select(interviewTipColumns...).
		From("interview_tips").
		Where(where).
		OrderBy("display_order ASC", "created_at DESC")).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list interview tips query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list interview tips query")
		return nil, 0, fmt.Errorf("error querying interview tips: %w", err)
	}
	defer rows.Close()

	items := []*models.InterviewTip{}
	for rows.Next() {
		t, err := scanInterviewTip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning interview tip row: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating interview tip rows: %w", err)
	}
	return items, total, nil
}

// Update writes the full field set; a replaced thumbnail is queued for removal
func (r *InterviewTipRepository) Update(ctx context.Context, t *models.InterviewTip) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		old, err := lockMediaURLs(ctx, tx, "interview_tips", t.ID, "thumbnail_url")
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrInterviewTipNotFound
			}
			return fmt.Errorf("error locking interview tip: %w", err)
		}

		sql, args, err := r.sb.Update("interview_tips").
			SetMap(map[string]interface{}{
				"title":         t.Title,
				"content":       t.Content,
				"category":      t.Category,
				"thumbnail_url": t.ThumbnailURL,
				"display_order": t.DisplayOrder,
				"is_active":     t.IsActive,
				"updated_at":    squirrel.Expr("NOW()"),
			}).
			Where(squirrel.Eq{"id": t.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update interview tip query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("tipID", t.ID).Msg("Error executing update interview tip query")
			return fmt.Errorf("error updating interview tip: %w", err)
		}

		return enqueueMediaCleanup(ctx, tx, replacedURLs(old, []string{t.ThumbnailURL})...)
	})
}

// Delete removes an interview tip and queues its thumbnail for removal
func (r *InterviewTipRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		urls, err := deleteReturningMediaURLs(ctx, tx, "interview_tips", id, "thumbnail_url")
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrInterviewTipNotFound
			}
			logger.Error().Err(err).Int64("tipID", id).Msg("Error deleting interview tip")
			return fmt.Errorf("error deleting interview tip: %w", err)
		}
		return enqueueMediaCleanup(ctx, tx, urls...)
	})
}

// IncrementViews bumps the view counter of an active tip and returns the new value
func (r *InterviewTipRepository) IncrementViews(ctx context.Context, id int64) (int64, error) {
	views, err := incrementCounter(ctx, r.db, "interview_tips", "view_count", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrInterviewTipNotFound
		}
		logger.Error().Err(err).Int64("tipID", id).Msg("Error incrementing interview tip views")
		return 0, fmt.Errorf("error incrementing interview tip views: %w", err)
	}
	return views, nil
}
