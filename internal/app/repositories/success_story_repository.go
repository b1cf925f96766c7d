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

var successStoryColumns = []string{
	"id", "name", "batch", "position", "company", "story", "photo_url", "linkedin_url",
	"display_order", "is_active", "created_at", "updated_at",
}

// SuccessStoryRepository handles success story database operations
type SuccessStoryRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewSuccessStoryRepository creates a new SuccessStoryRepository
func NewSuccessStoryRepository(conn db.DBTX) *SuccessStoryRepository {
	return &SuccessStoryRepository{
		db: conn,
		sb: psql,
	}
}

func scanSuccessStory(row rowScanner) (*models.SuccessStory, error) {
	s := &models.SuccessStory{}
	err := row.Scan(&s.ID, &s.Name, &s.Batch, &s.Position, &s.Company, &s.Story, &s.PhotoURL,
		&s.LinkedInURL, &s.DisplayOrder, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create inserts a success story
func (r *SuccessStoryRepository) Create(ctx context.Context, s *models.SuccessStory) (int64, error) {
	var id int64
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if s.DisplayOrder <= 0 {
			next, err := nextDisplayOrder(ctx, tx, "success_stories")
			if err != nil {
				return err
			}
			s.DisplayOrder = next
		}

		sql, args, err := r.sb.Insert("success_stories").
			Columns("name", "batch", "position", "company", "story", "photo_url", "linkedin_url",
				"display_order", "is_active").
			Values(s.Name, s.Batch, s.Position, s.Company, s.Story, s.PhotoURL, s.LinkedInURL,
				s.DisplayOrder, s.IsActive).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create success story query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			logger.Error().Err(err).Msg("Error executing create success story query")
			return fmt.Errorf("error creating success story: %w", err)
		}
		return nil
	})
	return id, err
}

// GetByID retrieves a success story
func (r *SuccessStoryRepository) GetByID(ctx context.Context, id int64) (*models.SuccessStory, error) {
	sql, args, err := r.sb.Select(successStoryColumns...).
		From("success_stories").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get success story query: %w", err)
	}

	s, err := scanSuccessStory(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSuccessStoryNotFound
		}
		return nil, fmt.Errorf("error getting success story: %w", err)
	}
	return s, nil
}

// List returns one page of success stories in display order
func (r *SuccessStoryRepository) List(ctx context.Context, f ContentFilter) ([]*models.SuccessStory, int64, error) {
	where := squirrel.And{}
	if f.ActiveOnly {
		where = append(where, squirrel.Eq{"is_active": true})
	}

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("success_stories").Where(where))
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := f.page(r.sb.Select(successStoryColumns...).
		From("success_stories").
		Where(where).
		OrderBy("display_order ASC", "created_at DESC")).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list success stories query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list success stories query")
		return nil, 0, fmt.Errorf("error querying success stories: %w", err)
	}
	defer rows.Close()

	items := []*models.SuccessStory{}
	for rows.Next() {
		s, err := scanSuccessStory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning success story row: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating success story rows: %w", err)
	}
	return items, total, nil
}

// Update writes the full field set; a replaced photo is queued for removal
func (r *SuccessStoryRepository) Update(ctx context.Context, s *models.SuccessStory) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		old, err := lockMediaURLs(ctx, tx, "success_stories", s.ID, "photo_url")
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrSuccessStoryNotFound
			}
			return fmt.Errorf("error locking success story: %w", err)
		}

		sql, args, err := r.sb.Update("success_stories").
			SetMap(map[string]interface{}{
				"name":          s.Name,
				"batch":         s.Batch,
				"position":      s.Position,
				"company":       s.Company,
				"story":         s.Story,
				"photo_url":     s.PhotoURL,
				"linkedin_url":  s.LinkedInURL,
				"display_order": s.DisplayOrder,
				"is_active":     s.IsActive,
				"updated_at":    squirrel.Expr("NOW()"),
			}).
			Where(squirrel.Eq{"id": s.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update success story query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("storyID", s.ID).Msg("Error executing update success story query")
			return fmt.Errorf("error updating success story: %w", err)
		}

		return enqueueMediaCleanup(ctx, tx, replacedURLs(old, []string{s.PhotoURL})...)
	})
}

// Delete removes a success story and queues its photo for removal
func (r *SuccessStoryRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		urls, err := deleteReturningMediaURLs(ctx, tx, "success_stories", id, "photo_url")
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrSuccessStoryNotFound
			}
			logger.Error().Err(err).Int64("storyID", id).Msg("Error deleting success story")
			return fmt.Errorf("error deleting success story: %w", err)
		}
		return enqueueMediaCleanup(ctx, tx, urls...)
	})
}
