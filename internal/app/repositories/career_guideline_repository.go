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

// ContentFilter narrows a listing of display-ordered content
type ContentFilter struct {
	Category   string
	ActiveOnly bool
	Offset     uint64
	Limit      int
}

func (f ContentFilter) where() squirrel.And {
	where := squirrel.And{}
	if f.ActiveOnly {
		where = append(where, squirrel.Eq{"is_active": true})
	}
	if f.Category != "" {
		where = append(where, squirrel.Eq{"category": f.Category})
	}
	return where
}

func (f ContentFilter) page(q squirrel.SelectBuilder) squirrel.SelectBuilder {
	q = q.Offset(f.Offset)
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	return q
}

var guidelineColumns = []string{
	"id", "title", "summary", "content", "category", "thumbnail_url", "resource_url",
	"view_count", "display_order", "is_active", "created_at", "updated_at",
}

// CareerGuidelineRepository handles career guideline database operations
type CareerGuidelineRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewCareerGuidelineRepository creates a new CareerGuidelineRepository
func NewCareerGuidelineRepository(conn db.DBTX) *CareerGuidelineRepository {
	return &CareerGuidelineRepository{
		db: conn,
		sb: psql,
	}
}

func scanGuideline(row rowScanner) (*models.CareerGuideline, error) {
	g := &models.CareerGuideline{}
	err := row.Scan(&g.ID, &g.Title, &g.Summary, &g.Content, &g.Category, &g.ThumbnailURL,
		&g.ResourceURL, &g.ViewCount, &g.DisplayOrder, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

// Create inserts a guideline
func (r *CareerGuidelineRepository) Create(ctx context.Context, g *models.CareerGuideline) (int64, error) {
	var id int64
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if g.DisplayOrder <= 0 {
			next, err := nextDisplayOrder(ctx, tx, "career_guidelines")
			if err != nil {
				return err
			}
			g.DisplayOrder = next
		}

		sql, args, err := r.sb.Insert("career_guidelines").
			Columns("title", "summary", "content", "category", "thumbnail_url", "resource_url",
				"display_order", "is_active").
			Values(g.Title, g.Summary, g.Content, g.Category, g.ThumbnailURL, g.ResourceURL,
				g.DisplayOrder, g.IsActive).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create guideline query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			logger.Error().Err(err).Msg("Error executing create guideline query")
			return fmt.Errorf("error creating guideline: %w", err)
		}
		return nil
	})
	return id, err
}

// GetByID retrieves a guideline
func (r *CareerGuidelineRepository) GetByID(ctx context.Context, id int64) (*models.CareerGuideline, error) {
	sql, args, err := r.sb.Select(guidelineColumns...).
		From("career_guidelines").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get guideline query: %w", err)
	}

	g, err := scanGuideline(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGuidelineNotFound
		}
		return nil, fmt.Errorf("error getting guideline: %w", err)
	}
	return g, nil
}

// List returns guidelines in display order
func (r *CareerGuidelineRepository) List(ctx context.Context, f ContentFilter) ([]*models.CareerGuideline, int64, error) {
	where := f.where()

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("career_guidelines").Where(where))
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := f.page(r.sb.Select(guidelineColumns...).
		From("career_guidelines").
		Where(where).
		OrderBy("display_order ASC", "created_at DESC")).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list guidelines query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list guidelines query")
		return nil, 0, fmt.Errorf("error querying guidelines: %w", err)
	}
	defer rows.Close()

	items := []*models.CareerGuideline{}
	for rows.Next() {
		g, err := scanGuideline(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning guideline row: %w", err)
		}
		items = append(items, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating guideline rows: %w", err)
	}
	return items, total, nil
}

// Update writes the full field set; replaced media is queued for removal
func (r *CareerGuidelineRepository) Update(ctx context.Context, g *models.CareerGuideline) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		old, err := lockMediaURLs(ctx, tx, "career_guidelines", g.ID, "thumbnail_url", "resource_url")
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrGuidelineNotFound
			}
			return fmt.Errorf("error locking guideline: %w", err)
		}

		sql, args, err := r.sb.Update("career_guidelines").
			SetMap(map[string]interface{}{
				"title":         g.Title,
				"summary":       g.Summary,
				"content":       g.Content,
				"category":      g.Category,
				"thumbnail_url": g.ThumbnailURL,
				"resource_url":  g.ResourceURL,
				"display_order": g.DisplayOrder,
				"is_active":     g.IsActive,
				"updated_at":    squirrel.Expr("NOW()"),
			}).
			Where(squirrel.Eq{"id": g.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update guideline query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("guidelineID", g.ID).Msg("Error executing update guideline query")
			return fmt.Errorf("error updating guideline: %w", err)
		}

		return enqueueMediaCleanup(ctx, tx, replacedURLs(old, []string{g.ThumbnailURL, g.ResourceURL})...)
	})
}

// Delete removes a guideline and queues its media for removal
func (r *CareerGuidelineRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		urls, err := deleteReturningMediaURLs(ctx, tx, "career_guidelines", id, "thumbnail_url", "resource_url")
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrGuidelineNotFound
			}
			logger.Error().Err(err).Int64("guidelineID", id).Msg("Error deleting guideline")
			return fmt.Errorf("error deleting guideline: %w", err)
		}
		return enqueueMediaCleanup(ctx, tx, urls...)
	})
}

// IncrementViews bumps the view counter of an active guideline and returns the new value
func (r *CareerGuidelineRepository) IncrementViews(ctx context.Context, id int64) (int64, error) {
	views, err := incrementCounter(ctx, r.db, "career_guidelines", "view_count", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrGuidelineNotFound
		}
		logger.Error().Err(err).Int64("guidelineID", id).Msg("Error incrementing guideline views")
		return 0, fmt.Errorf("error incrementing guideline views: %w", err)
	}
	return views, nil
}
