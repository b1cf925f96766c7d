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

var cvTemplateColumns = []string{
	"id", "title", "description", "category", "file_url", "thumbnail_url",
	"download_count", "display_order", "is_active", "created_at", "updated_at",
}

// CVTemplateRepository handles CV template database operations
type CVTemplateRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewCVTemplateRepository creates a new CVTemplateRepository
func NewCVTemplateRepository(conn db.DBTX) *CVTemplateRepository {
	return &CVTemplateRepository{
		db: conn,
		sb: psql,
	}
}

func scanCVTemplate(row rowScanner) (*models.CVTemplate, error) {
	t := &models.CVTemplate{}
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.FileURL, &t.ThumbnailURL,
		&t.DownloadCount, &t.DisplayOrder, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Create inserts a CV template
func (r *CVTemplateRepository) Create(ctx context.Context, t *models.CVTemplate) (int64, error) {
	var id int64
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if t.DisplayOrder <= 0 {
			next, err := nextDisplayOrder(ctx, tx, "cv_templates")
			if err != nil {
				return err
			}
			t.DisplayOrder = next
		}

		sql, args, err := r.sb.Insert("cv_templates").
			Columns("title", "description", "category", "file_url", "thumbnail_url", "display_order", "is_active").
			Values(t.Title, t.Description, t.Category, t.FileURL, t.ThumbnailURL, t.DisplayOrder, t.IsActive).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create cv template query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			logger.Error().Err(err).Msg("Error executing create cv template query")
			return fmt.Errorf("error creating cv template: %w", err)
		}
		return nil
	})
	return id, err
}

// GetByID retrieves a CV template
func (r *CVTemplateRepository) GetByID(ctx context.Context, id int64) (*models.CVTemplate, error) {
	sql, args, err := r.sb.Select(cvTemplateColumns...).
		From("cv_templates").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get cv template query: %w", err)
	}

	t, err := scanCVTemplate(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCVTemplateNotFound
		}
		return nil, fmt.Errorf("error getting cv template: %w", err)
	}
	return t, nil
}

// List returns CV templates in display order
func (r *CVTemplateRepository) List(ctx context.Context, f ContentFilter) ([]*models.CVTemplate, int64, error) {
	where := f.where()

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("cv_templates").Where(where))
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := f.page(r.sb.Select(cvTemplateColumns...).
		From("cv_templates").
		Where(where).
		OrderBy("display_order ASC", "created_at DESC")).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list cv templates query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list cv templates query")
		return nil, 0, fmt.Errorf("error querying cv templates: %w", err)
	}
	defer rows.Close()

	items := []*models.CVTemplate{}
	for rows.Next() {
		t, err := scanCVTemplate(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning cv template row: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating cv template rows: %w", err)
	}
	return items, total, nil
}

// Update writes the full field set; replaced files are queued for removal
func (r *CVTemplateRepository) Update(ctx context.Context, t *models.CVTemplate) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		old, err := lockMediaURLs(ctx, tx, "cv_templates", t.ID, "file_url", "thumbnail_url")
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrCVTemplateNotFound
			}
			return fmt.Errorf("error locking cv template: %w", err)
		}

		sql, args, err := r.sb.Update("cv_templates").
			SetMap(map[string]interface{}{
				"title":         t.Title,
				"description":   t.Description,
				"category":      t.Category,
				"file_url":      t.FileURL,
				"thumbnail_url": t.ThumbnailURL,
				"display_order": t.DisplayOrder,
				"is_active":     t.IsActive,
				"updated_at":    squirrel.Expr("NOW()"),
			}).
			Where(squirrel.Eq{"id": t.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update cv template query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("templateID", t.ID).Msg("Error executing update cv template query")
			return fmt.Errorf("error updating cv template: %w", err)
		}

		return enqueueMediaCleanup(ctx, tx, replacedURLs(old, []string{t.FileURL, t.ThumbnailURL})...)
	})
}

// Delete removes a CV template and queues its files for removal
func (r *CVTemplateRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		urls, err := deleteReturningMediaURLs(ctx, tx, "cv_templates", id, "file_url", "thumbnail_url")
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrCVTemplateNotFound
			}
			logger.Error().Err(err).Int64("templateID", id).Msg("Error deleting cv template")
			return fmt.Errorf("error deleting cv template: %w", err)
		}
		return enqueueMediaCleanup(ctx, tx, urls...)
	})
}

// IncrementDownloads bumps the download counter of an active template and
// returns the new value with the file to download
func (r *CVTemplateRepository) IncrementDownloads(ctx context.Context, id int64) (int64, string, error) {
	sql, args, err := r.sb.Update("cv_templates").
		Set("download_count", squirrel.Expr("download_count + 1")).
		Where(squirrel.Eq{"id": id, "is_active": true}).
		Suffix("RETURNING download_count, file_url").
		ToSql()
	if err != nil {
		return 0, "", fmt.Errorf("failed to build download counter query: %w", err)
	}

	var (
		downloads int64
		fileURL   string
	)
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&downloads, &fileURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, "", apperrors.ErrCVTemplateNotFound
		}
		logger.Error().Err(err).Int64("templateID", id).Msg("Error incrementing cv template downloads")
		return 0, "", fmt.Errorf("error incrementing cv template downloads: %w", err)
	}
	return downloads, fileURL, nil
}
