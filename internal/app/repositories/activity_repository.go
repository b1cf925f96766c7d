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

var activityColumns = []string{
	"id", "title", "description", "category", "activity_date", "location",
	"cover_image_url", "is_active", "display_order", "created_at", "updated_at",
}

// ActivityRepository handles activity and activity image database operations
type ActivityRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(conn db.DBTX) *ActivityRepository {
	return &ActivityRepository{
		db: conn,
		sb: psql,
	}
}

func scanActivity(row rowScanner) (*models.Activity, error) {
	a := &models.Activity{}
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Category, &a.ActivityDate, &a.Location,
		&a.CoverImageURL, &a.IsActive, &a.DisplayOrder, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Create inserts an activity together with its images in one transaction
func (r *ActivityRepository) Create(ctx context.Context, a *models.Activity, images []*models.ActivityImage) (int64, error) {
	var id int64
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if a.DisplayOrder <= 0 {
			next, err := nextDisplayOrder(ctx, tx, "activities")
			if err != nil {
				return err
			}
			a.DisplayOrder = next
		}

		sql, args, err := r.sb.Insert("activities").
			Columns("title", "description", "category", "activity_date", "location",
				"cover_image_url", "is_active", "display_order").
			Values(a.Title, a.Description, a.Category, a.ActivityDate, a.Location,
				a.CoverImageURL, a.IsActive, a.DisplayOrder).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create activity query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			logger.Error().Err(err).Msg("Error executing create activity query")
			return fmt.Errorf("error creating activity: %w", err)
		}

		return r.insertImages(ctx, tx, id, 1, images)
	})
	if err != nil {
		return 0, err
	}
	a.ID = id
	return id, nil
}

// insertImages writes images for activityID numbering them from firstOrder
func (r *ActivityRepository) insertImages(ctx context.Context, q db.DBTX, activityID int64, firstOrder int, images []*models.ActivityImage) error {
	if len(images) == 0 {
		return nil
	}

	insert := r.sb.Insert("activity_images").Columns("activity_id", "image_url", "caption", "display_order")
	for i, img := range images {
		img.ActivityID = activityID
		img.DisplayOrder = firstOrder + i
		insert = insert.Values(activityID, img.ImageURL, img.Caption, img.DisplayOrder)
	}

	sql, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert activity images query: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("activityID", activityID).Msg("Error inserting activity images")
		return fmt.Errorf("error inserting activity images: %w", err)
	}
	return nil
}

// GetByID retrieves an activity and its images
func (r *ActivityRepository) GetByID(ctx context.Context, id int64, activeOnly bool) (*models.Activity, error) {
	where := squirrel.Eq{"id": id}
	if activeOnly {
		where["is_active"] = true
	}

	sql, args, err := r.sb.Select(activityColumns...).From("activities").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get activity query: %w", err)
	}

	a, err := scanActivity(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrActivityNotFound
		}
		logger.Error().Err(err).Int64("activityID", id).Msg("Error scanning activity row")
		return nil, fmt.Errorf("error getting activity: %w", err)
	}

	if err := r.attachImages(ctx, []*models.Activity{a}); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *ActivityRepository) filter(f models.ActivityFilter) squirrel.And {
	where := squirrel.And{}
	if f.ActiveOnly {
		where = append(where, squirrel.Eq{"is_active": true})
	}
	if f.Category != "" {
		where = append(where, squirrel.Eq{"category": f.Category})
	}
	if f.Year > 0 {
		where = append(where, squirrel.Expr("EXTRACT(YEAR FROM activity_date) = ?", f.Year))
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"description": pattern},
			squirrel.ILike{"location": pattern},
		})
	}
	return where
}

// List returns one page of activities, most recent first, with their images
func (r *ActivityRepository) List(ctx context.Context, f models.ActivityFilter) ([]*models.Activity, int64, error) {
	where := r.filter(f)

	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("activities").Where(where))
	if err != nil {
		return nil, 0, err
	}

	query := r.sb.Select(activityColumns...).
		From("activities").
		Where(where).
		OrderBy("activity_date DESC", "display_order ASC", "id DESC").
		Offset(f.Offset)
	if f.Limit > 0 {
		query = query.Limit(uint64(f.Limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list activities query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list activities query")
		return nil, 0, fmt.Errorf("error querying activities: %w", err)
	}
	defer rows.Close()

	items := []*models.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning activity row: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating activity rows: %w", err)
	}
	rows.Close()

	if err := r.attachImages(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// attachImages loads the images of every activity with a single IN query
func (r *ActivityRepository) attachImages(ctx context.Context, activities []*models.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Activity, len(activities))
	ids := make([]int64, 0, len(activities))
	for _, a := range activities {
		a.Images = []*models.ActivityImage{}
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}

	sql, args, err := r.sb.Select("id", "activity_id", "image_url", "caption", "display_order", "created_at").
		From("activity_images").
		Where(squirrel.Eq{"activity_id": ids}).
		OrderBy("activity_id", "display_order ASC", "id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build activity images query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing activity images query")
		return fmt.Errorf("error querying activity images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		img := &models.ActivityImage{}
		if err := rows.Scan(&img.ID, &img.ActivityID, &img.ImageURL, &img.Caption, &img.DisplayOrder, &img.CreatedAt); err != nil {
			return fmt.Errorf("error scanning activity image row: %w", err)
		}
		if a, ok := byID[img.ActivityID]; ok {
			a.Images = append(a.Images, img)
		}
	}
	return rows.Err()
}

// Categories returns the distinct activity categories in alphabetical order
func (r *ActivityRepository) Categories(ctx context.Context, activeOnly bool) ([]string, error) {
	query := r.sb.Select("DISTINCT category").From("activities").OrderBy("category")
	if activeOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build activity categories query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing activity categories query")
		return nil, fmt.Errorf("error querying activity categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("error scanning activity category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Update writes the full field set of an activity. A replaced cover image is
// queued for removal in the same transaction.
func (r *ActivityRepository) Update(ctx context.Context, a *models.Activity) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var oldCover string
		err := tx.QueryRow(ctx, "SELECT cover_image_url FROM activities WHERE id = $1 FOR UPDATE", a.ID).Scan(&oldCover)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrActivityNotFound
			}
			return fmt.Errorf("error locking activity: %w", err)
		}

		sql, args, err := r.sb.Update("activities").
			SetMap(map[string]interface{}{
				"title":           a.Title,
				"description":     a.Description,
				"category":        a.Category,
				"activity_date":   a.ActivityDate,
				"location":        a.Location,
				"cover_image_url": a.CoverImageURL,
				"is_active":       a.IsActive,
				"display_order":   a.DisplayOrder,
				"updated_at":      squirrel.Expr("NOW()"),
			}).
			Where(squirrel.Eq{"id": a.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update activity query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("activityID", a.ID).Msg("Error executing update activity query")
			return fmt.Errorf("error updating activity: %w", err)
		}

		return enqueueMediaCleanup(ctx, tx, replacedURLs([]string{oldCover}, []string{a.CoverImageURL})...)
	})
}

// AddImages appends images after the existing ones of an activity
func (r *ActivityRepository) AddImages(ctx context.Context, activityID int64, images []*models.ActivityImage) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, "SELECT id FROM activities WHERE id = $1 FOR UPDATE", activityID).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrActivityNotFound
			}
			return fmt.Errorf("error locking activity: %w", err)
		}

		var next int
		if err := tx.QueryRow(ctx,
			"SELECT COALESCE(MAX(display_order), 0) + 1 FROM activity_images WHERE activity_id = $1",
			activityID).Scan(&next); err != nil {
			return fmt.Errorf("error computing image order: %w", err)
		}

		return r.insertImages(ctx, tx, activityID, next, images)
	})
}

// DeleteImage removes one image of an activity and queues its file for removal
func (r *ActivityRepository) DeleteImage(ctx context.Context, activityID, imageID int64) error {
	sql, args, err := r.sb.Delete("activity_images").
		Where(squirrel.Eq{"id": imageID, "activity_id": activityID}).
		Suffix("RETURNING image_url").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete activity image query: %w", err)
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var url string
		if err := tx.QueryRow(ctx, sql, args...).Scan(&url); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrActivityImageNotFound
			}
			logger.Error().Err(err).Int64("imageID", imageID).Msg("Error deleting activity image")
			return fmt.Errorf("error deleting activity image: %w", err)
		}
		return enqueueMediaCleanup(ctx, tx, url)
	})
}

// Delete removes the images and then the activity in one transaction and
// queues every referenced file for removal
func (r *ActivityRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, "DELETE FROM activity_images WHERE activity_id = $1 RETURNING image_url", id)
		if err != nil {
			logger.Error().Err(err).Int64("activityID", id).Msg("Error deleting activity images")
			return fmt.Errorf("error deleting activity images: %w", err)
		}
		var urls []string
		for rows.Next() {
			var u string
			if err := rows.Scan(&u); err != nil {
				rows.Close()
				return fmt.Errorf("error scanning deleted image url: %w", err)
			}
			urls = append(urls, u)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error deleting activity images: %w", err)
		}

		var cover string
		if err := tx.QueryRow(ctx, "DELETE FROM activities WHERE id = $1 RETURNING cover_image_url", id).Scan(&cover); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrActivityNotFound
			}
			logger.Error().Err(err).Int64("activityID", id).Msg("Error deleting activity")
			return fmt.Errorf("error deleting activity: %w", err)
		}

		return enqueueMediaCleanup(ctx, tx, append(urls, cover)...)
	})
}
