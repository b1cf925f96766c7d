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

// BoardRepository handles board category and board member database operations
type BoardRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(conn db.DBTX) *BoardRepository {
	return &BoardRepository{
		db: conn,
		sb: psql,
	}
}

// CreateCategory inserts a board category
func (r *BoardRepository) CreateCategory(ctx context.Context, c *models.BoardCategory) (int64, error) {
	var id int64
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if c.DisplayOrder <= 0 {
			next, err := nextDisplayOrder(ctx, tx, "board_categories")
			if err != nil {
				return err
			}
			c.DisplayOrder = next
		}

		sql, args, err := r.sb.Insert("board_categories").
			Columns("name", "display_order", "is_active").
			Values(c.Name, c.DisplayOrder, c.IsActive).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create board category query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			logger.Error().Err(err).Msg("Error executing create board category query")
			return fmt.Errorf("error creating board category: %w", err)
		}
		return nil
	})
	return id, err
}

// ListCategories returns categories in display order with their member count.
// With activeOnly only active categories and active members are considered.
func (r *BoardRepository) ListCategories(ctx context.Context, activeOnly bool) ([]*models.BoardCategory, error) {
	memberCount := "(SELECT COUNT(*) FROM board_members bm WHERE bm.category_id = bc.id) AS member_count"
	query := r.sb.Select("bc.id", "bc.name", "bc.display_order", "bc.is_active", "bc.created_at").
		From("board_categories bc").
		OrderBy("bc.display_order ASC", "bc.id ASC")
	if activeOnly {
		memberCount = "(SELECT COUNT(*) FROM board_members bm WHERE bm.category_id = bc.id AND bm.is_active = true) AS member_count"
		query = query.Where(squirrel.Eq{"bc.is_active": true})
	}
	query = query.Column(memberCount)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list board categories query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list board categories query")
		return nil, fmt.Errorf("error querying board categories: %w", err)
	}
	defer rows.Close()

	items := []*models.BoardCategory{}
	for rows.Next() {
		c := &models.BoardCategory{}
		if err := rows.Scan(&c.ID, &c.Name, &c.DisplayOrder, &c.IsActive, &c.CreatedAt, &c.MemberCount); err != nil {
			return nil, fmt.Errorf("error scanning board category row: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// UpdateCategory writes the full field set of a category
func (r *BoardRepository) UpdateCategory(ctx context.Context, c *models.BoardCategory) error {
	sql, args, err := r.sb.Update("board_categories").
		Set("name", c.Name).
		Set("display_order", c.DisplayOrder).
		Set("is_active", c.IsActive).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update board category query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("categoryID", c.ID).Msg("Error executing update board category query")
		return fmt.Errorf("error updating board category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrBoardCategoryNotFound
	}
	return nil
}

// GetCategory retrieves a category without its member count
func (r *BoardRepository) GetCategory(ctx context.Context, id int64) (*models.BoardCategory, error) {
	sql, args, err := r.sb.Select("id", "name", "display_order", "is_active", "created_at").
		From("board_categories").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get board category query: %w", err)
	}

	c := &models.BoardCategory{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Name, &c.DisplayOrder, &c.IsActive, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBoardCategoryNotFound
		}
		return nil, fmt.Errorf("error getting board category: %w", err)
	}
	return c, nil
}

// DeleteCategory removes a category unless members still reference it
func (r *BoardRepository) DeleteCategory(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		count, err := countRows(ctx, tx, r.sb.Select("COUNT(*)").From("board_members").Where(squirrel.Eq{"category_id": id}))
		if err != nil {
			return err
		}
		if count > 0 {
			return apperrors.NewConflictError(fmt.Sprintf("Cannot delete category with %d member(s)", count))
		}

		tag, err := tx.Exec(ctx, "DELETE FROM board_categories WHERE id = $1", id)
		if err != nil {
			if isForeignKeyError(err) {
				return apperrors.NewConflictError("Cannot delete category with members")
			}
			logger.Error().Err(err).Int64("categoryID", id).Msg("Error deleting board category")
			return fmt.Errorf("error deleting board category: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrBoardCategoryNotFound
		}
		return nil
	})
}

var boardMemberColumns = []string{
	"bm.id", "bm.category_id", "bm.name", "bm.position", "bm.photo_url", "bm.email",
	"bm.linkedin_url", "bm.bio", "bm.display_order", "bm.is_active", "bm.created_at",
	"bm.updated_at", "bc.name",
}

func scanBoardMember(row rowScanner) (*models.BoardMember, error) {
	m := &models.BoardMember{}
	err := row.Scan(&m.ID, &m.CategoryID, &m.Name, &m.Position, &m.PhotoURL, &m.Email,
		&m.LinkedInURL, &m.Bio, &m.DisplayOrder, &m.IsActive, &m.CreatedAt, &m.UpdatedAt, &m.CategoryName)
	return m, err
}

// CreateMember inserts a board member; the category must exist
func (r *BoardRepository) CreateMember(ctx context.Context, m *models.BoardMember) (int64, error) {
	var id int64
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if m.DisplayOrder <= 0 {
			next, err := nextDisplayOrder(ctx, tx, "board_members")
			if err != nil {
				return err
			}
			m.DisplayOrder = next
		}

		sql, args, err := r.sb.Insert("board_members").
			Columns("category_id", "name", "position", "photo_url", "email", "linkedin_url",
				"bio", "display_order", "is_active").
			Values(m.CategoryID, m.Name, m.Position, m.PhotoURL, m.Email, m.LinkedInURL,
				m.Bio, m.DisplayOrder, m.IsActive).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create board member query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			if isForeignKeyError(err) {
				return apperrors.ErrBoardCategoryNotFound
			}
			logger.Error().Err(err).Msg("Error executing create board member query")
			return fmt.Errorf("error creating board member: %w", err)
		}
		return nil
	})
	return id, err
}

// GetMember retrieves a board member with its category name
func (r *BoardRepository) GetMember(ctx context.Context, id int64) (*models.BoardMember, error) {
	sql, args, err := r.sb.Select(boardMemberColumns...).
		From("board_members bm").
		Join("board_categories bc ON bc.id = bm.category_id").
		Where(squirrel.Eq{"bm.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get board member query: %w", err)
	}

	m, err := scanBoardMember(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBoardMemberNotFound
		}
		logger.Error().Err(err).Int64("memberID", id).Msg("Error scanning board member row")
		return nil, fmt.Errorf("error getting board member: %w", err)
	}
	return m, nil
}

// ListMembers returns members in display order. An empty categoryIDs slice
// means every category.
func (r *BoardRepository) ListMembers(ctx context.Context, categoryIDs []int64, activeOnly bool) ([]*models.BoardMember, error) {
	query := r.sb.Select(boardMemberColumns...).
		From("board_members bm").
		Join("board_categories bc ON bc.id = bm.category_id").
		OrderBy("bm.category_id", "bm.display_order ASC", "bm.id ASC")
	if len(categoryIDs) > 0 {
		query = query.Where(squirrel.Eq{"bm.category_id": categoryIDs})
	}
	if activeOnly {
		query = query.Where(squirrel.Eq{"bm.is_active": true})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list board members query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list board members query")
		return nil, fmt.Errorf("error querying board members: %w", err)
	}
	defer rows.Close()

	items := []*models.BoardMember{}
	for rows.Next() {
		m, err := scanBoardMember(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning board member row: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// UpdateMember writes the full field set of a member; a replaced photo is queued for removal
func (r *BoardRepository) UpdateMember(ctx context.Context, m *models.BoardMember) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var oldPhoto string
		err := tx.QueryRow(ctx, "SELECT photo_url FROM board_members WHERE id = $1 FOR UPDATE", m.ID).Scan(&oldPhoto)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrBoardMemberNotFound
			}
			return fmt.Errorf("error locking board member: %w", err)
		}

		sql, args, err := r.sb.Update("board_members").
			SetMap(map[string]interface{}{
				"category_id":   m.CategoryID,
				"name":          m.Name,
				"position":      m.Position,
				"photo_url":     m.PhotoURL,
				"email":         m.Email,
				"linkedin_url":  m.LinkedInURL,
				"bio":           m.Bio,
				"display_order": m.DisplayOrder,
				"is_active":     m.IsActive,
				"updated_at":    squirrel.Expr("NOW()"),
			}).
			Where(squirrel.Eq{"id": m.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update board member query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if isForeignKeyError(err) {
				return apperrors.ErrBoardCategoryNotFound
			}
			logger.Error().Err(err).Int64("memberID", m.ID).Msg("Error executing update board member query")
			return fmt.Errorf("error updating board member: %w", err)
		}

		return enqueueMediaCleanup(ctx, tx, replacedURLs([]string{oldPhoto}, []string{m.PhotoURL})...)
	})
}

// DeleteMember removes a member and queues its photo for removal
func (r *BoardRepository) DeleteMember(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var photo string
		if err := tx.QueryRow(ctx, "DELETE FROM board_members WHERE id = $1 RETURNING photo_url", id).Scan(&photo); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrBoardMemberNotFound
			}
			logger.Error().Err(err).Int64("memberID", id).Msg("Error deleting board member")
			return fmt.Errorf("error deleting board member: %w", err)
		}
		return enqueueMediaCleanup(ctx, tx, photo)
	})
}
