package repositories

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/clubsite/internal/app/models"
	"github.com/yigit/clubsite/internal/db"
	"github.com/yigit/clubsite/internal/pkg/logger"
)

// MediaCleanupRepository handles the queue of media files awaiting removal
type MediaCleanupRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewMediaCleanupRepository creates a new MediaCleanupRepository
func NewMediaCleanupRepository(conn db.DBTX) *MediaCleanupRepository {
	return &MediaCleanupRepository{
		db: conn,
		sb: psql,
	}
}

// Enqueue records urls outside of any row mutation, for uploads that were never stored
func (r *MediaCleanupRepository) Enqueue(ctx context.Context, urls ...string) error {
	return enqueueMediaCleanup(ctx, r.db, urls...)
}

// claimPendingSQL leases the oldest unclaimed tasks. SKIP LOCKED lets
// concurrent sweepers pass over rows another one is claiming.
const claimPendingSQL = `
UPDATE media_cleanup_queue
SET claimed_until = NOW() + make_interval(secs => $3)
WHERE id IN (
	SELECT id FROM media_cleanup_queue
	WHERE attempts < $1 AND (claimed_until IS NULL OR claimed_until < NOW())
	ORDER BY id ASC
	LIMIT $2
	FOR UPDATE SKIP LOCKED
)
RETURNING id, url, attempts, last_error, created_at`

// ClaimPending leases up to limit tasks that have not exhausted their attempts.
// A claimed task stays invisible to other sweepers until lease runs out.
func (r *MediaCleanupRepository) ClaimPending(ctx context.Context, maxAttempts, limit int, lease time.Duration) ([]*models.MediaCleanupTask, error) {
	rows, err := r.db.Query(ctx, claimPendingSQL, maxAttempts, limit, lease.Seconds())
	if err != nil {
		logger.Error().Err(err).Msg("Error claiming pending media tasks")
		return nil, fmt.Errorf("error claiming media cleanup tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*models.MediaCleanupTask{}
	for rows.Next() {
		t := &models.MediaCleanupTask{}
		if err := rows.Scan(&t.ID, &t.URL, &t.Attempts, &t.LastError, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning media cleanup row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error claiming media cleanup tasks: %w", err)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// Delete removes a finished task
func (r *MediaCleanupRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("media_cleanup_queue").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete media task query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting media task: %w", err)
	}
	return nil
}

// MarkFailed records a failed attempt and releases the claim
func (r *MediaCleanupRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	sql, args, err := r.sb.Update("media_cleanup_queue").
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", reason).
		Set("claimed_until", nil).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build media task failure query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error recording media task failure: %w", err)
	}
	return nil
}
