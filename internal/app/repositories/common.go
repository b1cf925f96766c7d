package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/clubsite/internal/db"
)

// psql builds statements with PostgreSQL placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation error.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation error.
func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// nextDisplayOrder returns MAX(display_order)+1 for table, or 1 when it is empty.
// It must run inside the insert transaction; the advisory lock serialises
// concurrent creators of the same table until that transaction ends.
func nextDisplayOrder(ctx context.Context, q db.DBTX, table string) (int, error) {
	if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", table); err != nil {
		return 0, fmt.Errorf("failed to lock display order of %s: %w", table, err)
	}

	sql, args, err := psql.Select("COALESCE(MAX(display_order), 0) + 1").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build display order query: %w", err)
	}

	var next int
	if err := q.QueryRow(ctx, sql, args...).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to compute display order of %s: %w", table, err)
	}
	return next, nil
}

// enqueueMediaCleanup records media URLs whose owning row is gone or no longer
// points at them. Empty URLs are skipped.
func enqueueMediaCleanup(ctx context.Context, q db.DBTX, urls ...string) error {
	insert := psql.Insert("media_cleanup_queue").Columns("url")
	n := 0
	for _, u := range urls {
		if u == "" {
			continue
		}
		insert = insert.Values(u)
		n++
	}
	if n == 0 {
		return nil
	}

	sql, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build media cleanup insert: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to enqueue media cleanup: %w", err)
	}
	return nil
}

// replacedURLs returns the entries of old that differ from their counterpart in current
func replacedURLs(old, current []string) []string {
	var out []string
	for i, u := range old {
		if u != "" && (i >= len(current) || current[i] != u) {
			out = append(out, u)
		}
	}
	return out
}

// incrementCounter bumps column on an active row and returns the new value
func incrementCounter(ctx context.Context, q db.DBTX, table, column string, id int64) (int64, error) {
	sql, args, err := psql.Update(table).
		Set(column, squirrel.Expr(column+" + 1")).
		Where(squirrel.Eq{"id": id, "is_active": true}).
		Suffix("RETURNING " + column).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build counter update: %w", err)
	}

	var value int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

// countRows runs a COUNT(*) select
func countRows(ctx context.Context, q db.DBTX, query squirrel.SelectBuilder) (int64, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return total, nil
}

// lockMediaURLs locks row id of table and returns its media columns. pgx.ErrNoRows
// is returned unchanged so callers can map it to their not-found error.
func lockMediaURLs(ctx context.Context, q db.DBTX, table string, id int64, columns ...string) ([]string, error) {
	sql, args, err := psql.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build lock query: %w", err)
	}
	return scanURLs(q.QueryRow(ctx, sql, args...), len(columns))
}

// deleteReturningMediaURLs deletes row id of table and returns its media columns
func deleteReturningMediaURLs(ctx context.Context, q db.DBTX, table string, id int64, columns ...string) ([]string, error) {
	sql, args, err := psql.Delete(table).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build delete query: %w", err)
	}
	return scanURLs(q.QueryRow(ctx, sql, args...), len(columns))
}

func scanURLs(row rowScanner, n int) ([]string, error) {
	urls := make([]string, n)
	dest := make([]any, n)
	for i := range urls {
		dest[i] = &urls[i]
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return urls, nil
}
