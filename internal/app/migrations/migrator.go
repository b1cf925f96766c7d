package migrations

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/clubsite/internal/db"
	"github.com/yigit/clubsite/internal/pkg/logger"
)

// advisoryLockID serialises migration runs across instances sharing one database
const advisoryLockID int64 = 0x636c7562

const createTrackingTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    VARCHAR(32) PRIMARY KEY,
	filename   TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Migrator applies numbered SQL files ("001_init.sql") once each
type Migrator struct {
	db db.DBTX
}

// NewMigrator creates a new migrator
func NewMigrator(conn db.DBTX) *Migrator {
	return &Migrator{db: conn}
}

// versionOf returns the numeric prefix of a migration file name
func versionOf(filename string) (string, error) {
	prefix, _, ok := strings.Cut(filename, "_")
	if !ok || prefix == "" || strings.Trim(prefix, "0123456789") != "" {
		return "", fmt.Errorf("migration %q must be named <number>_<description>.sql", filename)
	}
	return prefix, nil
}

// MigrateFromDirectory applies the pending *.sql files found in dirPath
func (m *Migrator) MigrateFromDirectory(ctx context.Context, dirPath string) error {
	info, err := os.Stat(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("migration path %s is not a directory", dirPath)
	}
	return m.Migrate(ctx, os.DirFS(dirPath))
}

// Migrate applies every pending migration in fsys in version order. Each file
// runs in its own transaction together with its tracking row.
func (m *Migrator) Migrate(ctx context.Context, fsys fs.FS) error {
	if _, err := m.db.Exec(ctx, createTrackingTable); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}

	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	seen := make(map[string]string, len(names))
	applied := 0
	for _, name := range names {
		version, err := versionOf(name)
		if err != nil {
			return err
		}
		if other, dup := seen[version]; dup {
			return fmt.Errorf("migrations %s and %s share version %s", other, name, version)
		}
		seen[version] = name

		ran, err := m.apply(ctx, fsys, name, version)
		if err != nil {
			return err
		}
		if ran {
			applied++
		}
	}

	logger.Info().Int("applied", applied).Int("total", len(names)).Msg("Migrations up to date")
	return nil
}

var errAlreadyApplied = errors.New("migration already applied")

func (m *Migrator) apply(ctx context.Context, fsys fs.FS, name, version string) (bool, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return false, fmt.Errorf("failed to read migration %s: %w", name, err)
	}

	err = db.WithTransaction(ctx, m.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockID); err != nil {
			return fmt.Errorf("failed to acquire migration lock: %w", err)
		}

		var done bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&done); err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if done {
			return errAlreadyApplied
		}

		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("migration %s failed: %w", name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, filename) VALUES ($1, $2)`, version, name); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}
		return nil
	})
	if errors.Is(err, errAlreadyApplied) {
		logger.Debug().Str("file", name).Msg("Migration already applied, skipping")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	logger.Info().Str("file", name).Msg("Migration applied")
	return true, nil
}
