package database

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// upSuffix marks a schema file. Versions sort lexically by file name, so
// names start with a UTC timestamp: 20260301_090000_event_history.up.sql.
const upSuffix = ".up.sql"

// Migrate applies every *.up.sql file at the root of fsys that is not yet
// recorded in schema_migrations, oldest first, each in its own transaction.
//
// Returns the versions applied by this call.
func (db *DB) Migrate(ctx context.Context, fsys fs.FS) ([]string, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL
	) STRICT`); err != nil {
		return nil, fmt.Errorf("creating schema_migrations: %w", err)
	}

	names, err := fs.Glob(fsys, "*"+upSuffix)
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}
	sort.Strings(names)

	done, err := db.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, name := range names {
		version := strings.TrimSuffix(path.Base(name), upSuffix)
		if done[version] {
			continue
		}
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return applied, fmt.Errorf("reading %s: %w", name, err)
		}
		if err := db.apply(ctx, version, string(body)); err != nil {
			return applied, err
		}
		applied = append(applied, version)
	}
	return applied, nil
}

func (db *DB) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("reading schema_migrations: %w", err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning schema_migrations: %w", err)
		}
		done[v] = true
	}
	return done, rows.Err()
}

// apply runs one migration and records it atomically.
func (db *DB) apply(ctx context.Context, version, body string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMigrationFailed, version, err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after Commit

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMigrationFailed, version, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
		version, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMigrationFailed, version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMigrationFailed, version, err)
	}
	return nil
}
