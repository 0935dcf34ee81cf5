package database

import "errors"

var (
	// ErrPathRequired is returned by Open when no database path is configured.
	ErrPathRequired = errors.New("database: path is required")

	// ErrMigrationFailed wraps the failure of a single schema migration.
	ErrMigrationFailed = errors.New("database: migration failed")
)
