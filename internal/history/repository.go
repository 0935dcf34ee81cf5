package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-home/internal/hal"
	"github.com/nerrad567/gray-logic-home/internal/homecontrol"
)

const (
	// DefaultLimit is used when Recent is called with a non-positive limit.
	DefaultLimit = 50

	// MaxLimit caps the number of rows Recent returns.
	MaxLimit = 200
)

// Entry is one stored event.
type Entry struct {
	ID           int64                 `json:"id"`
	SessionID    string                `json:"session_id"`
	Kind         homecontrol.EventKind `json:"kind"`
	Line         hal.Line              `json:"line,omitempty"`
	Active       bool                  `json:"active"`
	TemperatureC int                   `json:"temperature_c"`
	UptimeMS     int64                 `json:"uptime_ms"`
	Rule         string                `json:"rule,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

// Repository stores events in the event_history table.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repository on an open, migrated database.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Record inserts one event.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - sessionID: Identifier of the controller process run
//   - ev: Event to persist; a zero Timestamp is replaced with the current time
//
// Returns:
//   - error: ErrSessionRequired, or the underlying database error
func (r *Repository) Record(ctx context.Context, sessionID string, ev homecontrol.Event) error {
	if sessionID == "" {
		return ErrSessionRequired
	}

	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_history
		 (session_id, kind, line, active, temperature_c, uptime_ms, rule, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID,
		string(ev.Kind),
		string(ev.Line),
		boolToInt(ev.Active),
		ev.TemperatureC,
		ev.UptimeMS,
		ev.Rule,
		ts.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting event history: %w", err)
	}
	return nil
}

// Recent returns the newest events first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - limit: Maximum entries (default 50, max 200)
//
// Returns:
//   - []Entry: Entries ordered newest first
//   - error: nil on success, otherwise the underlying query error
func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, kind, line, active, temperature_c, uptime_ms, rule, created_at
		 FROM event_history
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying event history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			entry     Entry
			kind      string
			line      string
			active    int
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &entry.SessionID, &kind, &line, &active,
			&entry.TemperatureC, &entry.UptimeMS, &entry.Rule, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning event history: %w", err)
		}

		entry.Kind = homecontrol.EventKind(kind)
		entry.Line = hal.Line(line)
		entry.Active = active != 0

		ts, err := parseTimestamp(createdAt)
		if err != nil {
			return nil, err
		}
		entry.CreatedAt = ts

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating event history: %w", err)
	}
	return entries, nil
}

// Prune deletes events older than olderThan and returns the number removed.
func (r *Repository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, ErrInvalidRetention
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM event_history WHERE created_at < ?",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting event history: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("created_at is empty")
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return ts, nil
}
