// Package journal keeps an append-only SQLite log of things the assistant
// did on its own: fired alerts and dispatched blog posts. It exists so a
// user who was away can ask what happened; losing it loses nothing but
// that audit trail, so every caller treats journal errors as best-effort.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Event kinds.
const (
	KindAlert = "alert"
	KindBlog  = "blog"
)

// Event is one recorded occurrence.
type Event struct {
	ID        int64
	Kind      string
	Detail    string
	CreatedAt time.Time
}

// Journal wraps the event log database.
type Journal struct {
	db *sql.DB
}

// Open creates or opens the journal database at dbPath.
func Open(dbPath string) (*Journal, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("journal db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", pragma, err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		kind       TEXT NOT NULL,
		detail     TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Record appends one event.
func (j *Journal) Record(kind, detail string) error {
	_, err := j.db.Exec(
		`INSERT INTO events (kind, detail, created_at) VALUES (?, ?, ?)`,
		kind, detail, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record %s event: %w", kind, err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (j *Journal) Recent(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.Query(
		`SELECT id, kind, detail, created_at FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var stamp string
		if err := rows.Scan(&e.ID, &e.Kind, &e.Detail, &stamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, stamp); err == nil {
			e.CreatedAt = t
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (j *Journal) Close() error {
	return j.db.Close()
}
