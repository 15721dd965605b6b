// Package journal records applied flow operations (document created,
// promoted, repaired) in an append-only SQLite log under the logics/
// tree.
//
// The journal is strictly supplementary: scans and flow operations never
// consult it, and a failed insert never fails the operation that produced
// it. The Markdown tree stays the single source of truth; the journal
// feeds the metrics and changelog workflows.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow is a package-level var for testability.
var timeNow = time.Now

// DefaultFile is the journal location relative to the repository root.
const DefaultFile = "logics/.journal.db"

// Event is one recorded flow operation.
type Event struct {
	ID     int64  `json:"id"`
	At     string `json:"at"` // RFC3339 UTC
	Op     string `json:"op"` // new | promote | fix | set | link
	Ref    string `json:"ref"`
	Detail string `json:"detail,omitempty"`
}

// Journal is the SQLite-backed activity log.
type Journal struct {
	db *sql.DB
}

// Open creates or opens the journal database, running migrations.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			at     TEXT NOT NULL,
			op     TEXT NOT NULL,
			ref    TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_events_ref ON events(ref);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// OpenAt opens the journal at its default location under a repository root.
func OpenAt(root string) (*Journal, error) {
	return Open(filepath.Join(root, filepath.FromSlash(DefaultFile)))
}

// Close releases the database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends one event.
func (j *Journal) Record(op, ref, detail string) error {
	at := timeNow().UTC().Format(time.RFC3339)
	if _, err := j.db.Exec(
		`INSERT INTO events (at, op, ref, detail) VALUES (?, ?, ?, ?)`,
		at, op, ref, detail,
	); err != nil {
		return fmt.Errorf("recording %s event for %s: %w", op, ref, err)
	}
	return nil
}

// Recent returns the newest events, most recent first.
func (j *Journal) Recent(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.Query(
		`SELECT id, at, op, ref, detail FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.At, &e.Op, &e.Ref, &e.Detail); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// History returns every event touching one doc_ref, oldest first.
func (j *Journal) History(ref string) ([]Event, error) {
	rows, err := j.db.Query(
		`SELECT id, at, op, ref, detail FROM events WHERE ref = ? ORDER BY id ASC`, ref)
	if err != nil {
		return nil, fmt.Errorf("querying history for %s: %w", ref, err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.At, &e.Op, &e.Ref, &e.Detail); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
