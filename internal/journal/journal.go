// Package journal persists run history in a local SQLite database so that
// "completed with failures" is visible after the process exits.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run statuses. A run left in "running" state means the process died before
// the walk finished.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusPartial   = "partial"
)

// Run is one recorded mirror run.
type Run struct {
	ID          string
	FolderID    string
	Destination string
	StartedAt   time.Time
	FinishedAt  time.Time // zero while the run is open
	Folders     int64
	Files       int64
	Bytes       int64
	Skipped     int64
	Failed      int64
	Status      string
}

// Item is one recorded item outcome within a run.
type Item struct {
	RunID      string
	Name       string
	Path       string
	Kind       string
	Status     string
	Size       int64
	Error      string
	RecordedAt time.Time
}

// Totals carries the final counters of a run.
type Totals struct {
	Folders int64
	Files   int64
	Bytes   int64
	Skipped int64
	Failed  int64
}

// Journal is a handle on the run history database.
type Journal struct {
	conn *sql.DB
}

// Open opens the journal database at path, creating it and its schema when
// missing.
func Open(path string) (*Journal, error) {
	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", path))
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}

	j := &Journal{conn: conn}
	if err := j.initialize(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.conn != nil {
		return j.conn.Close()
	}
	return nil
}

func (j *Journal) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		folder_id TEXT NOT NULL,
		destination TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER,
		folders INTEGER NOT NULL DEFAULT 0,
		files INTEGER NOT NULL DEFAULT 0,
		bytes INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

	CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		kind TEXT NOT NULL,
		status TEXT NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		recorded_at INTEGER NOT NULL,
		FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_items_run_id ON items(run_id);
	CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);
	`

	_, err := j.conn.Exec(schema)
	return err
}

// BeginRun records the start of a run.
func (j *Journal) BeginRun(runID, folderID, destination string) error {
	_, err := j.conn.Exec(
		`INSERT INTO runs (id, folder_id, destination, started_at, status) VALUES (?, ?, ?, ?, ?)`,
		runID, folderID, destination, time.Now().Unix(), StatusRunning)
	if err != nil {
		return fmt.Errorf("failed to record run start: %w", err)
	}
	return nil
}

// RecordItem appends one item outcome to its run.
func (j *Journal) RecordItem(item Item) error {
	_, err := j.conn.Exec(
		`INSERT INTO items (run_id, name, path, kind, status, size, error, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.RunID, item.Name, item.Path, item.Kind, item.Status, item.Size, item.Error, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record item %s: %w", item.Path, err)
	}
	return nil
}

// FinishRun closes out a run with its final counters and status.
func (j *Journal) FinishRun(runID, status string, totals Totals) error {
	_, err := j.conn.Exec(
		`UPDATE runs SET finished_at = ?, folders = ?, files = ?, bytes = ?, skipped = ?, failed = ?, status = ?
		 WHERE id = ?`,
		time.Now().Unix(), totals.Folders, totals.Files, totals.Bytes, totals.Skipped, totals.Failed, status, runID)
	if err != nil {
		return fmt.Errorf("failed to record run end: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (j *Journal) RecentRuns(limit int) ([]Run, error) {
	rows, err := j.conn.Query(
		`SELECT id, folder_id, destination, started_at, finished_at, folders, files, bytes, skipped, failed, status
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started int64
		var finished sql.NullInt64
		if err := rows.Scan(&r.ID, &r.FolderID, &r.Destination, &started, &finished,
			&r.Folders, &r.Files, &r.Bytes, &r.Skipped, &r.Failed, &r.Status); err != nil {
			return nil, err
		}
		r.StartedAt = time.Unix(started, 0)
		if finished.Valid {
			r.FinishedAt = time.Unix(finished.Int64, 0)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// FailedItems returns the failed items of one run in recording order.
func (j *Journal) FailedItems(runID string) ([]Item, error) {
	rows, err := j.conn.Query(
		`SELECT run_id, name, path, kind, status, size, error, recorded_at
		 FROM items WHERE run_id = ? AND status = 'failed' ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var recorded int64
		if err := rows.Scan(&it.RunID, &it.Name, &it.Path, &it.Kind, &it.Status, &it.Size, &it.Error, &recorded); err != nil {
			return nil, err
		}
		it.RecordedAt = time.Unix(recorded, 0)
		items = append(items, it)
	}
	return items, rows.Err()
}
