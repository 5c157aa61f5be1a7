// Package history records the distances picked with the ruler in a SQLite
// database and summarizes them.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Drivers accepted by OpenDB.
const (
	DriverCGO  = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPure = "sqlite"  // modernc.org/sqlite
)

// Selection is one settled pick.
type Selection struct {
	ID        int64
	Meters    float64 // 0 when Unbounded
	Unbounded bool    // the ∞ mark, "no radius"
	Label     string
	MarkIndex int
	Metric    bool
	Source    string
	SessionID int64
	CreatedAt time.Time
}

// Session groups the selections of one run of a host.
type Session struct {
	ID          int64
	Host        string
	StartedAt   time.Time
	CompletedAt *time.Time
	Selections  int
}

// DB handles history persistence
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the history database at the given path
func OpenDB(driver, dbPath string) (*DB, error) {
	switch driver {
	case DriverCGO, DriverPure:
	case "":
		driver = DriverPure
	default:
		return nil, fmt.Errorf("unknown sqlite driver %q", driver)
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open(driver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	hdb := &DB{db: db}
	if err := hdb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS selections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL DEFAULT 0,
		meters REAL NOT NULL,
		unbounded INTEGER NOT NULL DEFAULT 0,
		label TEXT NOT NULL,
		mark_index INTEGER NOT NULL,
		metric INTEGER NOT NULL,
		source TEXT DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_selections_session ON selections(session_id);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		host TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		completed_at DATETIME,
		selections INTEGER DEFAULT 0
	);
	`

	_, err := d.db.Exec(schema)
	return err
}

// RecordSelection inserts a new selection
func (d *DB) RecordSelection(s *Selection) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	meters := s.Meters
	if s.Unbounded {
		meters = 0
	}
	result, err := d.db.Exec(`
		INSERT INTO selections (session_id, meters, unbounded, label, mark_index, metric, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.SessionID, meters, s.Unbounded, s.Label, s.MarkIndex, s.Metric, s.Source, s.CreatedAt.UTC())
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	s.Meters = meters
	return nil
}

// Recent returns the latest selections, newest first. limit <= 0 returns
// all of them.
func (d *DB) Recent(limit int) ([]Selection, error) {
	query := `
		SELECT id, session_id, meters, unbounded, label, mark_index, metric, source, created_at
		FROM selections
		ORDER BY id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var selections []Selection
	for rows.Next() {
		var s Selection
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Meters, &s.Unbounded, &s.Label, &s.MarkIndex, &s.Metric, &s.Source, &s.CreatedAt); err != nil {
			return nil, err
		}
		selections = append(selections, s)
	}
	return selections, rows.Err()
}

// SelectionsForSession returns the selections of one session, oldest first
func (d *DB) SelectionsForSession(sessionID int64) ([]Selection, error) {
	rows, err := d.db.Query(`
		SELECT id, session_id, meters, unbounded, label, mark_index, metric, source, created_at
		FROM selections
		WHERE session_id = ?
		ORDER BY id ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var selections []Selection
	for rows.Next() {
		var s Selection
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Meters, &s.Unbounded, &s.Label, &s.MarkIndex, &s.Metric, &s.Source, &s.CreatedAt); err != nil {
			return nil, err
		}
		selections = append(selections, s)
	}
	return selections, rows.Err()
}

// Clear deletes every selection and session.
func (d *DB) Clear() error {
	_, err := d.db.Exec(`DELETE FROM selections; DELETE FROM sessions;`)
	return err
}

// StartSession creates a new session
func (d *DB) StartSession(host string) (*Session, error) {
	now := time.Now().UTC()
	result, err := d.db.Exec(`
		INSERT INTO sessions (host, started_at)
		VALUES (?, ?)
	`, host, now)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &Session{
		ID:        id,
		Host:      host,
		StartedAt: now,
	}, nil
}

// UpdateSessionCounters updates the selection counter for a session
func (d *DB) UpdateSessionCounters(session *Session) error {
	_, err := d.db.Exec(`
		UPDATE sessions
		SET selections = ?
		WHERE id = ?
	`, session.Selections, session.ID)
	return err
}

// CompleteSession marks a session as complete
func (d *DB) CompleteSession(session *Session) error {
	now := time.Now().UTC()
	session.CompletedAt = &now
	_, err := d.db.Exec(`
		UPDATE sessions
		SET completed_at = ?, selections = ?
		WHERE id = ?
	`, now, session.Selections, session.ID)
	return err
}

// GetSession retrieves a session by ID
func (d *DB) GetSession(id int64) (*Session, error) {
	var s Session
	var completedAt sql.NullTime
	err := d.db.QueryRow(`
		SELECT id, host, started_at, completed_at, selections
		FROM sessions
		WHERE id = ?
	`, id).Scan(&s.ID, &s.Host, &s.StartedAt, &completedAt, &s.Selections)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		s.CompletedAt = &completedAt.Time
	}
	return &s, nil
}
