package history

import (
	"log"
	"time"
)

// Recorder handles the session lifecycle of one host run
type Recorder struct {
	db      *DB
	session *Session
	dbPath  string
}

// NewRecorder opens the database at dbPath with driver
func NewRecorder(driver, dbPath string) (*Recorder, error) {
	db, err := OpenDB(driver, dbPath)
	if err != nil {
		return nil, err
	}

	return &Recorder{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// DB exposes the underlying database for queries
func (r *Recorder) DB() *DB {
	return r.db
}

// Path returns the database path
func (r *Recorder) Path() string {
	return r.dbPath
}

// StartSession creates a new session for host
func (r *Recorder) StartSession(host string) error {
	session, err := r.db.StartSession(host)
	if err != nil {
		return err
	}
	r.session = session
	return nil
}

// CurrentSession returns the active session
func (r *Recorder) CurrentSession() *Session {
	return r.session
}

// Record stores a settled selection and bumps the session counter
func (r *Recorder) Record(s Selection) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	if r.session != nil {
		s.SessionID = r.session.ID
	}
	if err := r.db.RecordSelection(&s); err != nil {
		return err
	}

	if r.session != nil {
		r.session.Selections++
		if err := r.db.UpdateSessionCounters(r.session); err != nil {
			log.Printf("Warning: failed to update session counters: %v", err)
		}
	}
	return nil
}

// Close completes the session and closes the database
func (r *Recorder) Close() error {
	if r.session != nil {
		if err := r.db.CompleteSession(r.session); err != nil {
			log.Printf("Warning: failed to complete session: %v", err)
		}
		r.session = nil
	}
	return r.db.Close()
}
