// Package store persists alarm definitions and user profiles in SQLite.
// The scheduling engine reads snapshots from here at scheduling time; it
// never owns persistence itself.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store manages all SQLite operations. WAL mode plus a generous
// busy_timeout keeps the UI thread and timer callbacks from tripping over
// each other's writes.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path and initializes the schema.
func New(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(2)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id          TEXT PRIMARY KEY,
		email       TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL DEFAULT '',
		picture_url TEXT NOT NULL DEFAULT '',
		health      INTEGER NOT NULL DEFAULT 100,
		created_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS alarms (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL REFERENCES profiles(id),
		label           TEXT NOT NULL DEFAULT '',
		hour            INTEGER NOT NULL DEFAULT 0,
		minute          INTEGER NOT NULL DEFAULT 0,
		weekdays        TEXT NOT NULL DEFAULT '',
		fire_at         TEXT NOT NULL DEFAULT '',
		enabled         INTEGER NOT NULL DEFAULT 1,
		sound           TEXT NOT NULL DEFAULT 'default',
		vibrate         INTEGER NOT NULL DEFAULT 0,
		gradual_volume  INTEGER NOT NULL DEFAULT 0,
		snooze_enabled  INTEGER NOT NULL DEFAULT 1,
		snooze_minutes  INTEGER NOT NULL DEFAULT 10,
		snooze_behavior TEXT NOT NULL DEFAULT 'repeat',
		weather_alert   INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_alarms_user ON alarms(user_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// retryOnContention wraps write operations with the transient-error retry
// from retry.go.
func retryOnContention(fn func() error) error {
	return retryOp(defaultRetryConfig, fn)
}
