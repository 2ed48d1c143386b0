// Package sqlite implements the repository interfaces on SQLite.
//
// modernc.org/sqlite is a pure Go translation of the SQLite sources, so the
// binary builds without CGo and tests can run against ":memory:" databases.
// The schema mirrors what the hosted row store enforced: one membership row
// per (user, book), and a CHECK constraint pinning list_name to the fixed
// reading-status set.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath (":memory:" for tests), configures it,
// and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight — needed once the
	// HTTP server hits the store from concurrent requests.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Callers defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			google_id     TEXT NOT NULL DEFAULT '',
			name          TEXT NOT NULL DEFAULT '',
			avatar_url    TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_google_id ON users(google_id);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// book_lists carries both invariants the application relies on: the
	// UNIQUE(user_id, book_id) key (one list per book per user) and the
	// CHECK constraint on list_name. The application re-validates list
	// names but must not assume uniqueness is also enforced locally.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS book_lists (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			book_id    TEXT NOT NULL,
			list_name  TEXT NOT NULL
				CHECK (list_name IN ('want-to-read', 'reading', 'finished')),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, book_id)
		);
		CREATE INDEX IF NOT EXISTS idx_book_lists_user_id ON book_lists(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating book_lists table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is SQLite's unique-constraint error.
// The driver surfaces constraint failures as formatted messages, so matching
// the constraint class in the text is the stable way to classify them.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isCheckViolation reports whether err is SQLite's check-constraint error.
func isCheckViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "CHECK constraint failed")
}
