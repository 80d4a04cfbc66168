// Package store persists users, projects and tasks in SQLite and composes
// the role-scoped task queries. Unique constraints on users.username,
// users.email and projects.title are the source of truth for uniqueness;
// the pre-checks in the handlers only exist for friendlier error messages.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'user',
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	heading TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'TO_DO',
	project TEXT NOT NULL DEFAULT '',
	project_id TEXT,
	created_by TEXT NOT NULL,
	assigned_to TEXT,
	file_path TEXT,
	created_date DATETIME NOT NULL,
	in_progress_date DATETIME,
	completion_date DATETIME
);

CREATE INDEX IF NOT EXISTS idx_tasks_created_by ON tasks(created_by);
CREATE INDEX IF NOT EXISTS idx_tasks_assigned_to ON tasks(assigned_to);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id);
`

var (
	// ErrNotFound is returned when an entity id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write collides with a uniqueness
	// constraint, including the losing side of a concurrent insert race.
	ErrConflict = errors.New("already exists")
)

// Store wraps a SQL database connection with entity operations.
type Store struct {
	*sql.DB
}

// Open opens or creates the database at the given path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Task references to users and projects are weak: no foreign keys,
	// dangling ids are tolerated by readers.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &Store{db}, nil
}

// Init creates the schema.
func (s *Store) Init() error {
	if _, err := s.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// isDuplicate reports whether err is a unique-constraint violation. This is
// the storage-level backstop for check-then-insert races: the losing write
// surfaces as ErrConflict instead of silently duplicating.
func isDuplicate(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}
