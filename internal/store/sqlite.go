package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS foods (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		unit TEXT NOT NULL DEFAULT 'serving',
		calories REAL NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		food_id INTEGER NOT NULL REFERENCES foods(id) ON DELETE CASCADE,
		servings REAL NOT NULL,
		eaten_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_eaten_at ON entries(eaten_at)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		namespace TEXT NOT NULL,
		name TEXT NOT NULL,
		UNIQUE(namespace, name)
	)`,
	`CREATE TABLE IF NOT EXISTS entry_tags (
		entry_id INTEGER NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
		tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (entry_id, tag_id)
	)`,
}

func openSQLite(p Params) (*sql.DB, error) {
	// Strip sqlite:// prefix if present
	dsn := strings.TrimPrefix(p.Path, "sqlite://")
	if dsn == "" {
		path, err := DefaultPath()
		if err != nil {
			return nil, WrapConnectionError(err)
		}
		dsn = path
	}
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0700); err != nil {
			return nil, WrapConnectionError(err)
		}
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, WrapConnectionError(err)
	}
	// One connection keeps an in-memory database alive and serialises writers.
	db.SetMaxOpenConns(1)

	// Apply SQLite pragmas for better performance and safety
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, WrapConnectionError(fmt.Errorf("pragma foreign_keys: %w", err))
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 10000"); err != nil {
		db.Close()
		return nil, WrapConnectionError(fmt.Errorf("pragma busy_timeout: %w", err))
	}
	return db, nil
}
