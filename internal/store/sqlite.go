// Package store persists finished matches and their per-tick steps in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps the match history database.
type Store struct {
	db *sql.DB
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		board TEXT NOT NULL,
		player1_policy TEXT NOT NULL,
		player2_policy TEXT NOT NULL,
		outcome TEXT NOT NULL,
		result TEXT NOT NULL,
		ticks INTEGER NOT NULL,
		p1_shots INTEGER DEFAULT 0,
		p2_shots INTEGER DEFAULT 0,
		p1_walls INTEGER DEFAULT 0,
		p2_walls INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS steps (
		match_id TEXT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
		tick INTEGER NOT NULL,
		p1_action TEXT NOT NULL,
		p2_action TEXT NOT NULL,
		p1_x INTEGER NOT NULL,
		p1_y INTEGER NOT NULL,
		p2_x INTEGER NOT NULL,
		p2_y INTEGER NOT NULL,
		p1_ammo INTEGER NOT NULL,
		p2_ammo INTEGER NOT NULL,
		p1_alive INTEGER NOT NULL,
		p2_alive INTEGER NOT NULL,
		shells INTEGER NOT NULL,
		PRIMARY KEY (match_id, tick)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at)`,
}

// Open connects to the database at path, creating tables as needed.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	for _, ddl := range migrations {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("create table: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}
