package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	derrors "git.home.luguber.info/inful/pageloader/internal/foundation/errors"
)

// SQLite persists session flags in a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (and creates) the database at path. Use ":memory:" for an
// in-memory database.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategorySession, "open sqlite database").WithContext("path", path).Build()
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, derrors.WrapError(err, derrors.CategorySession, "initialize schema").WithContext("path", path).Build()
	}
	return s, nil
}

func (s *SQLite) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session_flags (
		session_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (session_id, key)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLite) Session(id string) Store { return sqliteSession{db: s.db, id: id} }

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }

type sqliteSession struct {
	db *sql.DB
	id string
}

func (s sqliteSession) Get(ctx context.Context, key string) (string, bool, error) {
	var val string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM session_flags WHERE session_id = ? AND key = ?", s.id, key,
	).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query flag %s: %w", key, err)
	}
	return val, true, nil
}

func (s sqliteSession) Set(ctx context.Context, key, val string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_flags (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.id, key, val, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("store flag %s: %w", key, err)
	}
	return nil
}
