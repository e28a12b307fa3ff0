package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLite stores each key as a row of the kv table holding its JSON value.
type SQLite struct {
	db   *sql.DB
	gate gate
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens or creates the database at path. Use ":memory:" for a
// private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store: sqlite path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	// A second connection to ":memory:" would see a different database.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	s := &SQLite{db: db, gate: newGate()}
	raw, ok, err := s.raw(PreferencesKey)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if ok {
		if err := s.gate.merge(raw); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: %s: %w", PreferencesKey, err)
		}
	}
	return s, nil
}

func (s *SQLite) raw(key string) (json.RawMessage, bool, error) {
	if s.db == nil {
		return nil, false, ErrClosed
	}
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("store: get %s: %w", key, err)
	}
	return json.RawMessage(value), true, nil
}

// Get implements Store.
func (s *SQLite) Get(key string, dst any) (bool, error) {
	raw, ok, err := s.raw(key)
	if err != nil || !ok {
		return false, err
	}
	return decode(raw, dst)
}

// Set implements Store. Keys whose save preference is false are dropped
// without error.
func (s *SQLite) Set(key string, value any) error {
	if s.db == nil {
		return ErrClosed
	}
	if !s.gate.allowed(key) {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if key == PreferencesKey {
		if err := s.gate.merge(raw); err != nil {
			return fmt.Errorf("store: %s: %w", PreferencesKey, err)
		}
	}
	_, err = s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(raw),
	)
	if err != nil {
		return fmt.Errorf("store: set %s: %w", key, err)
	}
	return nil
}

// Preferences returns the active save preferences.
func (s *SQLite) Preferences() map[string]bool { return s.gate.Preferences() }

// Close implements Store.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
