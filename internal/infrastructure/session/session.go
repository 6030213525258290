// Package session persists the signed-in user between runs.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/tesso57/sutra/internal/domain/curation"
	_ "modernc.org/sqlite"
)

const (
	keyUserID   = "userId"
	keyUsername = "username"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// Store is a small key/value table in a sqlite file.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open opens (or creates) the state database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init state schema: %w", err)
	}
	return new(Store{db: db}), nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the stored session. A missing or malformed user id yields the
// signed-out zero value.
func (s *Store) Load() (curation.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := s.get(keyUserID)
	if err != nil || raw == "" {
		return curation.Session{}, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return curation.Session{}, nil
	}
	username, err := s.get(keyUsername)
	if err != nil {
		return curation.Session{}, err
	}
	return curation.Session{UserID: id, Username: username}, nil
}

// Save writes both session keys in one transaction.
func (s *Store) Save(session curation.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.Exec(upsert, keyUserID, strconv.FormatInt(session.UserID, 10)); err != nil {
		return err
	}
	if _, err := tx.Exec(upsert, keyUsername, session.Username); err != nil {
		return err
	}
	return tx.Commit()
}

// Clear removes the session keys.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM kv WHERE key IN (?, ?)`, keyUserID, keyUsername)
	return err
}

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}
