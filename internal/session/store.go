// Package session persists the device's active login between launches.
// The store is the pipeline's source of "which user is verifying";
// ownership of login/logout flows stays with the surrounding screens.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

type record struct {
	UserID    uuid.UUID `json:"user_id"`
	LoginDate string    `json:"login_date"` // YYYY-MM-DD
}

// Store is a file-backed session record: the active user id and the
// date they last logged in.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// SaveLogin records the user as logged in today.
func (s *Store) SaveLogin(userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := record{
		UserID:    userID,
		LoginDate: s.now().Format("2006-01-02"),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}

	return nil
}

// Active returns the persisted user id, if any.
func (s *Store) Active() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read()
	if err != nil || rec.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return rec.UserID, true
}

// LoggedInToday reports whether the stored login happened today.
func (s *Store) LoggedInToday() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read()
	if err != nil {
		return false
	}
	return rec.LoginDate == s.now().Format("2006-01-02")
}

// Clear removes the persisted session.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) read() (record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return record{}, err
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return record{}, fmt.Errorf("decode session: %w", err)
	}
	return rec, nil
}
