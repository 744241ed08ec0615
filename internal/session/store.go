package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileStore writes session state to a JSON file on disk. A sibling lock
// file serialises writers across concurrent CLI processes.
type FileStore struct {
	path string
	lock *flock.Flock
}

// NewFileStore builds a FileStore rooted at the provided path.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Load reads session state from disk. A missing file resolves to an empty state.
func (s *FileStore) Load() (state, error) {
	if err := s.lock.RLock(); err != nil {
		return state{}, fmt.Errorf("lock session state: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return state{}, nil
		}
		return state{}, fmt.Errorf("read session state: %w", err)
	}

	var loaded state
	if err := json.Unmarshal(data, &loaded); err != nil {
		return state{}, fmt.Errorf("decode session state: %w", err)
	}
	return loaded, nil
}

// Save persists session state to disk with restricted permissions.
func (s *FileStore) Save(updated state) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("ensure session state directory: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock session state: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := json.MarshalIndent(updated, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session state: %w", err)
	}
	return nil
}
