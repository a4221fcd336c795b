package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/CyprianDavis/Lost-and-Found-tracking-System-ui/internal/models"
)

// State is the durable session blob: everything needed to rehydrate an
// authenticated session across restarts. Absence or expiry of the stored
// state means logged out.
type State struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        *models.User `json:"user,omitempty"`
	Claims      *Claims      `json:"claims,omitempty"`
}

// Expired reports whether the state is no longer valid at the given
// instant. A zero ExpiresAt means the backend issued no expiry.
func (s *State) Expired(now time.Time) bool {
	if s == nil || s.AccessToken == "" {
		return true
	}
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !s.ExpiresAt.After(now)
}

// Store persists session state between runs. Implementations hold exactly
// one entry.
type Store interface {
	Load() (*State, error)
	Save(*State) error
	Clear() error
}

// FileStore keeps the session state as a JSON file, the console's
// equivalent of the browser's single localStorage key.
type FileStore struct {
	path string
}

// NewFileStore creates a store at the given path. An empty path defaults to
// lost-found-auth.json under the user config directory.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "lost-found-console", "lost-found-auth.json")
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Load() (*State, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		// A corrupt session file is treated as logged out, not fatal.
		return nil, nil
	}
	return &state, nil
}

func (f *FileStore) Save(state *State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// MemoryStore is an in-process store used by tests and one-shot commands.
type MemoryStore struct {
	state *State
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load() (*State, error) { return m.state, nil }

func (m *MemoryStore) Save(state *State) error {
	m.state = state
	return nil
}

func (m *MemoryStore) Clear() error {
	m.state = nil
	return nil
}
