package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage keys. The token and the debug flag are the only two values this
// package persists; they have independent lifecycles (Clear leaves the debug
// flag untouched).
const (
	tokenKey = "auth_token"
	debugKey = "debug_mode"
)

// Store is the durable register for the current bearer token and the debug
// flag. It is a dumb, last-write-wins holder: no expiry check, no validation.
// Callers may observe a token replaced mid-flight by a concurrent
// login/logout; that is accepted, not guarded against.
type Store interface {
	// Set persists the token, overwriting any prior value.
	Set(token string) error

	// Get returns the current token, or false when none is stored.
	Get() (string, bool)

	// Clear removes the token. Clearing an empty store is a no-op.
	Clear() error

	// SetDebug persists the verbose-diagnostics flag.
	SetDebug(enabled bool) error

	// Debug reports whether verbose diagnostics are enabled.
	Debug() bool
}

// MemoryStore is an in-process Store, used in tests and as a fallback when
// no persistent path is available.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Set persists the token in memory.
func (s *MemoryStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[tokenKey] = token
	return nil
}

// Get returns the current token, or false when none is stored.
func (s *MemoryStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.values[tokenKey]
	return token, ok
}

// Clear removes the token. The debug flag survives.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, tokenKey)
	return nil
}

// SetDebug persists the verbose-diagnostics flag.
func (s *MemoryStore) SetDebug(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if enabled {
		s.values[debugKey] = "true"
	} else {
		delete(s.values, debugKey)
	}
	return nil
}

// Debug reports whether verbose diagnostics are enabled.
func (s *MemoryStore) Debug() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[debugKey] == "true"
}

// FileStore persists the two keys as a JSON object in a single file so the
// token survives a process restart. Writes go through a temp file and rename
// so a crash never leaves a partially written store. An unreadable or corrupt
// file is treated as an empty store (fail-closed: no token).
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed store at path, creating the parent
// directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// DefaultStorePath returns the conventional store location under the user
// config directory.
func DefaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "ideaforge", "credentials.json"), nil
}

// Set persists the token, overwriting any prior value.
func (s *FileStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.read()
	values[tokenKey] = token
	return s.write(values)
}

// Get returns the current token, or false when none is stored.
func (s *FileStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.read()[tokenKey]
	return token, ok
}

// Clear removes the token. The debug flag survives.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.read()
	if _, ok := values[tokenKey]; !ok {
		return nil
	}
	delete(values, tokenKey)
	return s.write(values)
}

// SetDebug persists the verbose-diagnostics flag.
func (s *FileStore) SetDebug(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.read()
	if enabled {
		values[debugKey] = "true"
	} else {
		delete(values, debugKey)
	}
	return s.write(values)
}

// Debug reports whether verbose diagnostics are enabled.
func (s *FileStore) Debug() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()[debugKey] == "true"
}

// read loads the store contents; missing or corrupt files yield an empty map.
func (s *FileStore) read() map[string]string {
	values := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return values
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return make(map[string]string)
	}
	return values
}

// write persists the store contents atomically.
func (s *FileStore) write(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}
