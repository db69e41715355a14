// Package jsonfile provides a JSON file-based credential store.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hay-kot/stride/internal/core/credential"
)

// CredentialsFile is the root JSON structure stored on disk.
type CredentialsFile struct {
	Token     string    `json:"token"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CredentialStore implements credential.Provider using a JSON file for
// persistence. The file is read once and cached; Set and Clear write through.
type CredentialStore struct {
	path string

	mu     sync.RWMutex
	loaded bool
	file   CredentialsFile
}

var _ credential.Provider = (*CredentialStore)(nil)

// NewCredentialStore creates a store backed by the file at path.
func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

// Path returns the backing file path.
func (s *CredentialStore) Path() string { return s.path }

// Token returns the stored token, or "" when none is stored or the file
// cannot be read.
func (s *CredentialStore) Token() string {
	file, err := s.Load()
	if err != nil {
		return ""
	}
	return file.Token
}

// Load returns the stored credentials.
func (s *CredentialStore) Load() (CredentialsFile, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.file, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return CredentialsFile{}, err
	}
	s.file = file
	s.loaded = true
	return file, nil
}

// Set stores token, replacing any previous one.
func (s *CredentialStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file := CredentialsFile{Token: token, UpdatedAt: time.Now().UTC()}
	if err := s.save(file); err != nil {
		return err
	}
	s.file = file
	s.loaded = true
	return nil
}

// Clear removes the stored token. Clearing an absent file is not an error.
func (s *CredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credentials file: %w", err)
	}
	s.file = CredentialsFile{}
	s.loaded = true
	return nil
}

// load reads the credentials file from disk.
// Returns empty CredentialsFile if file doesn't exist.
func (s *CredentialStore) load() (CredentialsFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return CredentialsFile{}, nil
		}
		return CredentialsFile{}, fmt.Errorf("read credentials file: %w", err)
	}

	if len(data) == 0 {
		return CredentialsFile{}, nil
	}

	var file CredentialsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return CredentialsFile{}, fmt.Errorf("parse credentials file: %w", err)
	}

	return file, nil
}

// save writes the credentials file to disk atomically.
// Uses write-to-temp-then-rename to prevent corruption from interrupted writes.
func (s *CredentialStore) save(file CredentialsFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
