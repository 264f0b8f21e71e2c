package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// ErrCorrupt is returned by reads when the session file cannot be decoded.
// Writes replace a corrupt file instead of failing.
var ErrCorrupt = errors.New("session file is corrupt")

// FileStore persists values as a JSON object in a single file.
// Writes go to a temporary file that is renamed over the original.
type FileStore struct {
	path   string
	logger zerolog.Logger
	mu     sync.Mutex
}

// NewFileStore creates a store backed by the file at path.
// The file and its directory are created on first write.
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the value for key.
func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

// Set stores value under key.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, _, err := s.loadForWrite()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

// Remove deletes key.
func (s *FileStore) Remove(ctx context.Context, key string) error {
	return s.RemoveAll(ctx, key)
}

// RemoveAll deletes keys in a single write. A corrupt file is replaced.
func (s *FileStore) RemoveAll(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, corrupt, err := s.loadForWrite()
	if err != nil {
		return err
	}
	changed := corrupt
	for _, key := range keys {
		if _, ok := values[key]; ok {
			delete(values, key)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(values)
}

// loadForWrite is load with an undecodable file treated as empty.
func (s *FileStore) loadForWrite() (map[string]string, bool, error) {
	values, err := s.load()
	if errors.Is(err, ErrCorrupt) {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("replacing corrupt session file")
		return map[string]string{}, true, nil
	}
	return values, false, err
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return values, nil
}

func (s *FileStore) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("creating temp session file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting session file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing session file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}

// Ensure the stores implement Store.
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*InMemoryStore)(nil)
)
