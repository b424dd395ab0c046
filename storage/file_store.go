package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// DefaultCredentialsDir is the default directory for persisted credentials,
// relative to the user's home directory.
const DefaultCredentialsDir = ".config/sesac/credentials"

// entry is the on-disk representation of a single stored value.
type entry struct {
	Value string `json:"value"`
}

// FileStore persists each key as a separate JSON file under a private
// directory. Files are created with 0600 permissions and the directory with
// 0700, so credentials are readable by the owning user only. Reads are served
// from an in-memory cache; the filesystem is only hit on a cache miss, so a
// value written by an earlier process run is still found.
type FileStore struct {
	mu    sync.RWMutex
	dir   string
	cache map[string]string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed store rooted at dir. If dir is empty the
// default credentials directory under the user's home is used.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "[NewFileStore] resolve home directory")
		}
		dir = filepath.Join(home, DefaultCredentialsDir)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] create credentials directory")
	}
	return &FileStore{
		dir:   dir,
		cache: make(map[string]string),
	}, nil
}

// Get returns the value for key, reading through to disk on a cache miss.
func (s *FileStore) Get(key string) (string, error) {
	s.mu.RLock()
	if v, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.cache[key]; ok {
		return v, nil
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", errors.Wrapf(err, "[FileStore.Get] read %q", key)
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return "", errors.Wrapf(err, "[FileStore.Get] decode %q", key)
	}
	s.cache[key] = e.Value
	return e.Value, nil
}

// Set writes the value to disk and cache. The file write happens before the
// cache update so a persisted value is never reported that did not make it to
// disk.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(entry{Value: value})
	if err != nil {
		return errors.Wrapf(err, "[FileStore.Set] encode %q", key)
	}
	if err := os.WriteFile(s.path(key), data, 0o600); err != nil {
		return errors.Wrapf(err, "[FileStore.Set] write %q", key)
	}
	s.cache[key] = value
	return nil
}

// Delete removes the key from disk and cache. Deleting an absent key is not
// an error.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cache, key)
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "[FileStore.Delete] remove %q", key)
	}
	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
