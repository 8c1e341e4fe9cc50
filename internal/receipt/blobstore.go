package receipt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// BlobStore persists uploaded receipt files. The receipt flow only needs
// save, path resolution, and delete.
type BlobStore interface {
	Save(name string, r io.Reader) (string, error)
	Path(name string) string
	Remove(name string) error
}

// LocalStore stores receipt files on the local filesystem under a base
// directory.
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates the base directory if needed and returns a store.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Save writes the reader's contents to a file with the given name and
// returns the full path.
func (s *LocalStore) Save(name string, r io.Reader) (string, error) {
	path := s.Path(name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create receipt file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write receipt file: %w", err)
	}
	return path, nil
}

// Path returns the full path for a stored file name.
func (s *LocalStore) Path(name string) string {
	return filepath.Join(s.baseDir, filepath.Base(name))
}

// Remove deletes a stored file.
func (s *LocalStore) Remove(name string) error {
	return os.Remove(s.Path(name))
}
