package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStorage writes files inside a single directory.
type FileStorage struct {
	dir string
}

// NewFileStorage creates a new FileStorage rooted at dir. The directory must exist.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

// Dir returns the root directory.
func (s *FileStorage) Dir() string {
	return s.dir
}

// Path returns the absolute location of filename inside the storage directory.
func (s *FileStorage) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}

// WriteFile writes data to filename and returns its full path.
func (s *FileStorage) WriteFile(filename string, data []byte) (string, error) {
	path := s.Path(filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	return path, nil
}
