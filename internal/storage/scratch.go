package storage

import (
	"fmt"
	"os"
	"sync"
)

// Scratch is a private temporary directory owned by one download.
type Scratch struct {
	*FileStorage
	once sync.Once
	err  error
}

// NewScratch creates a fresh directory under parent (os.TempDir when empty).
func NewScratch(parent string) (*Scratch, error) {
	dir, err := os.MkdirTemp(parent, "vreddit-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Scratch{FileStorage: NewFileStorage(dir)}, nil
}

// Remove deletes the directory and everything in it. Calls after the first are no-ops.
func (s *Scratch) Remove() error {
	s.once.Do(func() {
		s.err = os.RemoveAll(s.dir)
	})
	return s.err
}
