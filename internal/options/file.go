package options

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore writes each identity's blob to <dir>/<ident>.json.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create options directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Get(ctx context.Context, ident string) ([]byte, error) {
	data, err := os.ReadFile(s.path(ident))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read options: %w", err)
	}
	return data, nil
}

func (s *FileStore) Set(ctx context.Context, ident string, blob []byte) error {
	path := s.path(ident)

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create options file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write options: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write options: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename options file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(ident string) string {
	return filepath.Join(s.dir, filepath.Base(ident)+".json")
}
