package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/masato/tag-generator/internal/types"
)

// FileStore keeps the checkpoint as a single JSON file. Saves go through a
// temp file in the same directory followed by a rename, so readers only
// ever see a complete record.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path. The parent
// directory is created on the first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the checkpoint file location.
func (s *FileStore) Path() string { return s.path }

// Load reads and validates the checkpoint. A missing file is not an
// error; it returns (nil, nil).
func (s *FileStore) Load(_ context.Context) (*types.Checkpoint, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read checkpoint %s: %w", s.path, err)
	}
	return decode(raw)
}

// Save atomically replaces the checkpoint file.
func (s *FileStore) Save(_ context.Context, cp *types.Checkpoint) error {
	data, err := encode(cp)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create checkpoint dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".checkpoint-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp checkpoint: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp checkpoint: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace checkpoint %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the checkpoint file. Clearing an absent checkpoint is a
// no-op.
func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove checkpoint %s: %w", s.path, err)
	}
	return nil
}
