package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/todo/pkg/models"
)

// FileStore keeps the snapshot in <dir>/<key>.<ext>. Saves write a temporary
// file in the same directory and rename it over the snapshot, so readers see
// either the old or the new collection.
type FileStore struct {
	dir   string
	key   string
	codec Codec
}

// NewFileStore creates a FileStore. A nil codec means JSON.
func NewFileStore(dir, key string, codec Codec) *FileStore {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &FileStore{dir: dir, key: key, codec: codec}
}

// Path returns the snapshot file path.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, s.key+"."+s.codec.Ext())
}

func (s *FileStore) lockPath() string {
	return filepath.Join(s.dir, "."+s.key+".lock")
}

// Load reads the snapshot. A missing file yields no tasks and no error.
func (s *FileStore) Load(_ context.Context) ([]models.Task, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	tasks, err := s.codec.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("loading tasks from %s: %w", s.Path(), err)
	}
	return tasks, nil
}

// Save replaces the snapshot with tasks.
func (s *FileStore) Save(_ context.Context, tasks []models.Task) error {
	data, err := s.codec.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("saving tasks: creating directory: %w", err)
	}

	unlock, err := lockFile(s.lockPath())
	if err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	defer func() { _ = unlock() }()

	tmp, err := os.CreateTemp(s.dir, "."+s.key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("saving tasks: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("saving tasks: writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("saving tasks: syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving tasks: closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("saving tasks: setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.Path()); err != nil {
		return fmt.Errorf("saving tasks: replacing snapshot: %w", err)
	}
	return nil
}
