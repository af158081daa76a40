package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zjrosen/wildo/internal/log"
)

// FileStore keeps the latest snapshot in one YAML file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path. Nothing is touched until Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the snapshot file.
func (f *FileStore) Path() string { return f.path }

// Load reads the snapshot. A missing file means first run.
func (f *FileStore) Load(_ context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info(log.CatStore, "no snapshot yet", "path", f.path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	s, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	log.Debug(log.CatStore, "snapshot loaded", "path", f.path, "entities", s.Registry.Len())
	return s, nil
}

// Save writes the snapshot to a temp file next to the target and renames it
// into place.
func (f *FileStore) Save(_ context.Context, s *Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".wildo.snapshot.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Sync(); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, f.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	log.Debug(log.CatStore, "snapshot saved", "path", f.path, "bytes", len(data))
	return nil
}

// Close is a no-op.
func (f *FileStore) Close() error { return nil }
