// Package store persists registry snapshots.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/wildo/internal/config"
	"github.com/zjrosen/wildo/internal/content"
	"github.com/zjrosen/wildo/internal/edit"
	"github.com/zjrosen/wildo/internal/log"
	"github.com/zjrosen/wildo/internal/nav"
	"github.com/zjrosen/wildo/internal/registry"
)

// Version is the snapshot format written by this build.
const Version = 1

var (
	// ErrUnknownBackend is returned by Open for an unsupported storage.backend.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// ErrUnsupportedVersion is returned when a snapshot is newer than this build.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

// Snapshot is the persisted state: the registry, its root and the edit
// history. Focus, insert mode and the pending yank set are not included.
type Snapshot struct {
	Version  int                  `yaml:"version"`
	Writer   string               `yaml:"writer"`
	SavedAt  time.Time            `yaml:"saved_at"`
	Root     content.ID           `yaml:"root"`
	Registry *content.Register    `yaml:"registry"`
	Editor   *content.EditManager `yaml:"editor"`
}

// Capture snapshots ctx. The snapshot shares ctx's registry, so it must be
// encoded before ctx changes again.
func Capture(ctx *content.Context, writer string) *Snapshot {
	return &Snapshot{
		Version:  Version,
		Writer:   writer,
		SavedAt:  time.Now().UTC(),
		Root:     ctx.Stack.Root(),
		Registry: ctx.Registry,
		Editor:   ctx.Editor,
	}
}

// Context rebuilds an execution context focused on the root. The ledger is
// marked saved.
func (s *Snapshot) Context() *content.Context {
	s.Editor.MarkSaved()
	return &content.Context{
		Registry: s.Registry,
		Editor:   s.Editor,
		Stack:    nav.New(s.Root),
	}
}

// Encode renders s as YAML.
func Encode(s *Snapshot) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Decode parses and checks a YAML snapshot.
func Decode(data []byte) (*Snapshot, error) {
	s := &Snapshot{
		Registry: registry.New[content.Content](),
		Editor:   edit.NewManager[content.ID](),
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if s.Version > Version {
		return nil, fmt.Errorf("snapshot version %d: %w", s.Version, ErrUnsupportedVersion)
	}
	if !s.Registry.Contains(s.Root) {
		return nil, fmt.Errorf("decoding snapshot: root %s: %w", s.Root, content.ErrMissing)
	}
	return s, nil
}

// Store loads and saves snapshots. Load returns (nil, nil) when nothing was
// ever saved.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
	Close() error
}

// Open creates the store selected by cfg.
func Open(cfg config.StorageConfig) (Store, error) {
	path := cfg.ResolvedPath()
	log.Debug(log.CatStore, "opening store", "backend", cfg.Backend, "path", path)

	switch cfg.Backend {
	case "", config.BackendYAML:
		return NewFileStore(path), nil
	case config.BackendSQLite:
		return OpenSQLite(path, cfg.History)
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Backend, ErrUnknownBackend)
	}
}

// Fingerprint encodes just the registry. Equal fingerprints mean equal
// persisted content regardless of writer or save time.
func Fingerprint(reg *content.Register) (string, error) {
	data, err := yaml.Marshal(reg)
	if err != nil {
		return "", fmt.Errorf("encoding registry: %w", err)
	}
	return string(data), nil
}
