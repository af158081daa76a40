package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/wildo/internal/config"
	"github.com/zjrosen/wildo/internal/content"
	"github.com/zjrosen/wildo/internal/content/todo"
	"github.com/zjrosen/wildo/internal/testutil"
)

const writer = "6f1c1b8e-3f57-4d0e-9a43-0c8c7b1b2e10"

func requireSameTree(t *testing.T, want, got *content.Context) {
	t.Helper()
	require.Equal(t, want.Stack.Root(), got.Stack.Root())
	require.Equal(t, want.Registry.Handles(), got.Registry.Handles())
	for _, h := range want.Registry.Handles() {
		w, _ := want.Registry.Get(h)
		g, _ := got.Registry.Get(h)
		require.Equal(t, w.Kind(), g.Kind())
		require.Equal(t, w.AsTextual().Text(), g.AsTextual().Text())
	}
	require.Equal(t, testutil.Texts(want, testutil.List(want, 0)), testutil.Texts(got, testutil.List(got, 0)))
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	ctx := testutil.Standard()
	ctx.Editor.RecordPaste(ctx.Stack.Root(), content.Yank{ID: ctx.Stack.Root(), Pos: 0})

	data, err := Encode(Capture(ctx, writer))
	require.NoError(t, err)
	require.Contains(t, string(data), "type: todo_list")

	snap, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, Version, snap.Version)
	require.Equal(t, writer, snap.Writer)

	loaded := snap.Context()
	requireSameTree(t, ctx, loaded)
	require.Len(t, loaded.Editor.EditStack, 1)
	require.False(t, loaded.Editor.Unsaved())
	require.Nil(t, loaded.Editor.Yanker)
	require.Equal(t, 1, loaded.Stack.Depth())

	overdue := testutil.List(loaded, 0)
	id, _ := overdue.Get(3)
	v, _ := loaded.Registry.Get(id)
	require.Equal(t, &todo.Date{Day: 1, Month: 1, Year: 2020}, v.Entity().(*todo.Todo).DueDate)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte("version: 99\n"))
	require.True(t, errors.Is(err, ErrUnsupportedVersion))

	_, err = Decode([]byte("version: 1\nroot: {slot: 3, epoch: 3}\nregistry: {generation: 0, entries: []}\n"))
	require.True(t, errors.Is(err, content.ErrMissing))

	_, err = Decode([]byte(`
version: 1
root: {slot: 0, epoch: 0}
registry:
  generation: 1
  entries:
    - {slot: 0, epoch: 0, refs: 1, value: {type: spreadsheet}}
`))
	require.True(t, errors.Is(err, content.ErrUnknownKind))
}

func TestFileStore_MissingFileIsFirstRun(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "none.yaml"))
	snap, err := fs.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, snap)
}

func TestFileStore_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(filepath.Join(dir, "nested", "snapshot.yaml"))
	ctx := testutil.Standard()

	require.NoError(t, fs.Save(context.Background(), Capture(ctx, writer)))

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")

	snap, err := fs.Load(context.Background())
	require.NoError(t, err)
	requireSameTree(t, ctx, snap.Context())
	require.NoError(t, fs.Close())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("registry: [unterminated"), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), path)
}

func TestSQLiteStore_EmptyIsFirstRun(t *testing.T) {
	s, err := OpenSQLite(":memory:", 5)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, snap)
}

func TestSQLiteStore_SaveLoadAndPrune(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wildo.db")
	s, err := OpenSQLite(path, 2)
	require.NoError(t, err)

	ctx := testutil.Standard()
	bg := context.Background()
	for _, title := range []string{"first", "second", "third"} {
		testutil.Root(ctx).SetText(title)
		require.NoError(t, s.Save(bg, Capture(ctx, writer)))
	}

	revs, err := s.Revisions(bg)
	require.NoError(t, err)
	require.Len(t, revs, 2)
	require.Greater(t, revs[0].ID, revs[1].ID)
	require.Equal(t, writer, revs[0].Writer)

	snap, err := s.Load(bg)
	require.NoError(t, err)
	require.Equal(t, "third", testutil.Root(snap.Context()).Text())
	require.NoError(t, s.Close())

	// Reopening runs the migrations again as a no-op.
	s, err = OpenSQLite(path, 2)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	snap, err = s.Load(bg)
	require.NoError(t, err)
	requireSameTree(t, ctx, snap.Context())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(config.StorageConfig{Backend: config.BackendYAML, Path: filepath.Join(dir, "a.yaml")})
	require.NoError(t, err)
	require.IsType(t, &FileStore{}, s)

	s, err = Open(config.StorageConfig{Backend: config.BackendSQLite, Path: filepath.Join(dir, "a.db"), History: 3})
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(config.StorageConfig{Backend: "postgres"})
	require.True(t, errors.Is(err, ErrUnknownBackend))
}
