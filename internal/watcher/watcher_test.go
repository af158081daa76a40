package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/wildo/internal/watcher"
)

func startWatcher(t *testing.T, path string) <-chan struct{} {
	t.Helper()
	w, err := watcher.Watch(path, 50*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w.Changes()
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("v0"), 0o600))

	onChange := startWatcher(t, path)

	// Rapid writes should coalesce into a single notification.
	for i := range 10 {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("v%d", i)), 0o600))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-onChange:
	case <-time.After(time.Second):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_NotifiesOnAtomicRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	onChange := startWatcher(t, path)

	tmp := filepath.Join(dir, ".wildo.snapshot.tmp.1")
	require.NoError(t, os.WriteFile(tmp, []byte("new"), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-onChange:
	case <-time.After(time.Second):
		t.Fatal("expected notification for rename onto the snapshot")
	}
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.yaml")
	otherPath := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(otherPath, []byte("initial"), 0o600))

	onChange := startWatcher(t, path)

	require.NoError(t, os.WriteFile(otherPath, []byte("other content"), 0o600))

	select {
	case <-onChange:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresSiblingWithSharedPrefix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	onChange := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path+".bak", []byte("y"), 0o600))

	select {
	case <-onChange:
		t.Fatal("a backup next to the snapshot is not the snapshot")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	_, err := watcher.Watch(filepath.Join(t.TempDir(), "gone", "snapshot.yaml"), watcher.DefaultDebounce)
	require.Error(t, err)
	require.Contains(t, err.Error(), "watching directory")
}

func TestWatcher_CloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	w, err := watcher.Watch(path, watcher.DefaultDebounce)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		assert.NoError(t, w.Close())
		assert.NoError(t, w.Close())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}
}

func TestWaitCmd(t *testing.T) {
	require.Nil(t, watcher.WaitCmd(nil))

	ch := make(chan struct{}, 1)
	ch <- struct{}{}
	require.Equal(t, watcher.ChangedMsg{}, watcher.WaitCmd(ch)())

	close(ch)
	require.Nil(t, watcher.WaitCmd(ch)())
}

func TestDiff(t *testing.T) {
	before := "title: home\nlists:\n  - a\n"
	after := "title: work\nlists:\n  - a\n"

	s := watcher.Diff(before, after)
	require.True(t, s.Changed())
	require.Positive(t, s.Inserted)
	require.Positive(t, s.Deleted)
	require.Contains(t, s.Patch, "work")

	require.False(t, watcher.Diff(before, before).Changed())
}
