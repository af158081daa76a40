// Package watcher reports, with debouncing, when the snapshot file is
// written by someone else.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/wildo/internal/log"
)

// DefaultDebounce is how long the snapshot must stay quiet before a change
// is reported.
const DefaultDebounce = 300 * time.Millisecond

// Watcher follows one snapshot file. Bursts of writes collapse into a single
// signal on Changes.
type Watcher struct {
	fs       *fsnotify.Watcher
	path     string
	debounce time.Duration
	changes  chan struct{}
	stop     chan struct{}
	once     sync.Once
}

// Watch starts following path. Its directory is watched rather than the file
// so that saves which rename a temp file onto path are seen.
func Watch(path string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}

	w := &Watcher{
		fs:       fsw,
		path:     path,
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
	log.Debug(log.CatWatcher, "watching", "path", path, "debounce", debounce)
	go w.run()
	return w, nil
}

// Changes delivers one value per settled burst of writes. At most one
// signal is queued.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run() {
	var timer *time.Timer
	// fire is nil while nothing is pending.
	var fire <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.touchesSnapshot(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "watch error", err, "path", w.path)

		case <-w.stop:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// touchesSnapshot reports whether ev wrote the snapshot. A rename onto the
// snapshot arrives as Create.
func (w *Watcher) touchesSnapshot(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	return filepath.Clean(ev.Name) == filepath.Clean(w.path)
}

// ChangedMsg is delivered to Update when the snapshot changed on disk.
type ChangedMsg struct{}

// WaitCmd blocks until the next change. The model re-issues it after each
// ChangedMsg. It returns nil once ch is closed.
func WaitCmd(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return ChangedMsg{}
	}
}
