package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/wildo/internal/action"
	"github.com/zjrosen/wildo/internal/content"
	"github.com/zjrosen/wildo/internal/edit"
	"github.com/zjrosen/wildo/internal/flags"
	"github.com/zjrosen/wildo/internal/keys"
	"github.com/zjrosen/wildo/internal/log"
	"github.com/zjrosen/wildo/internal/store"
	"github.com/zjrosen/wildo/internal/tracing"
	"github.com/zjrosen/wildo/internal/ui/styles"
	"github.com/zjrosen/wildo/internal/watcher"
)

// handleKey routes msg to the focused entity, then the ledger, then the
// global bindings. Failures are logged and surface in the status bar.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	err := tracing.Run(context.Background(), m.tracer, tracing.SpanHandleKey, func(ctx context.Context) error {
		var err error
		cmd, err = m.route(ctx, msg)
		return err
	}, attribute.String(tracing.AttrKey, msg.String()))
	if err != nil {
		log.ErrorErr(log.CatAction, "key failed", err, "key", msg.String())
	}

	m.refreshModified()
	if cmd == nil && m.modified && !m.editing() && m.flags.Enabled(flags.FlagAutosave) {
		if err := m.save(context.Background()); err != nil {
			log.ErrorErr(log.CatStore, "autosave failed", err)
		}
	}
	return cmd
}

func (m *Model) route(ctx context.Context, msg tea.KeyMsg) (tea.Cmd, error) {
	id, focused, err := m.ctx.Focused()
	if err != nil {
		return nil, err
	}

	if h, ok := focused.AsEventHandler(); ok {
		ea := h.HandleEvent(msg, id)
		if err := m.apply(ctx, ea.Value()); err != nil {
			return nil, err
		}
		if ea.IsAbsorbed() {
			return nil, nil
		}
	}

	if handled, err := m.ledger(msg, id, focused); handled {
		return nil, err
	}

	switch {
	case key.Matches(msg, keys.Global.Deeper):
		return nil, m.apply(ctx, action.MoveRight[*content.Context]())
	case key.Matches(msg, keys.Global.Shallower):
		return nil, m.apply(ctx, action.MoveLeft[*content.Context]())
	case key.Matches(msg, keys.Global.Help):
		m.showHelp = true
	case key.Matches(msg, keys.Global.Save):
		if err := m.save(ctx); err != nil {
			return nil, err
		}
		log.Info(log.CatStore, "saved")
	case key.Matches(msg, keys.Global.Quit):
		if err := m.save(ctx); err != nil {
			return nil, fmt.Errorf("not quitting: %w", err)
		}
		return tea.Quit, nil
	case key.Matches(msg, keys.Global.ForceQuit):
		return tea.Quit, nil
	}
	return nil, nil
}

// ledger runs the yank bindings against the focused container. A yank
// advances the container's cursor.
func (m *Model) ledger(msg tea.KeyMsg, source content.ID, focused content.Content) (bool, error) {
	var item *content.Yank
	p, isProvider := focused.AsProvider()
	if isProvider {
		if id, ok := p.Selected(); ok {
			item = &content.Yank{ID: id, Pos: p.Cursor().Index()}
		}
	}

	b, err := m.ctx.Editor.HandleKey(msg, source, item)
	if b == edit.BindNone {
		return false, nil
	}
	if b == edit.BindYank && isProvider {
		p.Cursor().Next()
	}
	return true, err
}

func (m *Model) apply(ctx context.Context, a content.Action) error {
	if a.IsNone() {
		return nil
	}
	return tracing.Run(ctx, m.tracer, tracing.SpanApply, func(context.Context) error {
		return m.ctx.Apply(a)
	},
		attribute.String(tracing.AttrActionKind, a.Kind().String()),
		attribute.String(tracing.AttrFocusHandle, m.ctx.Stack.Top().String()),
		attribute.Int(tracing.AttrFocusDepth, m.ctx.Stack.Depth()),
	)
}

// editing reports whether the focused entity has a line open in insert mode.
func (m *Model) editing() bool {
	_, focused, err := m.ctx.Focused()
	if err != nil {
		return false
	}
	e, ok := focused.Entity().(interface{ Editing() bool })
	return ok && e.Editing()
}

func (m *Model) refreshModified() {
	fp, err := store.Fingerprint(m.ctx.Registry)
	if err != nil {
		log.ErrorErr(log.CatStore, "fingerprint failed", err)
		return
	}
	m.modified = m.ctx.Editor.Unsaved() || fp != m.baseline
}

func (m *Model) save(ctx context.Context) error {
	if m.store == nil {
		return errors.New("no store configured")
	}
	snap := store.Capture(m.ctx, m.writer)
	err := tracing.Run(ctx, m.tracer, tracing.SpanSave, func(ctx context.Context) error {
		return m.store.Save(ctx, snap)
	},
		attribute.String(tracing.AttrBackend, m.cfg.Storage.Backend),
		attribute.Int(tracing.AttrEntities, m.ctx.Registry.Len()),
	)
	if err != nil {
		return err
	}

	m.ctx.Editor.MarkSaved()
	if fp, err := store.Fingerprint(m.ctx.Registry); err == nil {
		m.baseline = fp
	}
	m.modified = false
	log.Debug(log.CatStore, "snapshot saved", "entities", m.ctx.Registry.Len())
	return nil
}

// reload replaces the state with a snapshot another process saved. Local
// edits that were not saved win and the external change is only reported.
func (m *Model) reload(ctx context.Context) error {
	if m.store == nil {
		return nil
	}

	var snap *store.Snapshot
	err := tracing.Run(ctx, m.tracer, tracing.SpanReload, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx)
		return err
	}, attribute.String(tracing.AttrBackend, m.cfg.Storage.Backend))
	if err != nil {
		return err
	}
	if snap == nil || snap.Writer == m.writer {
		return nil
	}

	m.refreshModified()
	if m.modified || m.editing() {
		log.Warn(log.CatWatcher, "snapshot changed on disk, keeping local edits", "writer", snap.Writer)
		return nil
	}

	fp, err := store.Fingerprint(snap.Registry)
	if err != nil {
		return err
	}
	if d := watcher.Diff(m.baseline, fp); d.Changed() {
		log.Debug(log.CatWatcher, "external change", "inserted", d.Inserted, "deleted", d.Deleted, "patch", d.Patch)
	}

	m.ctx = snap.Context()
	m.baseline = fp
	log.Info(log.CatWatcher, "reloaded external changes", "writer", snap.Writer)
	return nil
}

// breadcrumb renders the focus path from the root.
func (m Model) breadcrumb() string {
	path := m.ctx.Stack.Path()
	names := make([]string, 0, len(path))
	for _, id := range path {
		v, ok := m.ctx.Registry.Get(id)
		if !ok {
			names = append(names, "?")
			continue
		}
		name := v.AsTextual().Text()
		if name == "" {
			name = "untitled"
		}
		names = append(names, name)
	}
	return styles.MutedStyle.Render(strings.Join(names, " › "))
}
