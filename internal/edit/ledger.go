// Package edit records yank and paste operations against ordered child
// containers.
//
// The ledger is generic over the handle type so it carries no knowledge of
// what the handles address.
package edit

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/wildo/internal/action"
	"github.com/zjrosen/wildo/internal/keys"
	"github.com/zjrosen/wildo/internal/log"
)

// Yank names a child at a position inside some container.
type Yank[H comparable] struct {
	ID  H   `yaml:"id"`
	Pos int `yaml:"pos"`
}

// YankType says whether yanked children are to be moved or duplicated.
type YankType int

const (
	Cut YankType = iota
	Copy
)

func (t YankType) String() string {
	if t == Copy {
		return "copy"
	}
	return "cut"
}

// MarshalYAML implements yaml.Marshaler.
func (t YankType) MarshalYAML() (any, error) { return t.String(), nil }

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *YankType) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch s {
	case "cut":
		*t = Cut
	case "copy":
		*t = Copy
	default:
		return fmt.Errorf("unknown yank type %q", s)
	}
	return nil
}

// Yanker is the pending yank set, tied to the container it was taken from.
type Yanker[H comparable] struct {
	Yanks  []Yank[H]
	Source H
}

// Kind discriminates ledger entries.
type Kind string

const (
	KindYanked Kind = "yanked"
	KindPasted Kind = "pasted"
)

// Edit is one ledger entry. YankType is meaningful only for KindYanked.
type Edit[H comparable] struct {
	Kind     Kind      `yaml:"kind"`
	YankType YankType  `yaml:"yank_type,omitempty"`
	Source   H         `yaml:"source"`
	Yanks    []Yank[H] `yaml:"yanks"`
}

// Manager holds the pending yank set and the edit history. Only the history
// is persisted. UndoStack is reserved for undo support and is never filled.
type Manager[H comparable] struct {
	Yanker    *Yanker[H] `yaml:"-"`
	EditStack []Edit[H]  `yaml:"edit_stack"`
	UndoStack []Edit[H]  `yaml:"undo_stack"`

	saved int
}

// NewManager creates an empty ledger.
func NewManager[H comparable]() *Manager[H] {
	return &Manager[H]{}
}

// RegisterYank adds y to the pending set. A yank from a different source than
// the pending set replaces it.
func (m *Manager[H]) RegisterYank(y Yank[H], source H) {
	if m.Yanker != nil && m.Yanker.Source == source {
		m.Yanker.Yanks = append(m.Yanker.Yanks, y)
		return
	}
	m.Yanker = &Yanker[H]{Yanks: []Yank[H]{y}, Source: source}
}

// RecordPaste logs that yanks were inserted into source.
func (m *Manager[H]) RecordPaste(source H, yanks ...Yank[H]) {
	m.EditStack = append(m.EditStack, Edit[H]{
		Kind:   KindPasted,
		Source: source,
		Yanks:  append([]Yank[H](nil), yanks...),
	})
}

// RecordCut logs that yanks were removed from source.
func (m *Manager[H]) RecordCut(source H, yanks ...Yank[H]) {
	m.EditStack = append(m.EditStack, Edit[H]{
		Kind:     KindYanked,
		YankType: Cut,
		Source:   source,
		Yanks:    append([]Yank[H](nil), yanks...),
	})
}

// ForgetPaste drops id from the most recent paste into source that names it,
// and the whole entry once it names nothing. It reports whether id was found.
func (m *Manager[H]) ForgetPaste(source H, id H) bool {
	for i := len(m.EditStack) - 1; i >= 0; i-- {
		e := &m.EditStack[i]
		if e.Kind != KindPasted || e.Source != source {
			continue
		}
		j := slices.IndexFunc(e.Yanks, func(y Yank[H]) bool { return y.ID == id })
		if j < 0 {
			continue
		}
		e.Yanks = slices.Delete(e.Yanks, j, j+1)
		if len(e.Yanks) == 0 {
			m.EditStack = slices.Delete(m.EditStack, i, i+1)
			m.saved = min(m.saved, len(m.EditStack))
		}
		return true
	}
	return false
}

// MarkSaved records that the history up to now is persisted.
func (m *Manager[H]) MarkSaved() { m.saved = len(m.EditStack) }

// Unsaved reports whether edits were recorded since the last MarkSaved.
func (m *Manager[H]) Unsaved() bool { return len(m.EditStack) != m.saved }

// Binding identifies which ledger key was handled.
type Binding int

const (
	BindNone Binding = iota
	BindYank
	BindCut
	BindCopy
	BindPaste
	BindUndo
	BindRedo
)

// HandleKey runs the ledger bindings for a key the focused entity declined.
// source is the focused container and item its selected child, if any.
// BindNone means the key is not a ledger key in this situation. Bindings
// without behavior report action.ErrNotImplemented.
func (m *Manager[H]) HandleKey(msg tea.KeyMsg, source H, item *Yank[H]) (Binding, error) {
	sameSource := m.Yanker != nil && m.Yanker.Source == source

	switch {
	case key.Matches(msg, keys.Ledger.Yank):
		if item == nil {
			return BindNone, nil
		}
		m.RegisterYank(*item, source)
		log.Debug(log.CatInput, "yanked", "pos", item.Pos, "pending", len(m.Yanker.Yanks))
		return BindYank, nil
	case key.Matches(msg, keys.Ledger.Cut):
		if sameSource {
			return BindCut, fmt.Errorf("cut: %w", action.ErrNotImplemented)
		}
	case key.Matches(msg, keys.Ledger.Copy):
		if sameSource {
			return BindCopy, fmt.Errorf("copy: %w", action.ErrNotImplemented)
		}
	case key.Matches(msg, keys.Ledger.Undo):
		return BindUndo, fmt.Errorf("undo: %w", action.ErrNotImplemented)
	case key.Matches(msg, keys.Ledger.Redo):
		return BindRedo, fmt.Errorf("redo: %w", action.ErrNotImplemented)
	case key.Matches(msg, keys.Ledger.Paste):
		return BindPaste, fmt.Errorf("paste: %w", action.ErrNotImplemented)
	}
	return BindNone, nil
}
