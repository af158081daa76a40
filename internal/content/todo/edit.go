package todo

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/wildo/internal/action"
	"github.com/zjrosen/wildo/internal/content"
	"github.com/zjrosen/wildo/internal/insert"
	"github.com/zjrosen/wildo/internal/keys"
	"github.com/zjrosen/wildo/internal/log"
	"github.com/zjrosen/wildo/internal/ui/listview"
)

// target is what an insert session will write to when accepted.
type target int

const (
	targetNone target = iota
	targetCreate
	targetEdit
	targetDueDate
	targetDueTime
)

func (t target) String() string {
	switch t {
	case targetCreate:
		return "create"
	case targetEdit:
		return "edit"
	case targetDueDate:
		return "due date"
	case targetDueTime:
		return "due time"
	default:
		return "none"
	}
}

// session is the transient in-place editing state of a list. It is never
// persisted.
type session struct {
	mode    insert.Mode
	target  target
	subject content.ID
}

func (s *session) begin(t target, subject content.ID, seed string) {
	s.mode.Listen()
	s.mode.ReplaceText(seed)
	s.target = t
	s.subject = subject
	log.Debug(log.CatInput, "insert started", "target", t.String(), "subject", subject.String())
}

func (s *session) end() {
	s.target = targetNone
	s.subject = content.ID{}
}

func (s *session) editing(t target, id content.ID) bool {
	return s.mode.IsListening() && s.subject == id && s.target == t
}

func (s *session) live() listview.Item {
	return listview.Item{Text: s.mode.View(0), Live: true}
}

// parent is a kind holding an editable, ordered list of children.
type parent interface {
	content.Entity
	children() *content.Container[content.ID]
	session() *session
}

func noop() content.EventAction { return action.Absorbed(content.Action{}) }

func declined() content.EventAction { return action.Unabsorbed(content.Action{}) }

func getParent(ctx *content.Context, self content.ID) (parent, error) {
	v, err := ctx.Get(self)
	if err != nil {
		return nil, err
	}
	p, ok := v.Entity().(parent)
	if !ok {
		panic(fmt.Sprintf("todo: %s is not a list", v))
	}
	return p, nil
}

func insertAt(p parent, y content.Yank) {
	p.children().Insert(y.Pos, y.ID)
}

func removeAt(p parent, y content.Yank) bool {
	return p.children().Remove(y.Pos, y.ID)
}

// addChild allocates a new child below the selection, selects it and starts
// a create session for its text.
func addChild(self content.ID, newChild func() content.Entity) content.Action {
	return content.Do(func(ctx *content.Context) error {
		p, err := getParent(ctx, self)
		if err != nil {
			return err
		}
		items := p.children()

		pos := 0
		if items.Len() > 0 {
			pos = min(items.Len(), items.Cursor().Index()+1)
		}
		id := ctx.Registry.Allocate(content.New(newChild()))
		y := content.Yank{ID: id, Pos: pos}

		insertAt(p, y)
		items.Cursor().Select(pos)
		p.session().begin(targetCreate, id, "")
		ctx.Editor.RecordPaste(self, y)
		return nil
	})
}

// rollback removes a child created by an abandoned create session. The list
// and the paste recorded by addChild each held the child, so both let go.
func rollback(self, id content.ID) content.Action {
	return content.Do(func(ctx *content.Context) error {
		p, err := getParent(ctx, self)
		if err != nil {
			return err
		}
		for i, child := range p.children().Items() {
			if child == id && removeAt(p, content.Yank{ID: id, Pos: i}) {
				ctx.Release(id)
				if ctx.Editor.ForgetPaste(self, id) {
					ctx.Release(id)
				}
				log.Debug(log.CatInput, "empty item rolled back", "handle", id.String())
				return nil
			}
		}
		log.Warn(log.CatInput, "rollback target not in list", "handle", id.String())
		return nil
	})
}

func setText(id content.ID, text string) content.Action {
	return content.Do(func(ctx *content.Context) error {
		v, err := ctx.Get(id)
		if err != nil {
			return err
		}
		v.AsTextual().SetText(text)
		return nil
	})
}

// startEdit opens a session on id seeded by seed, which reads the child at
// apply time.
func startEdit(self, id content.ID, t target, seed func(content.Content) string) content.Action {
	return content.Do(func(ctx *content.Context) error {
		child, err := ctx.Get(id)
		if err != nil {
			return err
		}
		p, err := getParent(ctx, self)
		if err != nil {
			return err
		}
		p.session().begin(t, id, seed(child))
		return nil
	})
}

func textOf(c content.Content) string { return c.AsTextual().Text() }

// deleteSelected removes the selected child and drops the list's reference.
// The child stays addressable through the cut recorded on the ledger.
func deleteSelected(self content.ID) content.Action {
	return content.Do(func(ctx *content.Context) error {
		p, err := getParent(ctx, self)
		if err != nil {
			return err
		}
		items := p.children()
		id, ok := items.Selected()
		if !ok {
			return nil
		}
		y := content.Yank{ID: id, Pos: items.Cursor().Index()}
		if removeAt(p, y) {
			ctx.Editor.RecordCut(self, y)
			ctx.Release(id)
		}
		return nil
	})
}

// commitFunc turns the trimmed text of an accepted session into an action.
type commitFunc func(t target, subject content.ID, text string) content.Action

// handleSession feeds msg to an active session. It reports false when the
// list is not editing, leaving msg to the list's own bindings.
func handleSession(self content.ID, s *session, msg tea.KeyMsg, commit commitFunc) (content.EventAction, bool) {
	if !s.mode.IsListening() {
		return content.EventAction{}, false
	}

	res := s.mode.HandleKey(msg)
	t, subject := s.target, s.subject
	switch res.Kind {
	case insert.Accepted:
		s.end()
		return action.Absorbed(commit(t, subject, strings.TrimSpace(res.Text))), true
	case insert.Rejected:
		s.end()
		if t == targetCreate {
			return action.Absorbed(rollback(self, subject)), true
		}
		return noop(), true
	default:
		return noop(), true
	}
}

// commitText handles accepted text for create and edit sessions. Empty text
// discards a new child and leaves an existing one unchanged.
func commitText(self content.ID, t target, subject content.ID, text string) content.Action {
	if text != "" {
		return setText(subject, text)
	}
	if t == targetCreate {
		return rollback(self, subject)
	}
	return content.Action{}
}

// handleStructure covers the bindings shared by every list kind. It reports
// false for keys it does not own.
func handleStructure(self content.ID, p parent, msg tea.KeyMsg, newChild func() content.Entity) (content.EventAction, bool) {
	items := p.children()
	if items.HandleKey(msg) {
		return noop(), true
	}

	switch {
	case key.Matches(msg, keys.List.Add):
		return action.Absorbed(addChild(self, newChild)), true
	case key.Matches(msg, keys.List.Edit):
		id, ok := items.Selected()
		if !ok {
			return noop(), true
		}
		return action.Absorbed(startEdit(self, id, targetEdit, textOf)), true
	case key.Matches(msg, keys.List.Delete):
		return action.Absorbed(deleteSelected(self)), true
	case key.Matches(msg, keys.List.SwapDown):
		items.SwapDown()
		return noop(), true
	case key.Matches(msg, keys.List.SwapUp):
		items.SwapUp()
		return noop(), true
	}
	return content.EventAction{}, false
}
