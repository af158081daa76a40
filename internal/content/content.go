// Package content defines the type-erased entity wrapper stored in the
// registry, the optional capabilities an entity can play, and the execution
// context actions run against.
//
// Concrete kinds opt in to a capability by implementing its interface; the
// As* accessors on Content discover them at run time.
package content

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/wildo/internal/action"
	"github.com/zjrosen/wildo/internal/edit"
	"github.com/zjrosen/wildo/internal/nav"
	"github.com/zjrosen/wildo/internal/registry"
	"github.com/zjrosen/wildo/internal/ui/listview"
)

type (
	// ID addresses a Content in a Register.
	ID = registry.Handle[Content]
	// Register owns every Content.
	Register = registry.Registry[Content]
	// EditManager is the yank/edit ledger over content handles.
	EditManager = edit.Manager[ID]
	// Stack is the focus path.
	Stack = nav.Stack[ID]
	// Yank names a child at a position in a container.
	Yank = edit.Yank[ID]
	// Action is a deferred command over a Context.
	Action = action.Action[*Context]
	// EventAction is what an event handler returns.
	EventAction = action.EventAction[Action]
)

// Textual is mandatory: every entity has text, a list rendering, and a setter.
type Textual interface {
	Text() string
	Render() listview.Item
	SetText(string)
}

// Entity is a concrete content kind. Kind names it in snapshots; Clone must
// return an independent deep copy.
type Entity interface {
	Textual
	Kind() string
	Clone() Entity
}

// Widget entities can be focused and drawn as a whole view.
type Widget interface {
	Display(DisplayContext) listview.Output
}

// EventHandler entities see key events while focused.
type EventHandler interface {
	HandleEvent(msg tea.KeyMsg, self ID) EventAction
}

// YankDest entities hold children that can be inserted and removed.
// Remove reports false when the child at the position is not the one named.
type YankDest interface {
	Insert(Yank)
	Remove(Yank) bool
}

// Provider entities expose an ordered, selectable set of children.
type Provider interface {
	Get(i int) (ID, bool)
	Selected() (ID, bool)
	Cursor() *Cursor
}

// Content wraps one entity.
type Content struct {
	entity Entity
}

// New wraps e. It panics on a nil entity.
func New(e Entity) Content {
	if e == nil {
		panic("content: nil entity")
	}
	return Content{entity: e}
}

// Entity returns the wrapped entity.
func (c Content) Entity() Entity { return c.entity }

// Kind returns the entity's kind name.
func (c Content) Kind() string { return c.entity.Kind() }

// AsTextual always succeeds.
func (c Content) AsTextual() Textual { return c.entity }

// AsWidget reports whether the entity can be displayed as a list.
func (c Content) AsWidget() (Widget, bool) {
	w, ok := c.entity.(Widget)
	return w, ok
}

// AsEventHandler reports whether the entity handles keys while focused.
func (c Content) AsEventHandler() (EventHandler, bool) {
	h, ok := c.entity.(EventHandler)
	return h, ok
}

// AsYankDest reports whether children can be inserted into and removed from the entity.
func (c Content) AsYankDest() (YankDest, bool) {
	d, ok := c.entity.(YankDest)
	return d, ok
}

// AsProvider reports whether the entity exposes selectable children.
func (c Content) AsProvider() (Provider, bool) {
	p, ok := c.entity.(Provider)
	return p, ok
}

// Clone deep-copies the wrapped entity.
func (c Content) Clone() Content { return Content{entity: c.entity.Clone()} }

func (c Content) String() string {
	if c.entity == nil {
		return "<empty>"
	}
	return fmt.Sprintf("%s(%q)", c.entity.Kind(), c.entity.Text())
}

// Downcast returns the wrapped entity as T. The caller must know the kind;
// a mismatch panics.
func Downcast[T Entity](c Content) T {
	v, ok := c.entity.(T)
	if !ok {
		var want T
		panic(fmt.Sprintf("content: cannot downcast %s to %T", c, want))
	}
	return v
}

// DisplayContext gives widgets read access to the registry.
type DisplayContext struct {
	reg *Register
}

// NewDisplayContext wraps reg for drawing.
func NewDisplayContext(reg *Register) DisplayContext { return DisplayContext{reg: reg} }

// Get resolves id.
func (d DisplayContext) Get(id ID) (Content, bool) { return d.reg.Get(id) }

// Render returns the list rendering of id, or a placeholder for a dangling handle.
func (d DisplayContext) Render(id ID) listview.Item {
	c, ok := d.reg.Get(id)
	if !ok {
		return listview.Item{Text: "<missing " + id.String() + ">"}
	}
	return c.AsTextual().Render()
}
