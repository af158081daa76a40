package content

import (
	"errors"
	"fmt"

	"github.com/zjrosen/wildo/internal/action"
	"github.com/zjrosen/wildo/internal/edit"
	"github.com/zjrosen/wildo/internal/log"
	"github.com/zjrosen/wildo/internal/nav"
	"github.com/zjrosen/wildo/internal/registry"
)

// ErrMissing is returned when a handle no longer addresses anything.
var ErrMissing = errors.New("entity not found")

// Context bundles the state that actions mutate. Actions receive it as a
// parameter when applied and must not keep it.
type Context struct {
	Registry *Register
	Editor   *EditManager
	Stack    *Stack
}

// NewContext allocates root into a fresh registry and focuses it.
func NewContext(root Entity) *Context {
	reg := registry.New[Content]()
	id := reg.Allocate(New(root))
	return &Context{
		Registry: reg,
		Editor:   edit.NewManager[ID](),
		Stack:    nav.New(id),
	}
}

// Get resolves id or returns ErrMissing.
func (c *Context) Get(id ID) (Content, error) {
	v, ok := c.Registry.Get(id)
	if !ok {
		return Content{}, fmt.Errorf("%s: %w", id, ErrMissing)
	}
	return v, nil
}

// Focused returns the entity at the top of the stack.
func (c *Context) Focused() (ID, Content, error) {
	id := c.Stack.Top()
	v, err := c.Get(id)
	return id, v, err
}

// MoveDeeper focuses the selected child of the focused entity when that child
// is a widget. Anything else is a no-op.
func (c *Context) MoveDeeper() error {
	_, top, err := c.Focused()
	if err != nil {
		return err
	}
	p, ok := top.AsProvider()
	if !ok {
		return nil
	}
	child, ok := p.Selected()
	if !ok {
		return nil
	}
	target, err := c.Get(child)
	if err != nil {
		return err
	}
	if _, ok := target.AsWidget(); !ok {
		log.Debug(log.CatAction, "not a widget", "handle", child.String(), "kind", target.Kind())
		return nil
	}
	c.Stack.Push(child)
	return nil
}

// MoveShallower returns focus to the parent. At the root it does nothing.
func (c *Context) MoveShallower() error {
	c.Stack.Pop()
	return nil
}

// MoveUp is not implemented.
func (c *Context) MoveUp() error { return action.ErrNotImplemented }

// MoveDown is not implemented.
func (c *Context) MoveDown() error { return action.ErrNotImplemented }

// Release drops one reference to id. When that removes the entity, each of
// its children is released in turn.
func (c *Context) Release(id ID) {
	v, removed := c.Registry.Unregister(id)
	if !removed {
		return
	}
	p, ok := v.AsProvider()
	if !ok {
		return
	}
	for i := 0; ; i++ {
		child, ok := p.Get(i)
		if !ok {
			break
		}
		if c.Registry.Contains(child) {
			c.Release(child)
		}
	}
}

// Apply runs a against c.
func (c *Context) Apply(a Action) error {
	return action.Apply(a, c)
}

// Call defers fn.
func Call(fn func(*Context) (Action, error)) Action {
	return action.Call[*Context](fn)
}

// Do defers fn, which has no follow-up.
func Do(fn func(*Context) error) Action {
	return action.Do[*Context](fn)
}

// Mutate defers a change to the entity at id, which must be of kind T.
func Mutate[T Entity](id ID, fn func(T) error) Action {
	return Do(func(ctx *Context) error {
		v, err := ctx.Get(id)
		if err != nil {
			return err
		}
		return fn(Downcast[T](v))
	})
}
