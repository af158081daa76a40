package content

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/wildo/internal/keys"
)

// Cursor is a selection index bounded by the length of its container.
// When the container is non-empty the index is always valid.
type Cursor struct {
	index int
	size  int
}

// Index returns the selected position. On an empty container it is 0 and
// selects nothing.
func (c *Cursor) Index() int { return c.index }

// Select moves to i, clamped to the container bounds.
func (c *Cursor) Select(i int) {
	c.index = max(0, min(i, c.size-1))
}

// Next selects the following child, stopping at the last.
func (c *Cursor) Next() { c.Select(c.index + 1) }

// Prev selects the preceding child, stopping at the first.
func (c *Cursor) Prev() { c.Select(c.index - 1) }

// First selects the first child.
func (c *Cursor) First() { c.Select(0) }

// Last selects the last child.
func (c *Cursor) Last() { c.Select(c.size - 1) }

func (c *Cursor) resize(n int) {
	c.size = n
	c.Select(c.index)
}

// Container is an ordered list of children plus a selection cursor.
// The selection is not persisted.
type Container[T comparable] struct {
	items  []T
	cursor Cursor
}

// NewContainer creates a container holding items with the first selected.
func NewContainer[T comparable](items ...T) Container[T] {
	c := Container[T]{items: slices.Clone(items)}
	c.cursor.resize(len(c.items))
	return c
}

// Len returns the number of children.
func (c *Container[T]) Len() int { return len(c.items) }

// Get returns the child at i.
func (c *Container[T]) Get(i int) (T, bool) {
	if i < 0 || i >= len(c.items) {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// Items returns a copy of the children.
func (c *Container[T]) Items() []T { return slices.Clone(c.items) }

// Selected returns the selected child, if any.
func (c *Container[T]) Selected() (T, bool) { return c.Get(c.cursor.index) }

// Cursor returns the selection cursor.
func (c *Container[T]) Cursor() *Cursor { return &c.cursor }

// Insert places id at pos, shifting later children back. pos may equal Len.
// Inserting at or before the selection moves the selection with the
// previously selected child. A pos outside [0, Len] panics.
func (c *Container[T]) Insert(pos int, id T) {
	if pos < 0 || pos > len(c.items) {
		panic(fmt.Sprintf("content: insert at %d into container of %d", pos, len(c.items)))
	}
	wasEmpty := len(c.items) == 0
	c.items = slices.Insert(c.items, pos, id)
	c.cursor.size = len(c.items)
	if !wasEmpty && pos <= c.cursor.index {
		c.cursor.Select(c.cursor.index + 1)
	}
}

// Remove deletes the child at pos if it is id. Removing at or before the
// selection moves the selection back by one, clamped.
func (c *Container[T]) Remove(pos int, id T) bool {
	if pos < 0 || pos >= len(c.items) || c.items[pos] != id {
		return false
	}
	c.items = slices.Delete(c.items, pos, pos+1)
	c.cursor.size = len(c.items)
	if pos <= c.cursor.index {
		c.cursor.Select(c.cursor.index - 1)
	} else {
		c.cursor.Select(c.cursor.index)
	}
	return true
}

// SwapDown exchanges the selected child with the next one and keeps it
// selected. It reports whether anything moved.
func (c *Container[T]) SwapDown() bool {
	i := c.cursor.index
	if i+1 >= len(c.items) {
		return false
	}
	c.items[i], c.items[i+1] = c.items[i+1], c.items[i]
	c.cursor.Select(i + 1)
	return true
}

// SwapUp exchanges the selected child with the previous one and keeps it
// selected.
func (c *Container[T]) SwapUp() bool {
	i := c.cursor.index
	if i == 0 || i >= len(c.items) {
		return false
	}
	c.items[i], c.items[i-1] = c.items[i-1], c.items[i]
	c.cursor.Select(i - 1)
	return true
}

// HandleKey moves the cursor for navigation keys and reports whether the
// key was one.
func (c *Container[T]) HandleKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, keys.List.Up):
		c.cursor.Prev()
	case key.Matches(msg, keys.List.Down):
		c.cursor.Next()
	case key.Matches(msg, keys.List.Home):
		c.cursor.First()
	case key.Matches(msg, keys.List.End):
		c.cursor.Last()
	default:
		return false
	}
	return true
}

// Clone returns an independent copy with the same selection.
func (c Container[T]) Clone() Container[T] {
	return Container[T]{items: slices.Clone(c.items), cursor: c.cursor}
}

// MarshalYAML writes the children as a sequence.
func (c Container[T]) MarshalYAML() (any, error) {
	if c.items == nil {
		return []T{}, nil
	}
	return c.items, nil
}

// UnmarshalYAML reads a sequence of children and selects the first.
func (c *Container[T]) UnmarshalYAML(node *yaml.Node) error {
	var items []T
	if err := node.Decode(&items); err != nil {
		return err
	}
	*c = NewContainer(items...)
	return nil
}
