// Package testutil builds populated registries for tests.
package testutil

import (
	"github.com/zjrosen/wildo/internal/content"
	"github.com/zjrosen/wildo/internal/content/todo"
)

type listData struct {
	title string
	items []ItemSpec
}

// Builder accumulates lists and creates them under a collection root.
type Builder struct {
	title string
	lists []listData
}

// NewBuilder starts a collection titled title.
func NewBuilder(title string) *Builder {
	return &Builder{title: title}
}

// WithList adds a list holding items in order.
func (b *Builder) WithList(title string, items ...ItemSpec) *Builder {
	b.lists = append(b.lists, listData{title: title, items: items})
	return b
}

// Build allocates every entity and returns a context focused on the root.
// The ledger starts clean.
func (b *Builder) Build() *content.Context {
	root := todo.NewCollection(b.title)
	ctx := content.NewContext(root)

	for _, l := range b.lists {
		list := todo.NewTodoList(l.title)
		for i, item := range l.items {
			id := ctx.Registry.Allocate(content.New(item.entity()))
			list.Insert(content.Yank{ID: id, Pos: i})
		}
		id := ctx.Registry.Allocate(content.New(list))
		root.Insert(content.Yank{ID: id, Pos: root.Lists.Len()})
	}
	root.Cursor().First()
	return ctx
}

// Root returns the collection at the bottom of ctx's stack.
func Root(ctx *content.Context) *todo.Collection {
	v, ok := ctx.Registry.Get(ctx.Stack.Root())
	if !ok {
		panic("testutil: root missing")
	}
	return content.Downcast[*todo.Collection](v)
}

// List returns the i-th list of the root collection.
func List(ctx *content.Context, i int) *todo.TodoList {
	id, ok := Root(ctx).Get(i)
	if !ok {
		panic("testutil: no list at index")
	}
	v, _ := ctx.Registry.Get(id)
	return content.Downcast[*todo.TodoList](v)
}

// Texts returns the item texts of list in order.
func Texts(ctx *content.Context, list *todo.TodoList) []string {
	var out []string
	for _, id := range list.Items.Items() {
		v, ok := ctx.Registry.Get(id)
		if !ok {
			continue
		}
		out = append(out, v.AsTextual().Text())
	}
	return out
}
