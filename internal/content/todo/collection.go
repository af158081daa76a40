package todo

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/wildo/internal/content"
	"github.com/zjrosen/wildo/internal/ui/listview"
	"github.com/zjrosen/wildo/internal/ui/styles"
)

// Collection is the root: a titled list of to-do lists.
type Collection struct {
	Title string                        `yaml:"title"`
	Lists content.Container[content.ID] `yaml:"lists"`

	edit session
}

// NewCollection creates an empty collection.
func NewCollection(title string) *Collection {
	return &Collection{Title: title, Lists: content.NewContainer[content.ID]()}
}

func (c *Collection) Kind() string { return KindCollection }

func (c *Collection) Clone() content.Entity {
	return &Collection{Title: c.Title, Lists: c.Lists.Clone()}
}

func (c *Collection) Text() string { return c.Title }

func (c *Collection) SetText(s string) { c.Title = s }

func (c *Collection) Render() listview.Item {
	return listview.Item{Text: c.Title, Style: styles.TextStyle}
}

func (c *Collection) children() *content.Container[content.ID] { return &c.Lists }

func (c *Collection) session() *session { return &c.edit }

// Editing reports whether a list name is being edited.
func (c *Collection) Editing() bool { return c.edit.mode.IsListening() }

func (c *Collection) Insert(y content.Yank) { insertAt(c, y) }

func (c *Collection) Remove(y content.Yank) bool { return removeAt(c, y) }

func (c *Collection) Get(i int) (content.ID, bool) { return c.Lists.Get(i) }

func (c *Collection) Selected() (content.ID, bool) { return c.Lists.Selected() }

func (c *Collection) Cursor() *content.Cursor { return c.Lists.Cursor() }

func (c *Collection) HandleEvent(msg tea.KeyMsg, self content.ID) content.EventAction {
	commit := func(t target, subject content.ID, text string) content.Action {
		return commitText(self, t, subject, text)
	}
	if ea, ok := handleSession(self, &c.edit, msg, commit); ok {
		return ea
	}
	if ea, ok := handleStructure(self, c, msg, func() content.Entity { return NewTodoList("") }); ok {
		return ea
	}
	return declined()
}

func (c *Collection) Display(dc content.DisplayContext) listview.Output {
	names := listview.Column{Header: "List", Ratio: 3}
	counts := listview.Column{Header: "Done", Ratio: 1}

	for _, id := range c.Lists.Items() {
		name := dc.Render(id)
		if c.edit.editing(targetCreate, id) || c.edit.editing(targetEdit, id) {
			name = c.edit.live()
		}
		names.Items = append(names.Items, name)
		counts.Items = append(counts.Items, listview.Item{Text: progress(dc, id), Style: styles.MutedStyle})
	}

	return listview.Output{
		Title:   c.Title,
		Columns: []listview.Column{names, counts},
		Empty:   "No lists. Press a to add one.",
	}
}

// progress renders "done/total" for the list at id, ignoring ignored items.
func progress(dc content.DisplayContext, id content.ID) string {
	v, ok := dc.Get(id)
	if !ok {
		return ""
	}
	list, ok := v.Entity().(*TodoList)
	if !ok {
		return ""
	}
	var done, total int
	for _, child := range list.Items.Items() {
		cv, ok := dc.Get(child)
		if !ok {
			continue
		}
		t, ok := cv.Entity().(*Todo)
		if !ok || t.Status == StatusIgnored {
			continue
		}
		total++
		if t.Status == StatusDone {
			done++
		}
	}
	return fmt.Sprintf("%d/%d", done, total)
}
