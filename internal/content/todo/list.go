package todo

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/wildo/internal/action"
	"github.com/zjrosen/wildo/internal/content"
	"github.com/zjrosen/wildo/internal/keys"
	"github.com/zjrosen/wildo/internal/log"
	"github.com/zjrosen/wildo/internal/ui/listview"
	"github.com/zjrosen/wildo/internal/ui/styles"
)

// now is the clock used to flag overdue items.
var now = time.Now

// TodoList is an ordered list of to-do items.
type TodoList struct {
	Title string                        `yaml:"title"`
	Items content.Container[content.ID] `yaml:"items"`

	edit session
}

// NewTodoList creates an empty list.
func NewTodoList(title string) *TodoList {
	return &TodoList{Title: title, Items: content.NewContainer[content.ID]()}
}

func (l *TodoList) Kind() string { return KindTodoList }

// Clone copies the list without its editing state. Child handles are shared.
func (l *TodoList) Clone() content.Entity {
	return &TodoList{Title: l.Title, Items: l.Items.Clone()}
}

func (l *TodoList) Text() string { return l.Title }

func (l *TodoList) SetText(s string) { l.Title = s }

func (l *TodoList) Render() listview.Item {
	return listview.Item{Text: l.Title, Style: styles.TextStyle}
}

func (l *TodoList) children() *content.Container[content.ID] { return &l.Items }

func (l *TodoList) session() *session { return &l.edit }

// Editing reports whether a line is being edited in the list.
func (l *TodoList) Editing() bool { return l.edit.mode.IsListening() }

func (l *TodoList) Insert(y content.Yank) { insertAt(l, y) }

func (l *TodoList) Remove(y content.Yank) bool { return removeAt(l, y) }

func (l *TodoList) Get(i int) (content.ID, bool) { return l.Items.Get(i) }

func (l *TodoList) Selected() (content.ID, bool) { return l.Items.Selected() }

func (l *TodoList) Cursor() *content.Cursor { return l.Items.Cursor() }

func (l *TodoList) HandleEvent(msg tea.KeyMsg, self content.ID) content.EventAction {
	if ea, ok := handleSession(self, &l.edit, msg, l.commit(self)); ok {
		return ea
	}
	if ea, ok := handleStructure(self, l, msg, func() content.Entity { return NewTodo("") }); ok {
		return ea
	}

	selected, ok := l.Items.Selected()
	switch {
	case key.Matches(msg, keys.Todo.DueDate):
		if !ok {
			return noop()
		}
		return action.Absorbed(startEdit(self, selected, targetDueDate, dueDateOf))
	case key.Matches(msg, keys.Todo.NewDueDate):
		if ok {
			l.edit.begin(targetDueDate, selected, "")
		}
		return noop()
	case key.Matches(msg, keys.Todo.DueTime):
		return action.Absorbed(content.Do(func(*content.Context) error {
			return fmt.Errorf("due time: %w", action.ErrNotImplemented)
		}))
	case key.Matches(msg, keys.Todo.CycleStatus):
		if !ok {
			return noop()
		}
		return action.Absorbed(content.Mutate(selected, func(t *Todo) error {
			t.CycleStatus()
			return nil
		}))
	case key.Matches(msg, keys.Todo.ToggleIgnore):
		if !ok {
			return noop()
		}
		return action.Absorbed(content.Mutate(selected, func(t *Todo) error {
			t.ToggleIgnored()
			return nil
		}))
	}
	return declined()
}

func (l *TodoList) commit(self content.ID) commitFunc {
	return func(t target, subject content.ID, text string) content.Action {
		if t != targetDueDate {
			return commitText(self, t, subject, text)
		}
		return content.Mutate(subject, func(td *Todo) error {
			if text == "" {
				td.DueDate = nil
				return nil
			}
			d, err := ParseDate(text)
			if err != nil {
				log.Warn(log.CatInput, "due date unchanged", "input", text, "error", err)
				return nil
			}
			td.DueDate = &d
			return nil
		})
	}
}

func dueDateOf(c content.Content) string {
	t, ok := c.Entity().(*Todo)
	if !ok || t.DueDate == nil {
		return ""
	}
	return t.DueDate.String()
}

func (l *TodoList) Display(dc content.DisplayContext) listview.Output {
	today := DateOf(now())
	text := listview.Column{Header: "To-do", Ratio: 2}
	due := listview.Column{Header: "Due", Ratio: 1}

	for _, id := range l.Items.Items() {
		item := dc.Render(id)
		date := listview.Item{Style: styles.MutedStyle}
		if c, ok := dc.Get(id); ok {
			if t, ok := c.Entity().(*Todo); ok {
				if t.DueDate != nil {
					date.Text = t.DueDate.String()
				}
				if t.Overdue(today) {
					date.Style = styles.TodoOverdueStyle
				}
			}
		}

		switch {
		case l.edit.editing(targetCreate, id), l.edit.editing(targetEdit, id):
			item = l.edit.live()
		case l.edit.editing(targetDueDate, id):
			date = l.edit.live()
		}
		text.Items = append(text.Items, item)
		due.Items = append(due.Items, date)
	}

	return listview.Output{
		Title:   l.Title,
		Columns: []listview.Column{text, due},
		Empty:   "No items. Press a to add one.",
	}
}
