package testutil

import "github.com/zjrosen/wildo/internal/content/todo"

// itemData holds everything needed to create one to-do item.
type itemData struct {
	text    string
	status  todo.Status
	dueDate *todo.Date
}

// ItemOption configures an item during builder setup.
type ItemOption func(*itemData)

// Done marks the item done.
func Done() ItemOption {
	return func(i *itemData) { i.status = todo.StatusDone }
}

// Ignored marks the item ignored.
func Ignored() ItemOption {
	return func(i *itemData) { i.status = todo.StatusIgnored }
}

// Due sets the due date.
func Due(day, month, year int) ItemOption {
	return func(i *itemData) { i.dueDate = &todo.Date{Day: day, Month: month, Year: year} }
}

// ItemSpec describes one item for WithList.
type ItemSpec struct {
	data itemData
}

// Item creates an ItemSpec with the given text, pending by default.
func Item(text string, opts ...ItemOption) ItemSpec {
	d := itemData{text: text, status: todo.StatusPending}
	for _, opt := range opts {
		opt(&d)
	}
	return ItemSpec{data: d}
}

func (s ItemSpec) entity() *todo.Todo {
	t := todo.NewTodo(s.data.text)
	t.Status = s.data.status
	if s.data.dueDate != nil {
		d := *s.data.dueDate
		t.DueDate = &d
	}
	return t
}
