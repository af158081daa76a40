// Package todo provides the concrete content kinds: to-do items, to-do
// lists and the root collection of lists.
package todo

import (
	"fmt"
	"time"

	"github.com/zjrosen/wildo/internal/content"
	"github.com/zjrosen/wildo/internal/ui/listview"
	"github.com/zjrosen/wildo/internal/ui/styles"
)

// Kind names as written to snapshots.
const (
	KindTodo       = "todo"
	KindTodoList   = "todo_list"
	KindCollection = "collection"
)

func init() {
	content.RegisterKind(KindTodo, func() content.Entity { return &Todo{} })
	content.RegisterKind(KindTodoList, func() content.Entity { return &TodoList{} })
	content.RegisterKind(KindCollection, func() content.Entity { return &Collection{} })
}

// DateLayout is how due dates are shown: day-month-year, zero padded.
const DateLayout = "02-01-2006"

// inputLayout accepts day and month with or without a leading zero.
const inputLayout = "2-1-2006"

// Date is a calendar day.
type Date struct {
	Day   int `yaml:"day"`
	Month int `yaml:"month"`
	Year  int `yaml:"year"`
}

// ParseDate reads a day-month-year date such as 05-03-2024 or 5-3-2024.
// Dates that do not exist, such as 31-02-2024, are rejected.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(inputLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing due date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar day of t.
func DateOf(t time.Time) Date {
	return Date{Day: t.Day(), Month: int(t.Month()), Year: t.Year()}
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string { return d.Time().Format(DateLayout) }

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool { return d.Time().Before(other.Time()) }

// TimeOfDay is a due time. It is stored but cannot be edited yet.
type TimeOfDay struct {
	Hour   int `yaml:"hour"`
	Minute int `yaml:"minute"`
	Second int `yaml:"second"`
}

// Status is a to-do's completion state.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusIgnored Status = "ignored"
)

// Next is the status "c" moves to.
func (s Status) Next() Status {
	switch s {
	case StatusPending, StatusIgnored:
		return StatusDone
	default:
		return StatusPending
	}
}

// Todo is a leaf item.
type Todo struct {
	Content string     `yaml:"content"`
	DueDate *Date      `yaml:"due_date,omitempty"`
	DueTime *TimeOfDay `yaml:"due_time,omitempty"`
	Status  Status     `yaml:"status"`
}

// NewTodo creates a pending item.
func NewTodo(text string) *Todo {
	return &Todo{Content: text, Status: StatusPending}
}

func (t *Todo) Kind() string { return KindTodo }

func (t *Todo) Clone() content.Entity {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.DueTime != nil {
		tm := *t.DueTime
		c.DueTime = &tm
	}
	return &c
}

func (t *Todo) Text() string { return t.Content }

func (t *Todo) SetText(s string) { t.Content = s }

func (t *Todo) Render() listview.Item {
	style := styles.TodoPendingStyle
	switch t.Status {
	case StatusDone:
		style = styles.TodoDoneStyle
	case StatusIgnored:
		style = styles.TodoIgnoredStyle
	}
	return listview.Item{Text: t.Content, Style: style}
}

// Overdue reports whether a pending item's due date is before today.
func (t *Todo) Overdue(today Date) bool {
	return t.Status == StatusPending && t.DueDate != nil && t.DueDate.Before(today)
}

// CycleStatus advances the status: pending to done, done to pending and
// ignored to done.
func (t *Todo) CycleStatus() { t.Status = t.Status.Next() }

// ToggleIgnored switches between ignored and pending.
func (t *Todo) ToggleIgnored() {
	if t.Status == StatusIgnored {
		t.Status = StatusPending
		return
	}
	t.Status = StatusIgnored
}
