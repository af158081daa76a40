package todo

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/wildo/internal/action"
	"github.com/zjrosen/wildo/internal/content"
	"github.com/zjrosen/wildo/internal/edit"
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter  = tea.KeyMsg{Type: tea.KeyEnter}
	esc    = tea.KeyMsg{Type: tea.KeyEsc}
	ctrlJ  = tea.KeyMsg{Type: tea.KeyCtrlJ}
	ctrlK  = tea.KeyMsg{Type: tea.KeyCtrlK}
	bspace = tea.KeyMsg{Type: tea.KeyBackspace}
)

// send delivers msg to the focused entity and applies what it returns.
func send(t *testing.T, ctx *content.Context, msg tea.KeyMsg) (bool, error) {
	t.Helper()
	id, top, err := ctx.Focused()
	require.NoError(t, err)
	h, ok := top.AsEventHandler()
	require.True(t, ok)
	ea := h.HandleEvent(msg, id)
	return ea.IsAbsorbed(), ctx.Apply(ea.Value())
}

func press(t *testing.T, ctx *content.Context, msgs ...tea.KeyMsg) {
	t.Helper()
	for _, msg := range msgs {
		absorbed, err := send(t, ctx, msg)
		require.NoError(t, err)
		require.True(t, absorbed, "key %q", msg.String())
	}
}

func typed(s string) []tea.KeyMsg {
	var out []tea.KeyMsg
	for _, r := range s {
		if r == ' ' {
			out = append(out, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		out = append(out, runes(string(r)))
	}
	return out
}

func newListContext() (*content.Context, *TodoList) {
	ctx := content.NewContext(NewTodoList("groceries"))
	root, _ := ctx.Registry.Get(ctx.Stack.Root())
	return ctx, content.Downcast[*TodoList](root)
}

func addItem(t *testing.T, ctx *content.Context, text string) {
	t.Helper()
	press(t, ctx, runes("a"))
	press(t, ctx, typed(text)...)
	press(t, ctx, enter)
}

func todoAt(t *testing.T, ctx *content.Context, l *TodoList, i int) *Todo {
	t.Helper()
	id, ok := l.Get(i)
	require.True(t, ok)
	v, err := ctx.Get(id)
	require.NoError(t, err)
	return content.Downcast[*Todo](v)
}

func TestTodoList_EmptyCreateRollsBack(t *testing.T) {
	ctx, l := newListContext()

	press(t, ctx, runes("a"))
	require.True(t, l.Editing())
	require.Equal(t, 1, l.Items.Len(), "placeholder is inserted while editing")
	require.Equal(t, 2, ctx.Registry.Len())

	press(t, ctx, typed("   ")...)
	press(t, ctx, enter)

	require.False(t, l.Editing())
	require.Zero(t, l.Items.Len())
	require.Equal(t, 1, ctx.Registry.Len(), "placeholder is released")
	require.Empty(t, ctx.Editor.EditStack, "the paste that created it is forgotten")
}

func TestTodoList_RejectedCreateRollsBack(t *testing.T) {
	ctx, l := newListContext()

	press(t, ctx, runes("a"))
	press(t, ctx, typed("half typed")...)
	press(t, ctx, esc)

	require.Zero(t, l.Items.Len())
	require.Equal(t, 1, ctx.Registry.Len())
	require.Empty(t, ctx.Editor.EditStack)
}

func TestTodoList_CreateItem(t *testing.T) {
	ctx, l := newListContext()

	addItem(t, ctx, "  Buy milk ")

	require.Equal(t, 1, l.Items.Len())
	td := todoAt(t, ctx, l, 0)
	require.Equal(t, "Buy milk", td.Text())
	require.Equal(t, StatusPending, td.Status)

	require.Len(t, ctx.Editor.EditStack, 1)
	require.Equal(t, edit.KindPasted, ctx.Editor.EditStack[0].Kind)
	require.Equal(t, ctx.Stack.Root(), ctx.Editor.EditStack[0].Source)
}

func TestTodoList_AddInsertsBelowSelection(t *testing.T) {
	ctx, l := newListContext()
	addItem(t, ctx, "one")
	addItem(t, ctx, "three")
	press(t, ctx, runes("k"))
	addItem(t, ctx, "two")

	require.Equal(t, "one", todoAt(t, ctx, l, 0).Text())
	require.Equal(t, "two", todoAt(t, ctx, l, 1).Text())
	require.Equal(t, "three", todoAt(t, ctx, l, 2).Text())
	require.Equal(t, 1, l.Cursor().Index())
}

func TestTodoList_SwapMovesSelection(t *testing.T) {
	ctx, l := newListContext()
	addItem(t, ctx, "A")
	addItem(t, ctx, "B")
	press(t, ctx, runes("g"))

	press(t, ctx, ctrlJ)
	require.Equal(t, "B", todoAt(t, ctx, l, 0).Text())
	require.Equal(t, "A", todoAt(t, ctx, l, 1).Text())
	require.Equal(t, 1, l.Cursor().Index())

	press(t, ctx, ctrlK)
	require.Equal(t, "A", todoAt(t, ctx, l, 0).Text())
	require.Equal(t, 0, l.Cursor().Index())
}

func TestTodoList_EditSeedsCurrentText(t *testing.T) {
	ctx, l := newListContext()
	addItem(t, ctx, "milk")

	press(t, ctx, runes("i"))
	require.Equal(t, "milk", l.edit.mode.Text())
	press(t, ctx, typed(" and eggs")...)
	press(t, ctx, enter)
	require.Equal(t, "milk and eggs", todoAt(t, ctx, l, 0).Text())

	press(t, ctx, runes("i"))
	for range len("milk and eggs") {
		press(t, ctx, bspace)
	}
	press(t, ctx, enter)
	require.Equal(t, "milk and eggs", todoAt(t, ctx, l, 0).Text(), "empty edit keeps the text")
	require.Equal(t, 1, l.Items.Len())
}

func TestTodoList_InvalidDateKeepsOld(t *testing.T) {
	ctx, l := newListContext()
	addItem(t, ctx, "rent")

	press(t, ctx, runes("D"))
	press(t, ctx, typed("01-02-2024")...)
	press(t, ctx, enter)
	require.Equal(t, &Date{Day: 1, Month: 2, Year: 2024}, todoAt(t, ctx, l, 0).DueDate)

	press(t, ctx, runes("D"))
	press(t, ctx, typed("31-02-2024")...)
	press(t, ctx, enter)
	require.Equal(t, &Date{Day: 1, Month: 2, Year: 2024}, todoAt(t, ctx, l, 0).DueDate)

	press(t, ctx, runes("D"))
	press(t, ctx, typed("7-4-2024")...)
	press(t, ctx, enter)
	require.Equal(t, &Date{Day: 7, Month: 4, Year: 2024}, todoAt(t, ctx, l, 0).DueDate, "unpadded input is accepted")
}

func TestTodoList_DueDateEditAndClear(t *testing.T) {
	ctx, l := newListContext()
	addItem(t, ctx, "rent")
	todoAt(t, ctx, l, 0).DueDate = &Date{Day: 5, Month: 7, Year: 2025}

	press(t, ctx, runes("d"))
	require.Equal(t, "05-07-2025", l.edit.mode.Text())
	for range 10 {
		press(t, ctx, bspace)
	}
	press(t, ctx, enter)
	require.Nil(t, todoAt(t, ctx, l, 0).DueDate)
}

func TestTodoList_DueTimeNotImplemented(t *testing.T) {
	ctx, _ := newListContext()
	addItem(t, ctx, "call")

	absorbed, err := send(t, ctx, runes("t"))
	require.True(t, absorbed)
	require.True(t, errors.Is(err, action.ErrNotImplemented))
}

func TestTodoList_StatusKeys(t *testing.T) {
	ctx, l := newListContext()
	addItem(t, ctx, "gym")

	press(t, ctx, runes("c"))
	require.Equal(t, StatusDone, todoAt(t, ctx, l, 0).Status)
	press(t, ctx, runes("I"))
	require.Equal(t, StatusIgnored, todoAt(t, ctx, l, 0).Status)
	press(t, ctx, runes("c"))
	require.Equal(t, StatusDone, todoAt(t, ctx, l, 0).Status)
}

func TestTodoList_DeleteRecordsCut(t *testing.T) {
	ctx, l := newListContext()
	addItem(t, ctx, "a")
	addItem(t, ctx, "b")
	id, _ := l.Selected()

	press(t, ctx, runes("X"))

	require.Equal(t, 1, l.Items.Len())
	require.Equal(t, "a", todoAt(t, ctx, l, 0).Text())

	last := ctx.Editor.EditStack[len(ctx.Editor.EditStack)-1]
	require.Equal(t, edit.KindYanked, last.Kind)
	require.Equal(t, edit.Cut, last.YankType)
	require.Equal(t, []content.Yank{{ID: id, Pos: 1}}, last.Yanks)

	// The list let go; the ledger entry keeps the item addressable at zero.
	require.True(t, ctx.Registry.Contains(id))
	_, removed := ctx.Registry.Unregister(id)
	require.True(t, removed)
}

func TestTodoList_DeclinesUnknownKeys(t *testing.T) {
	ctx, _ := newListContext()
	absorbed, err := send(t, ctx, runes("q"))
	require.NoError(t, err)
	require.False(t, absorbed)

	absorbed, err = send(t, ctx, runes("y"))
	require.NoError(t, err)
	require.False(t, absorbed, "yank belongs to the ledger")
}

func TestTodoList_InsertModeAbsorbsQuit(t *testing.T) {
	ctx, l := newListContext()
	press(t, ctx, runes("a"))
	press(t, ctx, runes("q"))
	require.Equal(t, "q", l.edit.mode.Text())
}

func TestTodoList_Display(t *testing.T) {
	prev := now
	now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = prev })

	ctx, l := newListContext()
	addItem(t, ctx, "late")
	todoAt(t, ctx, l, 0).DueDate = &Date{Day: 1, Month: 3, Year: 2025}
	press(t, ctx, runes("a"))

	out := l.Display(content.NewDisplayContext(ctx.Registry))
	require.Equal(t, "groceries", out.Title)
	require.Len(t, out.Columns, 2)
	require.Equal(t, 2, out.Rows())
	require.Equal(t, "late", out.Columns[0].Items[0].Text)
	require.Equal(t, "01-03-2025", out.Columns[1].Items[0].Text)
	require.True(t, out.Columns[0].Items[1].Live, "the new row shows the insert line")
}

func TestCollection_AddRenameDelete(t *testing.T) {
	ctx := content.NewContext(NewCollection("home"))
	root, _ := ctx.Registry.Get(ctx.Stack.Root())
	c := content.Downcast[*Collection](root)

	addItem(t, ctx, "chores")
	require.Equal(t, 1, c.Lists.Len())
	listID, _ := c.Selected()

	press(t, ctx, runes("i"))
	press(t, ctx, typed("!")...)
	press(t, ctx, enter)
	v, err := ctx.Get(listID)
	require.NoError(t, err)
	require.Equal(t, "chores!", v.AsTextual().Text())

	require.NoError(t, ctx.Apply(action.MoveRight[*content.Context]()))
	require.Equal(t, listID, ctx.Stack.Top())
	addItem(t, ctx, "dishes")
	itemID, ok := content.Downcast[*TodoList](v).Selected()
	require.True(t, ok)
	require.NoError(t, ctx.Apply(action.MoveLeft[*content.Context]()))

	out := c.Display(content.NewDisplayContext(ctx.Registry))
	require.Equal(t, "0/1", out.Columns[1].Items[0].Text)

	press(t, ctx, runes("X"))
	require.Zero(t, c.Lists.Len())
	require.True(t, ctx.Registry.Contains(listID), "held by the recorded cut")
	require.True(t, ctx.Registry.Contains(itemID))

	ctx.Release(listID)
	require.False(t, ctx.Registry.Contains(listID))
	require.True(t, ctx.Registry.Contains(itemID), "its paste still holds the item")
	ctx.Release(itemID)
	require.False(t, ctx.Registry.Contains(itemID))
}

func TestCollection_EmptyNameRollsBack(t *testing.T) {
	ctx := content.NewContext(NewCollection("home"))
	press(t, ctx, runes("a"), enter)
	require.Equal(t, 1, ctx.Registry.Len())
}
