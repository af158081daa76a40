// Package keys contains keybinding definitions.
package keys

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// GlobalKeys apply when the focused entity declines a key.
type GlobalKeys struct {
	Deeper    key.Binding
	Shallower key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Save      key.Binding
}

// ListKeys are handled by container kinds (collections and to-do lists).
type ListKeys struct {
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	SwapDown key.Binding
	SwapUp   key.Binding
}

// TodoKeys are handled by to-do lists only.
type TodoKeys struct {
	DueDate      key.Binding
	NewDueDate   key.Binding
	DueTime      key.Binding
	CycleStatus  key.Binding
	ToggleIgnore key.Binding
}

// LedgerKeys drive the yank/edit ledger.
type LedgerKeys struct {
	Yank  key.Binding
	Cut   key.Binding
	Copy  key.Binding
	Paste key.Binding
	Undo  key.Binding
	Redo  key.Binding
}

// InsertKeys are shown in help while a line is being edited. Matching is done
// on key types by the editor itself.
type InsertKeys struct {
	Accept key.Binding
	Reject key.Binding
}

// Global holds application-wide bindings.
var Global = GlobalKeys{
	Deeper: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("l/→", "open selected"),
	),
	Shallower: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("h/←", "back to parent"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "save and quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+q"),
		key.WithHelp("ctrl+q", "quit without saving"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
}

// List holds cursor and structure bindings shared by container kinds.
var List = ListKeys{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("k/↑", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/↓", "move down"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g/home", "first"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G/end", "last"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add below"),
	),
	Edit: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "edit text"),
	),
	Delete: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "delete"),
	),
	SwapDown: key.NewBinding(
		key.WithKeys("ctrl+j"),
		key.WithHelp("ctrl+j", "move item down"),
	),
	SwapUp: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "move item up"),
	),
}

// Todo holds bindings specific to to-do lists.
var Todo = TodoKeys{
	DueDate: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "edit due date"),
	),
	NewDueDate: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "enter due date"),
	),
	DueTime: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "edit due time"),
	),
	CycleStatus: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "cycle status"),
	),
	ToggleIgnore: key.NewBinding(
		key.WithKeys("I"),
		key.WithHelp("I", "toggle ignored"),
	),
}

// Ledger holds yank and edit-history bindings.
var Ledger = LedgerKeys{
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "yank selected"),
	),
	Cut: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "cut yanked"),
	),
	Copy: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "copy yanked"),
	),
	Paste: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "paste"),
	),
	Undo: key.NewBinding(
		key.WithKeys("ctrl+z"),
		key.WithHelp("ctrl+z", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "redo"),
	),
}

// Insert documents the editor's commit keys.
var Insert = InsertKeys{
	Accept: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "commit text"),
	),
	Reject: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "discard text"),
	),
}

// ShortHelp returns the bindings shown in the status line.
func (k GlobalKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// Section is a titled group of bindings for the help view.
type Section struct {
	Title    string
	Bindings []key.Binding
}

// Sections returns every binding grouped for display.
func Sections() []Section {
	return []Section{
		{"Navigation", []key.Binding{List.Up, List.Down, List.Home, List.End, Global.Deeper, Global.Shallower}},
		{"Lists", []key.Binding{List.Add, List.Edit, List.Delete, List.SwapDown, List.SwapUp}},
		{"To-dos", []key.Binding{Todo.CycleStatus, Todo.ToggleIgnore, Todo.DueDate, Todo.NewDueDate, Todo.DueTime}},
		{"Editing", []key.Binding{Insert.Accept, Insert.Reject}},
		{"Ledger", []key.Binding{Ledger.Yank, Ledger.Cut, Ledger.Copy, Ledger.Paste, Ledger.Undo, Ledger.Redo}},
		{"General", []key.Binding{Global.Save, Global.Help, Global.Quit, Global.ForceQuit}},
	}
}

// Markdown renders Sections as a markdown document of tables.
func Markdown() string {
	var b strings.Builder
	b.WriteString("# Keys\n")
	for _, s := range Sections() {
		fmt.Fprintf(&b, "\n## %s\n\n| Key | Action |\n| --- | --- |\n", s.Title)
		for _, kb := range s.Bindings {
			h := kb.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
	return b.String()
}
