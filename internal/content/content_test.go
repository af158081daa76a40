package content

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/wildo/internal/action"
	"github.com/zjrosen/wildo/internal/registry"
	"github.com/zjrosen/wildo/internal/ui/listview"
)

type note struct {
	Body string `yaml:"body"`
}

func (n *note) Kind() string { return "test.note" }
func (n *note) Clone() Entity { c := *n; return &c }
func (n *note) Text() string { return n.Body }
func (n *note) SetText(s string) { n.Body = s }
func (n *note) Render() listview.Item { return listview.Item{Text: n.Body} }

type folder struct {
	Name     string        `yaml:"name"`
	Children Container[ID] `yaml:"children"`
}

func (f *folder) Kind() string { return "test.folder" }
func (f *folder) Text() string { return f.Name }
func (f *folder) SetText(s string) { f.Name = s }
func (f *folder) Render() listview.Item { return listview.Item{Text: f.Name} }
func (f *folder) Clone() Entity {
	return &folder{Name: f.Name, Children: f.Children.Clone()}
}

func (f *folder) Display(dc DisplayContext) listview.Output {
	col := listview.Column{Header: f.Name}
	for _, id := range f.Children.Items() {
		col.Items = append(col.Items, dc.Render(id))
	}
	return listview.Output{Title: f.Name, Columns: []listview.Column{col}}
}

func (f *folder) HandleEvent(msg tea.KeyMsg, _ ID) EventAction {
	if f.Children.HandleKey(msg) {
		return action.Absorbed(Action{})
	}
	return action.Unabsorbed(Action{})
}

func (f *folder) Insert(y Yank) { f.Children.Insert(y.Pos, y.ID) }
func (f *folder) Remove(y Yank) bool { return f.Children.Remove(y.Pos, y.ID) }
func (f *folder) Get(i int) (ID, bool) { return f.Children.Get(i) }
func (f *folder) Selected() (ID, bool) { return f.Children.Selected() }
func (f *folder) Cursor() *Cursor { return f.Children.Cursor() }

func init() {
	RegisterKind("test.note", func() Entity { return &note{} })
	RegisterKind("test.folder", func() Entity { return &folder{} })
}

func TestCapabilities(t *testing.T) {
	n := New(&note{Body: "x"})
	_, ok := n.AsWidget()
	require.False(t, ok)
	_, ok = n.AsProvider()
	require.False(t, ok)
	_, ok = n.AsYankDest()
	require.False(t, ok)
	_, ok = n.AsEventHandler()
	require.False(t, ok)
	require.Equal(t, "x", n.AsTextual().Text())

	f := New(&folder{Name: "f"})
	_, ok = f.AsWidget()
	require.True(t, ok)
	_, ok = f.AsProvider()
	require.True(t, ok)
	_, ok = f.AsYankDest()
	require.True(t, ok)
	_, ok = f.AsEventHandler()
	require.True(t, ok)
}

func TestDowncast(t *testing.T) {
	c := New(&note{Body: "x"})
	require.Equal(t, "x", Downcast[*note](c).Body)
	require.Panics(t, func() { Downcast[*folder](c) })
}

func TestClone_IsDeep(t *testing.T) {
	f := &folder{Name: "a", Children: NewContainer(ID{Slot: 1, Epoch: 1})}
	c := New(f)
	dup := c.Clone()

	Downcast[*folder](dup).Children.Insert(0, ID{Slot: 2, Epoch: 2})
	Downcast[*folder](dup).SetText("b")

	require.Equal(t, 1, f.Children.Len())
	require.Equal(t, "a", f.Name)
	require.Equal(t, `test.folder("a")`, c.String())
}

func TestYAML_RoundTripThroughRegistry(t *testing.T) {
	reg := registry.New[Content]()
	n := reg.Allocate(New(&note{Body: "milk"}))
	f := reg.Allocate(New(&folder{Name: "shop", Children: NewContainer(n)}))

	data, err := yaml.Marshal(reg)
	require.NoError(t, err)
	require.Contains(t, string(data), "type: test.folder")

	loaded := registry.New[Content]()
	require.NoError(t, yaml.Unmarshal(data, loaded))

	got, ok := loaded.Get(f)
	require.True(t, ok)
	child, ok := Downcast[*folder](got).Selected()
	require.True(t, ok)
	require.Equal(t, n, child)

	leaf, ok := loaded.Get(n)
	require.True(t, ok)
	require.Equal(t, "milk", leaf.AsTextual().Text())
}

func TestYAML_UnknownKind(t *testing.T) {
	var c Content
	err := yaml.Unmarshal([]byte("type: test.spaceship\nname: x\n"), &c)
	require.ErrorIs(t, err, ErrUnknownKind)

	err = yaml.Unmarshal([]byte("name: x\n"), &c)
	require.ErrorContains(t, err, "no \"type\" key")
}

func TestRegisterKind_DuplicatePanics(t *testing.T) {
	require.Panics(t, func() { RegisterKind("test.note", func() Entity { return &note{} }) })
	require.Contains(t, Kinds(), "test.folder")
}
