package edit

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/wildo/internal/action"
)

func ctrl(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

var yKey = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}

func TestRegisterYank_AppendsForSameSource(t *testing.T) {
	m := NewManager[int]()
	m.RegisterYank(Yank[int]{ID: 10, Pos: 0}, 1)
	m.RegisterYank(Yank[int]{ID: 11, Pos: 1}, 1)

	require.NotNil(t, m.Yanker)
	require.Equal(t, 1, m.Yanker.Source)
	require.Equal(t, []Yank[int]{{10, 0}, {11, 1}}, m.Yanker.Yanks)
}

func TestRegisterYank_ReplacesForOtherSource(t *testing.T) {
	m := NewManager[int]()
	m.RegisterYank(Yank[int]{ID: 10, Pos: 0}, 1)
	m.RegisterYank(Yank[int]{ID: 20, Pos: 3}, 2)

	require.Equal(t, 2, m.Yanker.Source)
	require.Equal(t, []Yank[int]{{20, 3}}, m.Yanker.Yanks)
}

func TestRecordPaste(t *testing.T) {
	m := NewManager[int]()
	require.False(t, m.Unsaved())

	m.RecordPaste(5, Yank[int]{ID: 9, Pos: 2})
	require.Len(t, m.EditStack, 1)
	require.Equal(t, KindPasted, m.EditStack[0].Kind)
	require.Equal(t, 5, m.EditStack[0].Source)
	require.Empty(t, m.UndoStack)
	require.True(t, m.Unsaved())

	m.MarkSaved()
	require.False(t, m.Unsaved())
}

func TestRecordCut(t *testing.T) {
	m := NewManager[int]()
	m.RecordCut(5, Yank[int]{ID: 9, Pos: 0})

	require.Len(t, m.EditStack, 1)
	require.Equal(t, KindYanked, m.EditStack[0].Kind)
	require.Equal(t, Cut, m.EditStack[0].YankType)
	require.Equal(t, []Yank[int]{{9, 0}}, m.EditStack[0].Yanks)
}

func TestForgetPaste(t *testing.T) {
	m := NewManager[int]()
	m.RecordPaste(5, Yank[int]{ID: 9, Pos: 0})
	m.RecordCut(5, Yank[int]{ID: 7, Pos: 1})
	m.RecordPaste(5, Yank[int]{ID: 7, Pos: 0}, Yank[int]{ID: 8, Pos: 1})

	require.False(t, m.ForgetPaste(6, 9), "other source")
	require.False(t, m.ForgetPaste(5, 3), "never pasted")

	require.True(t, m.ForgetPaste(5, 8))
	require.Len(t, m.EditStack, 3)
	require.Equal(t, []Yank[int]{{7, 0}}, m.EditStack[2].Yanks)

	require.True(t, m.ForgetPaste(5, 9))
	require.Len(t, m.EditStack, 2)
	require.Equal(t, KindYanked, m.EditStack[0].Kind, "cuts are kept")
}

func TestForgetPaste_UndoesUnsavedCreate(t *testing.T) {
	m := NewManager[int]()
	m.MarkSaved()

	m.RecordPaste(1, Yank[int]{ID: 2, Pos: 0})
	require.True(t, m.Unsaved())

	require.True(t, m.ForgetPaste(1, 2))
	require.False(t, m.Unsaved())
}

func TestHandleKey_YankRequiresSelection(t *testing.T) {
	m := NewManager[int]()

	b, err := m.HandleKey(yKey, 1, nil)
	require.NoError(t, err)
	require.Equal(t, BindNone, b)
	require.Nil(t, m.Yanker)

	b, err = m.HandleKey(yKey, 1, &Yank[int]{ID: 4, Pos: 0})
	require.NoError(t, err)
	require.Equal(t, BindYank, b)
	require.Len(t, m.Yanker.Yanks, 1)
}

func TestHandleKey_CutCopyOnlyForPendingSource(t *testing.T) {
	m := NewManager[int]()

	b, err := m.HandleKey(ctrl(tea.KeyCtrlX), 1, nil)
	require.NoError(t, err)
	require.Equal(t, BindNone, b)

	m.RegisterYank(Yank[int]{ID: 4}, 1)
	b, err = m.HandleKey(ctrl(tea.KeyCtrlX), 1, nil)
	require.Equal(t, BindCut, b)
	require.ErrorIs(t, err, action.ErrNotImplemented)

	b, err = m.HandleKey(ctrl(tea.KeyCtrlC), 1, nil)
	require.Equal(t, BindCopy, b)
	require.ErrorIs(t, err, action.ErrNotImplemented)
}

func TestHandleKey_HistoryStubs(t *testing.T) {
	m := NewManager[int]()
	for _, k := range []tea.KeyType{tea.KeyCtrlZ, tea.KeyCtrlY, tea.KeyCtrlV} {
		b, err := m.HandleKey(ctrl(k), 1, nil)
		require.NotEqual(t, BindNone, b)
		require.ErrorIs(t, err, action.ErrNotImplemented)
	}
}

func TestHandleKey_OtherKeysIgnored(t *testing.T) {
	m := NewManager[int]()
	b, err := m.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, 1, nil)
	require.NoError(t, err)
	require.Equal(t, BindNone, b)
}

func TestManager_YAMLSkipsYanker(t *testing.T) {
	m := NewManager[int]()
	m.RegisterYank(Yank[int]{ID: 4}, 1)
	m.RecordPaste(1, Yank[int]{ID: 7, Pos: 0})

	data, err := yaml.Marshal(m)
	require.NoError(t, err)
	require.NotContains(t, string(data), "yanker")

	var loaded Manager[int]
	require.NoError(t, yaml.Unmarshal(data, &loaded))
	require.Nil(t, loaded.Yanker)
	require.Equal(t, m.EditStack, loaded.EditStack)
}

func TestYankType_UnmarshalRejectsUnknown(t *testing.T) {
	var e Edit[int]
	err := yaml.Unmarshal([]byte("kind: yanked\nyank_type: steal\nsource: 1\n"), &e)
	require.ErrorContains(t, err, "unknown yank type")

	require.NoError(t, yaml.Unmarshal([]byte("kind: yanked\nyank_type: copy\nsource: 1\n"), &e))
	require.Equal(t, Copy, e.YankType)
}
