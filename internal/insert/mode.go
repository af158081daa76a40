// Package insert is a single-line modal text editor used for in-place
// renaming and date entry.
package insert

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/wildo/internal/log"
)

// Kind is what a key did to the editor.
type Kind int

const (
	// Declined means the editor is idle and did not look at the key.
	Declined Kind = iota
	// Absorbed means the key was consumed while editing.
	Absorbed
	// Accepted means Enter committed the buffer; Result.Text carries it.
	Accepted
	// Rejected means Esc discarded the buffer.
	Rejected
)

func (k Kind) String() string {
	switch k {
	case Declined:
		return "declined"
	case Absorbed:
		return "absorbed"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result is the outcome of HandleKey.
type Result struct {
	Kind Kind
	Text string
}

// Mode is the editor state. The zero value is idle with an empty buffer.
// Invariant: 0 <= cursor <= len(buffer).
type Mode struct {
	listening bool
	cursor    int
	buffer    []rune
}

// Listen clears the buffer and starts editing.
func (m *Mode) Listen() {
	m.reset()
	m.listening = true
}

// ReplaceText seeds the buffer with s and puts the cursor at the end.
func (m *Mode) ReplaceText(s string) {
	m.buffer = []rune(s)
	m.cursor = len(m.buffer)
}

// Text returns the buffer.
func (m *Mode) Text() string { return string(m.buffer) }

// Cursor returns the cursor position in runes.
func (m *Mode) Cursor() int { return m.cursor }

// IsListening reports whether the editor is in the editing state.
func (m *Mode) IsListening() bool { return m.listening }

func (m *Mode) reset() {
	*m = Mode{}
}

// HandleKey feeds one key to the editor.
func (m *Mode) HandleKey(msg tea.KeyMsg) Result {
	if !m.listening {
		return Result{Kind: Declined}
	}

	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			break
		}
		m.insert(msg.Runes...)
	case tea.KeySpace:
		if len(msg.Runes) > 0 {
			m.insert(msg.Runes...)
		} else {
			m.insert(' ')
		}
	case tea.KeyLeft:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyRight:
		if m.cursor < len(m.buffer) {
			m.cursor++
		}
	case tea.KeyHome:
		m.cursor = 0
	case tea.KeyEnd:
		m.cursor = len(m.buffer)
	case tea.KeyBackspace:
		if m.cursor > 0 {
			m.buffer = append(m.buffer[:m.cursor-1], m.buffer[m.cursor:]...)
			m.cursor--
		}
	case tea.KeyEsc:
		m.reset()
		log.Debug(log.CatInput, "insert rejected")
		return Result{Kind: Rejected}
	case tea.KeyEnter:
		text := m.Text()
		m.reset()
		log.Debug(log.CatInput, "insert accepted", "len", len(text))
		return Result{Kind: Accepted, Text: text}
	}

	return Result{Kind: Absorbed}
}

func (m *Mode) insert(rs ...rune) {
	tail := append([]rune(nil), m.buffer[m.cursor:]...)
	m.buffer = append(append(m.buffer[:m.cursor], rs...), tail...)
	m.cursor += len(rs)
}

// Line splits the buffer around the cursor. at is the rune under the cursor,
// or a space when the cursor is past the end.
func (m *Mode) Line() (before, at, after string) {
	before = string(m.buffer[:m.cursor])
	if m.cursor < len(m.buffer) {
		return before, string(m.buffer[m.cursor]), string(m.buffer[m.cursor+1:])
	}
	return before, " ", ""
}

var cursorStyle = lipgloss.NewStyle().Reverse(true)

// View renders the line with the cursor cell reverse-styled. With width > 0
// the text before the cursor is scrolled so the cursor stays within width
// display cells.
func (m *Mode) View(width int) string {
	before, at, after := m.Line()

	if width > 0 {
		room := width - uniseg.StringWidth(at)
		for before != "" && uniseg.StringWidth(before) > room {
			_, rest, _, _ := uniseg.FirstGraphemeClusterInString(before, -1)
			before = rest
		}
		room -= uniseg.StringWidth(before)
		after = clip(after, room)
	}

	var b strings.Builder
	b.WriteString(before)
	b.WriteString(cursorStyle.Render(at))
	b.WriteString(after)
	return b.String()
}

// clip keeps the leading graphemes of s that fit in width cells.
func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	g := uniseg.NewGraphemes(s)
	used, end := 0, 0
	for g.Next() {
		w := g.Width()
		if used+w > width {
			break
		}
		used += w
		_, end = g.Positions()
	}
	return s[:end]
}
