// Package statusbar renders the bottom line: the latest log message or, when
// there is none, the short key help.
package statusbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/zjrosen/wildo/internal/log"
	"github.com/zjrosen/wildo/internal/ui/styles"
)

// DefaultTTL is how long a message stays before the hints return.
const DefaultTTL = 5 * time.Second

// Model holds the message currently shown.
type Model struct {
	text    string
	level   log.Level
	expires time.Time
	ttl     time.Duration
	width   int
	unsaved bool
	hints   []key.Binding
}

// New creates a status bar showing hints while idle.
func New(hints ...key.Binding) Model {
	return Model{ttl: DefaultTTL, hints: hints}
}

// SetWidth sizes the bar.
func (m Model) SetWidth(w int) Model {
	m.width = w
	return m
}

// SetUnsaved toggles the modified marker.
func (m Model) SetUnsaved(unsaved bool) Model {
	m.unsaved = unsaved
	return m
}

// Show displays e until the ttl elapses. Debug entries are ignored, and a
// lower level never replaces a live message of a higher one.
func (m Model) Show(e log.Entry) Model {
	if e.Level < log.LevelInfo {
		return m
	}
	if m.text != "" && e.Time.Before(m.expires) && e.Level < m.level {
		return m
	}
	m.text = e.Message
	if e.Fields != "" {
		m.text += ": " + e.Fields
	}
	m.level = e.Level
	m.expires = e.Time.Add(m.ttl)
	return m
}

// Expire clears the message once now passes its deadline.
func (m Model) Expire(now time.Time) Model {
	if m.text != "" && !now.Before(m.expires) {
		m.text = ""
	}
	return m
}

// Message returns the shown text, if any.
func (m Model) Message() string { return m.text }

// View renders a single line no wider than the bar.
func (m Model) View() string {
	style := styles.StatusBarStyle
	line := m.hintLine()
	if m.text != "" {
		line = m.text
		switch {
		case m.level >= log.LevelError:
			style = styles.StatusErrorStyle
		case m.level == log.LevelWarn:
			style = styles.StatusWarnStyle
		}
	}
	if m.unsaved {
		line = "[+] " + line
	}

	if inner := m.width - style.GetHorizontalFrameSize(); m.width > 0 && inner > 0 {
		line = truncate.StringWithTail(line, uint(inner), "…")
		style = style.Width(m.width)
	}
	return style.Render(line)
}

func (m Model) hintLine() string {
	parts := make([]string, 0, len(m.hints))
	for _, b := range m.hints {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// Height is the number of rows View occupies.
func (m Model) Height() int {
	return lipgloss.Height(m.View())
}
