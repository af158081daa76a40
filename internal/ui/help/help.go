// Package help contains the key help overlay.
package help

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/wildo/internal/log"
	"github.com/zjrosen/wildo/internal/ui/markdown"
	"github.com/zjrosen/wildo/internal/ui/overlay"
	"github.com/zjrosen/wildo/internal/ui/styles"
)

const maxBoxWidth = 72

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.TextPrimaryColor).
			PaddingLeft(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			PaddingLeft(1)
)

// Model is a scrollable box of rendered key help.
type Model struct {
	viewport viewport.Model
	style    string
	width    int
	height   int
}

// New creates the help view. style is the glamour style name.
func New(style string) Model {
	return Model{viewport: viewport.New(0, 0), style: style}
}

// SetSize re-renders the help for the new terminal size.
func (m Model) SetSize(width, height int) Model {
	m.width, m.height = width, height

	boxWidth := min(maxBoxWidth, width-4)
	if boxWidth <= 0 || height <= 6 {
		m.viewport.Width, m.viewport.Height = 0, 0
		return m
	}

	// Border, title and footer take five rows.
	m.viewport.Width = boxWidth
	m.viewport.Height = height - 6

	body, err := markdown.KeyHelp(boxWidth, m.style)
	if err != nil {
		log.ErrorErr(log.CatUI, "rendering key help", err)
		body = err.Error()
	}
	m.viewport.SetContent(body)
	m.viewport.Height = min(m.viewport.Height, m.viewport.TotalLineCount())
	return m
}

// Update scrolls the viewport.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the bordered box.
func (m Model) View() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Keys"),
		m.viewport.View(),
		footerStyle.Render("j/k scroll • ? close"),
	)
	return styles.PanelStyle.BorderForeground(styles.BorderFocusColor).Render(body)
}

// Overlay draws the box centered over background.
func (m Model) Overlay(background string) string {
	return overlay.Place(overlay.Frame{Width: m.width, Height: m.height}, m.View(), background)
}
