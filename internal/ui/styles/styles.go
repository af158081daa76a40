// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"}

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#696969"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#D9A400", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}

	TodoDoneColor    = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	TodoIgnoredColor = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#555555"}
	TodoOverdueColor = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
)

var (
	TextStyle  lipgloss.Style
	MutedStyle lipgloss.Style

	// SelectionIndicatorStyle renders the ">" prefix of the selected row.
	SelectionIndicatorStyle lipgloss.Style
	SelectedRowStyle        lipgloss.Style

	TitleStyle  lipgloss.Style
	HeaderStyle lipgloss.Style
	PanelStyle  lipgloss.Style

	TodoPendingStyle lipgloss.Style
	TodoDoneStyle    lipgloss.Style
	TodoIgnoredStyle lipgloss.Style
	TodoOverdueStyle lipgloss.Style

	StatusBarStyle   lipgloss.Style
	StatusWarnStyle  lipgloss.Style
	StatusErrorStyle lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	TextStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)

	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)
	SelectedRowStyle = lipgloss.NewStyle().Bold(true)

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor).Padding(0, 1)
	HeaderStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor).Underline(true)
	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderDefaultColor)

	TodoPendingStyle = TextStyle
	TodoDoneStyle = lipgloss.NewStyle().Foreground(TodoDoneColor).Strikethrough(true)
	TodoIgnoredStyle = lipgloss.NewStyle().Foreground(TodoIgnoredColor).Italic(true)
	TodoOverdueStyle = lipgloss.NewStyle().Foreground(TodoOverdueColor)

	StatusBarStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor).Padding(0, 1)
	StatusWarnStyle = StatusBarStyle.Foreground(StatusWarningColor)
	StatusErrorStyle = StatusBarStyle.Foreground(StatusErrorColor).Bold(true)
}
