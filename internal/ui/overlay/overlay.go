// Package overlay draws one block of styled text over another.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Anchor is the vertical placement of the foreground.
type Anchor int

const (
	Middle Anchor = iota
	Bottom
)

// Frame is the area the background occupies.
type Frame struct {
	Width  int
	Height int
	Anchor Anchor
	// Margin is kept between the foreground and the bottom edge.
	Margin int
}

// Place splices fg into bg, horizontally centered. Escape sequences on both
// sides are preserved; background lines shorter than the frame are padded.
func Place(f Frame, fg, bg string) string {
	rows := strings.Split(bg, "\n")
	for len(rows) < f.Height {
		rows = append(rows, strings.Repeat(" ", f.Width))
	}

	lines := strings.Split(fg, "\n")
	x, y := origin(f, lipgloss.Width(fg), len(lines))

	for i, line := range lines {
		row := y + i
		if row >= len(rows) {
			break
		}
		rows[row] = splice(rows[row], line, x)
	}
	return strings.Join(rows, "\n")
}

func splice(under, over string, x int) string {
	left := ansi.Truncate(under, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	var right string
	if end := x + ansi.StringWidth(over); end < ansi.StringWidth(under) {
		right = ansi.TruncateLeft(under, end, "")
	}
	return left + over + right
}

func origin(f Frame, w, h int) (x, y int) {
	x = (f.Width - w) / 2
	switch f.Anchor {
	case Bottom:
		y = f.Height - h - f.Margin
	default:
		y = (f.Height - h) / 2
	}
	return max(x, 0), max(y, 0)
}
