// Package listview draws widget output as a bordered panel of columns.
package listview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/wildo/internal/cachemanager"
	"github.com/zjrosen/wildo/internal/ui/styles"
)

// Item is one cell.
type Item struct {
	Text  string
	Style lipgloss.Style
	// Live marks Text as already styled, e.g. an in-progress edit line.
	Live bool
}

// Column is a vertical run of cells. Ratio is its share of the width.
type Column struct {
	Header string
	Ratio  int
	Items  []Item
}

// Output is what a widget displays.
type Output struct {
	Title   string
	Columns []Column
	// Empty is shown when no column has items.
	Empty string
}

// Rows returns the length of the longest column.
func (o Output) Rows() int {
	n := 0
	for _, c := range o.Columns {
		n = max(n, len(c.Items))
	}
	return n
}

// DrawContext sizes a draw and says which row is selected.
type DrawContext struct {
	Width    int
	Height   int
	Selected int
	Focused  bool
}

// indicator marks the selected row. Unselected rows are padded to its width.
var indicator = "> "

type fitInput struct {
	text  string
	width int
}

// Renderer draws Outputs, memoizing fitted cell text.
type Renderer struct {
	cells *cachemanager.ReadThroughCache[string, string, fitInput]
}

// NewRenderer creates a renderer that memoizes into cache. A nil cache
// disables memoization.
func NewRenderer(cache cachemanager.CacheManager[string, string]) *Renderer {
	if cache == nil {
		cache = cachemanager.NewInMemoryCacheManager[string, string]("listview", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
		return &Renderer{cells: cachemanager.NewReadThroughCache(cache, fit, true)}
	}
	return &Renderer{cells: cachemanager.NewReadThroughCache(cache, fit, false)}
}

// fit truncates text to width display cells and pads it to exactly width.
func fit(_ context.Context, in fitInput) (string, error) {
	s := ansi.Truncate(in.text, in.width, "…")
	if pad := in.width - runewidth.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s, nil
}

func (r *Renderer) cell(it Item, width int, selected bool) string {
	if width <= 0 {
		return ""
	}
	if it.Live {
		s := ansi.Truncate(it.Text, width, "")
		if pad := width - ansi.StringWidth(s); pad > 0 {
			s += strings.Repeat(" ", pad)
		}
		return s
	}

	in := fitInput{text: it.Text, width: width}
	s, _ := r.cells.Get(context.Background(), fmt.Sprintf("%d\x00%s", width, it.Text), in, cachemanager.DefaultExpiration)
	style := it.Style
	if selected {
		style = style.Bold(true)
	}
	return style.Render(s)
}

// widths splits total between columns by ratio. Columns without a ratio
// count as 1. The last column absorbs rounding.
func widths(cols []Column, total int) []int {
	out := make([]int, len(cols))
	if len(cols) == 0 || total <= 0 {
		return out
	}
	sum := 0
	for _, c := range cols {
		sum += max(c.Ratio, 1)
	}
	used := 0
	for i, c := range cols {
		if i == len(cols)-1 {
			out[i] = total - used
			break
		}
		out[i] = total * max(c.Ratio, 1) / sum
		used += out[i]
	}
	return out
}

// Draw renders out into a panel of dc.Width by dc.Height cells.
func (r *Renderer) Draw(out Output, dc DrawContext) string {
	innerW := max(dc.Width-2, 4)
	innerH := max(dc.Height-2, 3)

	lines := []string{styles.TitleStyle.Render(ansi.Truncate(out.Title, innerW-2, "…"))}

	gutter := runewidth.StringWidth(indicator)
	ws := widths(out.Columns, innerW-gutter)
	var header strings.Builder
	header.WriteString(strings.Repeat(" ", gutter))
	for i, c := range out.Columns {
		header.WriteString(styles.HeaderStyle.Render(r.cell(Item{Text: c.Header}, ws[i]-1, false)))
		header.WriteString(" ")
	}
	lines = append(lines, header.String())

	rows := out.Rows()
	visible := max(innerH-len(lines), 1)
	if rows == 0 {
		empty := out.Empty
		if empty == "" {
			empty = "(empty)"
		}
		lines = append(lines, styles.MutedStyle.Render(indicator+empty))
	}

	offset := 0
	if dc.Selected >= visible {
		offset = dc.Selected - visible + 1
	}
	for i := offset; i < rows && i < offset+visible; i++ {
		selected := i == dc.Selected
		var b strings.Builder
		if selected {
			b.WriteString(styles.SelectionIndicatorStyle.Render(indicator))
		} else {
			b.WriteString(strings.Repeat(" ", gutter))
		}
		for ci, c := range out.Columns {
			it := Item{}
			if i < len(c.Items) {
				it = c.Items[i]
			}
			b.WriteString(r.cell(it, ws[ci]-1, selected))
			b.WriteString(" ")
		}
		lines = append(lines, b.String())
	}

	panel := styles.PanelStyle
	if dc.Focused {
		panel = panel.BorderForeground(styles.BorderFocusColor)
	}
	return panel.Width(innerW).Height(innerH).MaxHeight(dc.Height).Render(strings.Join(lines, "\n"))
}
