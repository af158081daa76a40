// Package markdown renders the key help with glamour.
package markdown

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/zjrosen/wildo/internal/keys"
)

// noMarginStyle removes document margins.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with wildo-specific configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a markdown renderer with the given width and style.
// style should be "dark" or "light" and defaults to "dark".
// A fixed style path avoids WithAutoStyle's terminal background query,
// whose reply would otherwise leak into the key input stream.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}

// KeyHelp renders every key binding.
func KeyHelp(width int, style string) (string, error) {
	r, err := New(width, style)
	if err != nil {
		return "", err
	}
	out, err := r.Render(keys.Markdown())
	if err != nil {
		return "", fmt.Errorf("rendering key help: %w", err)
	}
	return out, nil
}
