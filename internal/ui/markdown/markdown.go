// Package markdown provides styled markdown rendering for transcript messages.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// noMarginStyle removes document margins so messages sit flush in the
// transcript instead of floating inside glamour's default padding.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with taglet-specific configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a markdown renderer with the given wrap width and style.
// style should be "dark" or "light". Defaults to "dark" if empty.
// A fixed style is used instead of WithAutoStyle() because auto detection
// queries the terminal, and the response escape sequences leak into the
// input stream of a running program.
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
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output. Trailing blank
// lines are stripped so message spacing stays under the caller's control.
func (r *Renderer) Render(markdown string) (string, error) {
	out, err := r.renderer.Render(markdown)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}
