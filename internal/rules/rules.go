// Package rules holds the IBJJF competition rules reference shown next to the
// quiz.
package rules

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
)

const defaultWidth = 80

//go:embed rules.md
var markdown string

// Markdown returns the raw reference text.
func Markdown() string {
	return markdown
}

// Render formats the reference for a terminal of the given width. An empty
// style picks one from the terminal background.
func Render(width int, style string) (string, error) {
	if width <= 0 {
		width = defaultWidth
	}

	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStylePath(style)
	}

	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render rules: %w", err)
	}
	return out, nil
}
