package notifier

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Render turns markdown produced by the formatters into styled terminal
// output. An empty style returns md unchanged.
func Render(md, style string, width int) (string, error) {
	if style == "" {
		return md, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("init renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
