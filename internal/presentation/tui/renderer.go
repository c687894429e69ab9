package tui

import (
	"github.com/charmbracelet/glamour"
)

// DefaultWordWrap fits offer tables on a standard 80 column terminal.
const DefaultWordWrap = 80

// NewRenderer returns a function that renders markdown using glamour.
// The style follows the terminal background.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(DefaultWordWrap),
		glamour.WithEmoji(),
	)
	if err != nil {
		// Plain text is better than no output.
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
