// Package formatter renders drafts, split tables and submission results for
// the terminal.
package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/prism-talent/deal-desk/internal/agentsplit"
)

var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorDim    = lipgloss.Color("#928374")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Bold(true)
)

// Formatter renders plain text unless Color is set.
type Formatter struct {
	Color bool
}

func (f Formatter) render(s lipgloss.Style, text string) string {
	if !f.Color {
		return text
	}
	return s.Render(text)
}

// Header renders an upper-cased section title with an underline.
func (f Formatter) Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", f.render(StyleHeader, upper), f.render(StyleDim, line))
}

func (f Formatter) Dim(text string) string { return f.render(StyleDim, text) }

func (f Formatter) Bold(text string) string { return f.render(StyleBold, text) }

func (f Formatter) Error(text string) string { return f.render(StyleRed, text) }

func (f Formatter) OK(text string) string { return f.render(StyleGreen, text) }

func (f Formatter) Warn(text string) string { return f.render(StyleYellow, text) }

// StatusStyle returns the style used for a split status.
func StatusStyle(st agentsplit.Status) lipgloss.Style {
	switch st {
	case agentsplit.Balanced:
		return StyleGreen
	case agentsplit.Under:
		return StyleYellow
	case agentsplit.Over:
		return StyleRed
	default:
		return StyleDim
	}
}

// Status renders a split status such as "● BALANCED".
func (f Formatter) Status(st agentsplit.Status) string {
	return f.render(StatusStyle(st), "● "+strings.ToUpper(string(st)))
}
