package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TitleBar renders a title on the left and a hint on the right of a width-wide line.
func TitleBar(width int, title, hint string, titleStyle, hintStyle lipgloss.Style, bg lipgloss.Color) string {
	left := titleStyle.Render(title)
	right := hintStyle.Render(hint)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return Fit(left, width)
	}
	fill := lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", gap))
	return left + fill + right
}
