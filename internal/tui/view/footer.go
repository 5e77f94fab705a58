package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterModel contains content and styles for rendering the footer.
type FooterModel struct {
	InnerW      int
	StatusText  string
	HelpText    string
	PromptLines []string
	ShowPrompt  bool
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	PromptStyle lipgloss.Style
	Bg          lipgloss.Color
}

// RenderFooter renders the optional prompt box, then status and help lines.
func RenderFooter(model FooterModel) string {
	lines := make([]string, 0, 3)
	if model.ShowPrompt {
		lines = append(lines, RenderPrompt(model.InnerW, model.PromptStyle, model.PromptLines))
	}
	lines = append(lines,
		footerLine(model.InnerW, model.StatusStyle, model.StatusText),
		footerLine(model.InnerW, model.HelpStyle, model.HelpText),
	)
	content := strings.Join(lines, "\n")
	return PlaceBox(model.InnerW, lipgloss.Height(content), lipgloss.Bottom, content, model.Bg)
}

func footerLine(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	contentWidth := max(width-frameW, 0)
	style = style.Width(contentWidth)
	if contentWidth > 0 {
		content = ansi.Truncate(content, contentWidth, "")
	}
	return style.Render(content)
}
