package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const suggestionIndent = "  "

// PromptCommand is one command offered under the command prompt.
type PromptCommand struct {
	Name        string
	Description string
}

// PromptState is what the footer prompt shows.
type PromptState struct {
	Label           string // e.g. "Add task · Jun 14"; empty for the command prompt
	Value           string
	Cursor          string
	ShowSuggestions bool
}

// PromptLines returns the input line, wrapped under its label, followed by
// one aligned line per suggestion.
func PromptLines(state PromptState, width int, suggestions []PromptCommand) []string {
	prefix := "> "
	if state.Label != "" {
		prefix = state.Label + " > "
	}
	lines := hangingWrap(prefix, state.Value+state.Cursor, width)
	if !state.ShowSuggestions {
		return lines
	}

	nameW := 0
	for _, c := range suggestions {
		nameW = max(nameW, runewidth.StringWidth(c.Name))
	}
	for _, c := range suggestions {
		name := runewidth.FillRight(c.Name, nameW)
		lines = append(lines, hangingWrap(suggestionIndent+name+" ", c.Description, width)...)
	}
	return lines
}

// ClampPromptLines keeps at most maxLines lines. When lines are dropped the
// last kept line says how many.
func ClampPromptLines(lines []string, maxLines, width int) []string {
	if maxLines <= 0 {
		return nil
	}
	if len(lines) <= maxLines {
		return lines
	}
	clamped := append([]string(nil), lines[:maxLines-1]...)
	more := fmt.Sprintf("%s… %d more", suggestionIndent, len(lines)-maxLines+1)
	return append(clamped, runewidth.Truncate(more, width, ""))
}

// RenderPrompt draws lines inside the prompt box.
func RenderPrompt(width int, style lipgloss.Style, lines []string) string {
	frameW, _ := style.GetFrameSize()
	if len(lines) == 0 {
		lines = []string{""}
	}
	return style.Width(max(width-frameW, 0)).Render(strings.Join(lines, "\n"))
}

// hangingWrap wraps text to width with prefix on the first line and
// continuation lines indented under the text.
func hangingWrap(prefix, text string, width int) []string {
	prefixW := runewidth.StringWidth(prefix)
	if width <= prefixW {
		return []string{runewidth.Truncate(prefix+text, max(width, 0), "")}
	}
	wrapped := strings.Split(ansi.Wrap(text, width-prefixW, ""), "\n")
	indent := strings.Repeat(" ", prefixW)
	for i := range wrapped {
		if i == 0 {
			wrapped[i] = prefix + wrapped[i]
		} else {
			wrapped[i] = indent + wrapped[i]
		}
	}
	return wrapped
}
