package ui

import (
	"os"

	"github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Today: bold cyan so it stands out in the grid
	colorToday = color.New(color.FgCyan, color.Bold)

	// Holidays: magenta
	colorHoliday = color.New(color.FgMagenta)

	// Days with open tasks: yellow
	colorTask = color.New(color.FgYellow)

	// Completed tasks: green
	colorDone = color.New(color.FgGreen)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Muted: spillover days and secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatToday(s string) string {
	return colorToday.Sprint(s)
}

func formatHoliday(s string) string {
	return colorHoliday.Sprint(s)
}

func formatTask(s string) string {
	return colorTask.Sprint(s)
}

func formatDone(s string) string {
	return colorDone.Sprint(s)
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// truncate cuts s to width display cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
