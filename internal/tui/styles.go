package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/calendo/internal/tui/theme"
)

// Minimum width of one day column in the month grid.
const minColWidth = 10

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorToday       lipgloss.Color
	colorTask        lipgloss.Color
	colorHoliday     lipgloss.Color
	colorWarning     lipgloss.Color

	TitleStyle lipgloss.Style
	HintStyle  lipgloss.Style

	// Month grid
	WeekdayHeaderStyle lipgloss.Style
	DayStyle           lipgloss.Style
	DaySpilloverStyle  lipgloss.Style
	DayTodayStyle      lipgloss.Style
	DaySelectedStyle   lipgloss.Style
	IndicatorStyle     lipgloss.Style
	HolidayStyle       lipgloss.Style
	BorderStyle        lipgloss.Style

	// Task panel and week page
	PanelStyle        lipgloss.Style
	PanelTitleStyle   lipgloss.Style
	TaskStyle         lipgloss.Style
	TaskDoneStyle     lipgloss.Style
	TaskCursorStyle   lipgloss.Style
	EmptyStyle        lipgloss.Style
	DayLabelStyle     lipgloss.Style
	DayHeadingStyle   lipgloss.Style
	DaySelectedHeader lipgloss.Style

	// Footer
	PromptStyle lipgloss.Style
	StatusStyle lipgloss.Style
	ErrorStyle  lipgloss.Style
	HelpStyle   lipgloss.Style

	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	palette := theme.NewPalette(t)

	s.colorBg = palette.Bg
	s.colorBgHighlight = palette.BgHighlight
	s.colorBgSelection = palette.BgSelection
	s.colorFg = palette.Fg
	s.colorFgMuted = palette.FgMuted
	s.colorAccent = palette.Accent
	s.colorToday = palette.Today
	s.colorTask = palette.Task
	s.colorHoliday = palette.Holiday
	s.colorWarning = palette.Warning

	base := lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)

	s.TitleStyle = base.
		Bold(true).
		Foreground(s.colorAccent)

	s.HintStyle = base.
		Foreground(s.colorFgMuted)

	s.WeekdayHeaderStyle = base.
		Bold(true).
		Align(lipgloss.Center).
		Foreground(s.colorAccent)

	s.DayStyle = base
	s.DaySpilloverStyle = base.
		Foreground(s.colorFgMuted)

	s.DayTodayStyle = base.
		Foreground(s.colorToday).
		Bold(true)

	// Selection keeps today's foreground so both marks stay visible.
	s.DaySelectedStyle = lipgloss.NewStyle().
		Background(s.colorBgSelection)

	s.IndicatorStyle = lipgloss.NewStyle().
		Foreground(palette.TextOnTask).
		Background(palette.TaskBg)

	s.HolidayStyle = base.
		Foreground(s.colorHoliday).
		Italic(true)

	s.BorderStyle = base.
		Foreground(s.colorAccent)

	s.PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorAccent).
		BorderBackground(s.colorBg).
		Background(s.colorBg).
		Foreground(s.colorFg).
		Padding(0, 1)

	s.PanelTitleStyle = base.
		Bold(true).
		Foreground(s.colorAccent)

	s.TaskStyle = base
	s.TaskDoneStyle = base.
		Foreground(s.colorFgMuted).
		Strikethrough(true)

	s.TaskCursorStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBgSelection).
		Bold(true)

	s.EmptyStyle = base.
		Foreground(s.colorFgMuted).
		Italic(true)

	s.DayLabelStyle = lipgloss.NewStyle().
		Foreground(palette.TextOnToday).
		Background(s.colorToday).
		Bold(true).
		Padding(0, 1)

	s.DayHeadingStyle = base.
		Bold(true)

	s.DaySelectedHeader = s.DayHeadingStyle.
		Background(s.colorBgSelection)

	s.PromptStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorAccent).
		BorderBackground(s.colorBg).
		Background(s.colorBgHighlight).
		Foreground(s.colorFg).
		Padding(0, 1)

	s.StatusStyle = base.
		Foreground(s.colorAccent)

	s.ErrorStyle = base.
		Foreground(s.colorWarning).
		Bold(true)

	s.HelpStyle = base.
		Foreground(s.colorFgMuted)

	s.AppStyle = lipgloss.NewStyle().
		Background(s.colorBg).
		Padding(0, 1)

	return s
}
