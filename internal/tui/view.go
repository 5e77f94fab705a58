package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/calendo/internal/calendar"
	"github.com/javiermolinar/calendo/internal/coordinator"
	"github.com/javiermolinar/calendo/internal/dateutil"
	"github.com/javiermolinar/calendo/internal/tui/input"
	"github.com/javiermolinar/calendo/internal/tui/view"
)

const (
	panelMinWidth   = 30
	promptMaxLines  = 6
	indicatorBullet = "• "
)

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	frameW, _ := m.styles.AppStyle.GetFrameSize()
	innerW := max(m.width-frameW, 0)

	header := view.TitleBar(innerW, m.headerTitle(), "Today: "+m.coord.TodayTitle(),
		m.styles.TitleStyle, m.styles.HintStyle, m.styles.colorBg)
	footer := m.renderFooter(innerW)
	bodyH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	var body string
	switch {
	case m.help.ShowAll:
		body = view.PlaceBox(innerW, bodyH, lipgloss.Top, m.help.View(m.keys), m.styles.colorBg)
	case m.page == PageWeek:
		body = m.renderWeekPage(innerW, bodyH)
	default:
		body = m.renderMonthPage(innerW, bodyH)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return m.styles.AppStyle.Render(content)
}

func (m Model) headerTitle() string {
	if m.page == PageWeek {
		return m.week.Title + " · week"
	}
	return m.month.Title
}

// renderMonthPage lays out the grid with the task panel to its right, or
// below it on narrow terminals.
func (m Model) renderMonthPage(width, height int) string {
	if height <= 0 {
		return ""
	}
	gridMinW := 7*minColWidth + 8
	if width >= gridMinW+panelMinWidth {
		panelW := max(width/4, panelMinWidth)
		gridW := width - panelW
		grid := m.renderGrid(gridW, height)
		panel := m.renderTaskPanel(panelW, height)
		return lipgloss.JoinHorizontal(lipgloss.Top, grid, panel)
	}

	panelH := min(max(len(m.panel.Tasks)+4, 5), height/2)
	grid := m.renderGrid(width, height-panelH)
	panel := m.renderTaskPanel(width, panelH)
	return lipgloss.JoinVertical(lipgloss.Left, grid, panel)
}

// renderGrid renders the month as a bordered seven column table.
func (m Model) renderGrid(width, height int) string {
	state := view.MonthGridState{
		Width:       width,
		Height:      height,
		Weekdays:    coordinator.Weekdays,
		Weeks:       make([][7]view.DayBox, len(m.month.Rows)),
		HeaderStyle: m.styles.WeekdayHeaderStyle,
		BorderStyle: m.styles.BorderStyle,
		Bg:          m.styles.colorBg,
	}
	for i, row := range m.month.Rows {
		for j, cell := range row {
			state.Weeks[i][j] = view.DayBox{Lines: cellLines(cell), Style: m.cellStyle(cell)}
		}
	}
	return view.RenderMonthGrid(state)
}

// cellLines lists the day number, the holiday and one line per incomplete
// task.
func cellLines(cell coordinator.Cell) []string {
	lines := []string{strconv.Itoa(cell.Date.Day)}
	if cell.Holiday != "" {
		lines = append(lines, cell.Holiday)
	}
	for _, ind := range cell.Indicators {
		lines = append(lines, indicatorBullet+ind.Text)
	}
	return lines
}

func (m Model) cellStyle(cell coordinator.Cell) lipgloss.Style {
	style := m.styles.DayStyle
	switch {
	case !cell.InMonth:
		style = m.styles.DaySpilloverStyle
	case cell.IsToday:
		style = m.styles.DayTodayStyle
	case cell.Holiday != "":
		style = m.styles.HolidayStyle.Italic(false)
	}
	if cell.IsSelected {
		style = style.Background(m.styles.colorBgSelection)
	}
	return style
}

// renderTaskPanel renders the selected day's tasks in a bordered box.
func (m Model) renderTaskPanel(width, height int) string {
	frameW, frameH := m.styles.PanelStyle.GetFrameSize()
	innerW := max(width-frameW, 0)
	innerH := max(height-frameH, 0)

	lines := []string{m.styles.PanelTitleStyle.Render(view.Fit(m.panel.Title, innerW))}
	if m.panel.Empty {
		lines = append(lines, m.styles.EmptyStyle.Render(view.Fit(coordinator.EmptyTasksText, innerW)))
	}
	for i, e := range m.panel.Tasks {
		lines = append(lines, m.taskLine(e, i == m.taskCursor, innerW))
	}
	if len(lines) > innerH && innerH > 0 {
		lines = lines[:innerH]
	}

	body := view.PadLinesWithBackground(strings.Join(lines, "\n"), innerW, innerH, m.styles.colorBg)
	return m.styles.PanelStyle.Width(innerW + frameW - 2).Render(body)
}

func (m Model) taskLine(e coordinator.TaskEntry, cursor bool, width int) string {
	mark := "[ ] "
	style := m.styles.TaskStyle
	if e.IsComplete {
		mark = "[x] "
		style = m.styles.TaskDoneStyle
	}
	if cursor && m.mode == ModeNormal {
		style = m.styles.TaskCursorStyle.Strikethrough(e.IsComplete)
	}
	return style.Render(view.Fit(mark+e.Text, width))
}

// renderWeekPage renders the remaining days of the displayed week as a list.
func (m Model) renderWeekPage(width, height int) string {
	if height <= 0 {
		return ""
	}
	frameW, frameH := m.styles.PanelStyle.GetFrameSize()
	innerW := max(width-frameW, 0)
	innerH := max(height-frameH, 0)

	selected := m.coord.Selected()
	var lines []string
	for _, day := range m.week.Days {
		lines = append(lines, m.weekDayHeading(day, day.Date == selected, innerW))
		if len(day.Tasks) == 0 {
			lines = append(lines, "  "+m.styles.EmptyStyle.Render("no tasks"))
		}
		for i, e := range day.Tasks {
			cursor := day.Date == selected && i == m.taskCursor
			lines = append(lines, "  "+m.taskLine(e, cursor, max(innerW-2, 0)))
		}
		lines = append(lines, "")
	}
	if !m.week.CanGoBack {
		lines = append(lines, m.styles.HintStyle.Render(view.Fit("Earlier days of this week are hidden", innerW)))
	}
	if len(lines) > innerH {
		lines = scrollToSelection(lines, m.week, selected, innerH)
	}

	body := view.PadLinesWithBackground(strings.Join(lines, "\n"), innerW, innerH, m.styles.colorBg)
	return m.styles.PanelStyle.Width(innerW + frameW - 2).Render(body)
}

func (m Model) weekDayHeading(day coordinator.WeekDay, selected bool, width int) string {
	style := m.styles.DayHeadingStyle
	if selected {
		style = m.styles.DaySelectedHeader
	}
	heading := style.Render(day.Weekday + " " + day.ShortDate)
	if day.Label != "" {
		heading += " " + m.styles.DayLabelStyle.Render(day.Label)
	}
	if day.Holiday != "" {
		heading += " " + m.styles.HolidayStyle.Render(day.Holiday)
	}
	return view.Fit(heading, width)
}

// scrollToSelection drops leading lines until the selected day's heading fits
// in height lines.
func scrollToSelection(lines []string, week coordinator.WeekView, selected calendar.Date, height int) []string {
	start := 0
	for _, day := range week.Days {
		if day.Date == selected {
			break
		}
		start += max(len(day.Tasks), 1) + 2
	}
	start = min(start, max(len(lines)-height, 0))
	return lines[start : start+min(height, len(lines)-start)]
}

func (m Model) renderFooter(width int) string {
	status := m.statusMsg
	statusStyle := m.styles.StatusStyle
	if m.statusIsErr {
		statusStyle = m.styles.ErrorStyle
	}
	if status == "" && m.fetching {
		status = "Loading holidays..."
		statusStyle = m.styles.HintStyle
	}

	model := view.FooterModel{
		InnerW:      width,
		StatusText:  status,
		HelpText:    m.help.ShortHelpView(m.keys.ShortHelp()),
		ShowPrompt:  m.mode != ModeNormal,
		StatusStyle: statusStyle,
		HelpStyle:   m.styles.HelpStyle,
		PromptStyle: m.styles.PromptStyle,
		Bg:          m.styles.colorBg,
	}
	if model.ShowPrompt {
		frameW, _ := m.styles.PromptStyle.GetFrameSize()
		contentW := max(width-frameW, 0)
		lines := view.PromptLines(m.promptState(), contentW, m.promptSuggestions())
		model.PromptLines = view.ClampPromptLines(lines, promptMaxLines, contentW)
	}
	return view.RenderFooter(model)
}

func (m Model) promptState() view.PromptState {
	state := view.PromptState{
		Value:           m.prompt.Value(),
		Cursor:          "█",
		ShowSuggestions: m.mode == ModeCommand,
	}
	if m.mode == ModeAdd {
		state.Label = "Add task · " + dateutil.Short(m.coord.Selected())
	}
	return state
}

func (m Model) promptSuggestions() []view.PromptCommand {
	if m.mode != ModeCommand {
		return nil
	}
	matches := input.PromptMatchingCommands(m.prompt.Value(), promptCommands)
	out := make([]view.PromptCommand, 0, len(matches))
	for _, c := range matches {
		out = append(out, view.PromptCommand{Name: c.Name, Description: c.Description})
	}
	return out
}
