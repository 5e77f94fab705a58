package ui

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/calendo/internal/coordinator"
	"github.com/javiermolinar/calendo/internal/dateutil"
)

// Width of one day column in the printed month.
const cellWidth = 5

// Markers printed after a day number.
const (
	markerTasks   = "*"
	markerHoliday = "+"
)

// FormatMonth renders v as a plain calendar grid. Days with open tasks are
// marked with "*" and holidays with "+"; holiday names follow the grid.
func FormatMonth(v coordinator.MonthView) string {
	var b strings.Builder

	width := cellWidth * 7
	title := v.Title
	pad := max((width-len(title))/2, 0)
	fmt.Fprintf(&b, "%s%s\n", strings.Repeat(" ", pad), formatHeader(title))

	for _, name := range coordinator.Weekdays {
		fmt.Fprintf(&b, "%*s ", cellWidth-1, name)
	}
	b.WriteString("\n")

	var holidays []coordinator.Cell
	for _, row := range v.Rows {
		for _, cell := range row {
			b.WriteString(formatCell(cell))
			if cell.InMonth && cell.Holiday != "" {
				holidays = append(holidays, cell)
			}
		}
		b.WriteString("\n")
	}

	if len(holidays) > 0 {
		b.WriteString("\n")
		for _, cell := range holidays {
			fmt.Fprintf(&b, "  %-7s %s\n", dateutil.Short(cell.Date), formatHoliday(cell.Holiday))
		}
	}
	return b.String()
}

func formatCell(cell coordinator.Cell) string {
	marker := " "
	switch {
	case cell.InMonth && len(cell.Indicators) > 0:
		marker = markerTasks
	case cell.InMonth && cell.Holiday != "":
		marker = markerHoliday
	}
	day := fmt.Sprintf("%*d", cellWidth-2, cell.Date.Day)

	switch {
	case !cell.InMonth:
		day = formatMuted(day)
	case cell.IsToday:
		day = formatToday(day)
	case cell.Holiday != "":
		day = formatHoliday(day)
	}
	if marker == markerTasks {
		marker = formatTask(marker)
	}
	return day + marker + " "
}

// FormatTasks renders a day's tasks with their ids, one per line.
func FormatTasks(tasks []coordinator.TaskEntry, width int) string {
	if len(tasks) == 0 {
		return "  " + formatMuted(coordinator.EmptyTasksText) + "\n"
	}
	var b strings.Builder
	for _, e := range tasks {
		b.WriteString(FormatTaskLine(e, width))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatTaskLine renders one task as "  #id [x] text".
func FormatTaskLine(e coordinator.TaskEntry, width int) string {
	line := fmt.Sprintf("  #%-2d %s %s", e.ID, checkbox(e.IsComplete), e.Text)
	line = truncate(line, width)
	if e.IsComplete {
		return formatDone(line)
	}
	return line
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// FormatWeekDay renders the heading of a week page day.
func FormatWeekDay(day coordinator.WeekDay) string {
	heading := formatHeader(day.Weekday + " " + day.ShortDate)
	if day.Label != "" {
		heading += " " + formatToday("("+day.Label+")")
	}
	if day.Holiday != "" {
		heading += " " + formatHoliday(day.Holiday)
	}
	return heading
}
