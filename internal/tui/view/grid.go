package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Lines taken by the grid's own frame: top border, weekday header, header
// rule and bottom border. Columns add eight vertical rules.
const (
	gridFrameH = 4
	gridFrameW = 8
)

// DayBox is one cell of the month grid. Lines[0] is the day number; the
// rest (holiday, task bullets) are cut to the box.
type DayBox struct {
	Lines []string
	Style lipgloss.Style
}

// MonthGridState is a month laid out Sunday first, ready to draw.
type MonthGridState struct {
	Width    int
	Height   int
	Weekdays [7]string
	Weeks    [][7]DayBox

	HeaderStyle lipgloss.Style
	BorderStyle lipgloss.Style
	Bg          lipgloss.Color
}

// GridLayout returns the width of a day column and the height of a week row
// when weeks rows share a width x height area. Both are at least 1.
func GridLayout(width, height, weeks int) (colW, rowH int) {
	colW = max((width-gridFrameW-2)/7, 1)
	if weeks <= 0 {
		return colW, 1
	}
	return colW, max((height-gridFrameH)/weeks, 1)
}

// RenderMonthGrid draws the weeks as a bordered 7-column table. A box with
// more lines than fit ends in "+N more".
func RenderMonthGrid(s MonthGridState) string {
	if s.Height <= 0 || len(s.Weeks) == 0 {
		return PlaceBox(s.Width, max(s.Height, 0), lipgloss.Top, "", s.Bg)
	}
	colW, rowH := GridLayout(s.Width, s.Height, len(s.Weeks))

	rows := make([][]string, len(s.Weeks))
	for i, week := range s.Weeks {
		rows[i] = make([]string, 7)
		for j, box := range week {
			rows[i][j] = boxText(box.Lines, colW, rowH)
		}
	}

	t := table.New().
		Headers(s.Weekdays[:]...).
		Width(max(s.Width-2, 0)).
		Border(lipgloss.RoundedBorder()).
		BorderHeader(true).
		BorderColumn(true).
		BorderRow(false).
		BorderStyle(s.BorderStyle).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col < 0 || col > 6 {
				return lipgloss.NewStyle()
			}
			if row == table.HeaderRow {
				return s.HeaderStyle.Width(colW)
			}
			if row < 0 || row >= len(s.Weeks) {
				return lipgloss.NewStyle()
			}
			return s.Weeks[row][col].Style.Width(colW).Height(rowH)
		})

	return PlaceBox(s.Width, s.Height, lipgloss.Top, t.Render(), s.Bg)
}

func boxText(lines []string, width, height int) string {
	if len(lines) > height {
		hidden := len(lines) - height + 1
		lines = append(append([]string(nil), lines[:height-1]...), fmt.Sprintf("+%d more", hidden))
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = Fit(l, width)
	}
	return strings.Join(out, "\n")
}
