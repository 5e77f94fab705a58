package calendar

import "time"

// NotFound is returned by WeekIndexOf when a date is not in the grid.
const NotFound = -1

// WeekRow is one displayed week, Sunday first.
type WeekRow [7]Date

// Contains reports whether the row holds d.
func (w WeekRow) Contains(d Date) bool {
	for _, day := range w {
		if day == d {
			return true
		}
	}
	return false
}

// First returns the Sunday of the row.
func (w WeekRow) First() Date { return w[0] }

// Last returns the Saturday of the row.
func (w WeekRow) Last() Date { return w[6] }

// MonthGrid is a month laid out in complete weeks, including the spillover
// days of the adjacent months needed to fill the first and last rows.
type MonthGrid struct {
	Year  int
	Month time.Month
	Rows  []WeekRow
}

// Days returns the grid flattened in row-major order.
func (g MonthGrid) Days() []Date {
	days := make([]Date, 0, len(g.Rows)*7)
	for _, row := range g.Rows {
		days = append(days, row[:]...)
	}
	return days
}

// First returns the first displayed date.
func (g MonthGrid) First() Date {
	if len(g.Rows) == 0 {
		return Date{}
	}
	return g.Rows[0].First()
}

// Last returns the last displayed date.
func (g MonthGrid) Last() Date {
	if len(g.Rows) == 0 {
		return Date{}
	}
	return g.Rows[len(g.Rows)-1].Last()
}

// InMonth reports whether d belongs to the grid's month rather than a spillover.
func (g MonthGrid) InMonth(d Date) bool {
	return d.Year == g.Year && d.Month == g.Month
}

// DaysInMonth returns the number of days in the month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday (0=Sunday..6=Saturday) of the first of the month.
func FirstWeekday(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// RowCount returns how many week rows the month occupies.
func RowCount(year int, month time.Month) int {
	return (DaysInMonth(year, month) + FirstWeekday(year, month) + 6) / 7
}

// BuildMonthGrid lays out the month in Sunday-first weeks.
//
// Row 0 starts with the trailing days of the previous month (one per
// weekday before the 1st). The last row is padded with the first days of the
// next month only when the month does not already end on a Saturday.
func BuildMonthGrid(year int, month time.Month) MonthGrid {
	year, month = normalizeMonth(year, month)

	daysInMonth := DaysInMonth(year, month)
	firstWeekday := FirstWeekday(year, month)
	used := daysInMonth + firstWeekday
	rows := (used + 6) / 7

	cells := make([]Date, 0, rows*7)

	prevYear, prevMonth := normalizeMonth(year, month-1)
	prevLast := DaysInMonth(prevYear, prevMonth)
	for i := firstWeekday - 1; i >= 0; i-- {
		cells = append(cells, Date{Year: prevYear, Month: prevMonth, Day: prevLast - i})
	}

	for day := 1; day <= daysInMonth; day++ {
		cells = append(cells, Date{Year: year, Month: month, Day: day})
	}

	if rem := used % 7; rem != 0 {
		nextYear, nextMonth := normalizeMonth(year, month+1)
		for day := 1; day <= 7-rem; day++ {
			cells = append(cells, Date{Year: nextYear, Month: nextMonth, Day: day})
		}
	}

	g := MonthGrid{Year: year, Month: month, Rows: make([]WeekRow, rows)}
	for i := range g.Rows {
		copy(g.Rows[i][:], cells[i*7:(i+1)*7])
	}
	return g
}

// WeekIndexOf returns the row index holding d, or NotFound.
func WeekIndexOf(grid MonthGrid, d Date) int {
	for i, row := range grid.Rows {
		if row.Contains(d) {
			return i
		}
	}
	return NotFound
}

// normalizeMonth folds a month outside January-December into the adjacent year.
func normalizeMonth(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}
