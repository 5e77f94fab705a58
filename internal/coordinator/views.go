package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/javiermolinar/calendo/internal/calendar"
	"github.com/javiermolinar/calendo/internal/dateutil"
	"github.com/javiermolinar/calendo/internal/task"
)

// EmptyTasksText is shown in a task panel with nothing to list.
const EmptyTasksText = "There are no tasks to display"

// Day labels in the week view.
const (
	LabelToday    = "Today"
	LabelTomorrow = "Tomorrow"
)

// Weekdays are the column headers, Sunday first.
var Weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Indicator marks an incomplete task on a month cell.
type Indicator struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Cell is one day of the month grid.
type Cell struct {
	Date       calendar.Date `json:"date"`
	CellID     string        `json:"cellId"`
	Key        string        `json:"key"`
	InMonth    bool          `json:"inMonth"`
	IsToday    bool          `json:"isToday"`
	IsSelected bool          `json:"isSelected"`
	Indicators []Indicator   `json:"indicators,omitempty"`
	Holiday    string        `json:"holiday,omitempty"`
}

// MonthView is the month page.
type MonthView struct {
	Title    string        `json:"title"`
	Year     int           `json:"year"`
	Month    time.Month    `json:"month"`
	Selected calendar.Date `json:"selected"`
	Rows     [][7]Cell     `json:"rows"`
}

// TaskEntry is a task with its id within the day.
type TaskEntry struct {
	ID         int    `json:"id"`
	Text       string `json:"task"`
	IsComplete bool   `json:"isComplete"`
}

// TaskPanel lists the tasks of the selected day.
type TaskPanel struct {
	Date  calendar.Date `json:"date"`
	Key   string        `json:"key"`
	Title string        `json:"title"`
	Tasks []TaskEntry   `json:"tasks"`
	Empty bool          `json:"empty"`
}

// WeekDay is one day of the week page.
type WeekDay struct {
	Date      calendar.Date `json:"date"`
	Key       string        `json:"key"`
	ShortDate string        `json:"shortDate"`
	Weekday   string        `json:"weekday"`
	Label     string        `json:"label,omitempty"`
	IsToday   bool          `json:"isToday"`
	IsPast    bool          `json:"isPast"`
	HasTasks  bool          `json:"hasTasks"`
	Holiday   string        `json:"holiday,omitempty"`
	Tasks     []TaskEntry   `json:"tasks"`
}

// WeekView is the week page.
type WeekView struct {
	Title        string           `json:"title"`
	Dates        calendar.WeekRow `json:"dates"`
	Days         []WeekDay        `json:"days"`
	IsTodaysWeek bool             `json:"isTodaysWeek"`
	CanGoBack    bool             `json:"canGoBack"`
}

// MonthView builds the month page for the displayed month.
//
// Only incomplete tasks of in-month days become indicators, and only
// in-month cells can be marked as today.
func (c *Coordinator) MonthView(ctx context.Context) MonthView {
	grid := c.engine.Grid()
	v := MonthView{
		Title:    monthTitle(grid.Month, grid.Year),
		Year:     grid.Year,
		Month:    grid.Month,
		Selected: c.selected,
		Rows:     make([][7]Cell, len(grid.Rows)),
	}

	for i, row := range grid.Rows {
		for j, d := range row {
			key := dateutil.FormatKey(d)
			cell := Cell{
				Date:       d,
				CellID:     dateutil.CellID(d),
				Key:        key,
				InMonth:    grid.InMonth(d),
				IsSelected: d == c.selected,
				Holiday:    c.holidayLabel(key),
			}
			if cell.InMonth {
				cell.IsToday = c.engine.IsTodayDate(d)
				for _, e := range task.Incomplete(c.tasksFor(ctx, key)) {
					cell.Indicators = append(cell.Indicators, Indicator{ID: e.ID, Text: e.Task.Text})
				}
			}
			v.Rows[i][j] = cell
		}
	}
	return v
}

// TaskPanel builds the task list of the selected day.
func (c *Coordinator) TaskPanel(ctx context.Context) TaskPanel {
	return c.taskPanelFor(ctx, c.selected)
}

// TaskPanelFor builds the task list of d without changing the selection.
func (c *Coordinator) TaskPanelFor(ctx context.Context, d calendar.Date) TaskPanel {
	return c.taskPanelFor(ctx, d)
}

func (c *Coordinator) taskPanelFor(ctx context.Context, d calendar.Date) TaskPanel {
	key := dateutil.FormatKey(d)
	entries := entriesOf(c.tasksFor(ctx, key))
	return TaskPanel{
		Date:  d,
		Key:   key,
		Title: dateutil.Title(d),
		Tasks: entries,
		Empty: len(entries) == 0,
	}
}

// WeekView builds the week page for the row holding the reference date.
//
// On today's week, days before today are left out and stepping back is
// disabled.
func (c *Coordinator) WeekView(ctx context.Context) WeekView {
	week := c.engine.CurrentWeek()
	today := c.engine.Today()
	tomorrow := today.AddDays(1)
	month, year := c.engine.Header()

	v := WeekView{
		Title:        monthTitle(month, year),
		Dates:        week,
		IsTodaysWeek: week.Contains(today),
	}
	v.CanGoBack = !v.IsTodaysWeek

	for _, d := range week {
		past := d.Before(today)
		if v.IsTodaysWeek && past {
			continue
		}

		key := dateutil.FormatKey(d)
		entries := entriesOf(c.tasksFor(ctx, key))
		day := WeekDay{
			Date:      d,
			Key:       key,
			ShortDate: dateutil.Short(d),
			Weekday:   d.Weekday().String(),
			IsToday:   d == today,
			IsPast:    past,
			HasTasks:  len(entries) > 0,
			Holiday:   c.holidayLabel(key),
			Tasks:     entries,
		}
		switch d {
		case today:
			day.Label = LabelToday
		case tomorrow:
			day.Label = LabelTomorrow
		}
		v.Days = append(v.Days, day)
	}
	return v
}

func entriesOf(tasks []task.Task) []TaskEntry {
	entries := make([]TaskEntry, 0, len(tasks))
	for _, e := range task.Entries(tasks) {
		entries = append(entries, TaskEntry{ID: e.ID, Text: e.Task.Text, IsComplete: e.Task.IsComplete})
	}
	return entries
}

func monthTitle(month time.Month, year int) string {
	return fmt.Sprintf("%s %d", month, year)
}
