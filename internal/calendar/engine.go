package calendar

import (
	"fmt"
	"time"
)

// Clock supplies the current time. It is read once, when the engine is built.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Direction is a navigation step.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

func (d Direction) valid() bool {
	return d == Backward || d == Forward
}

// State is a snapshot of the engine.
type State struct {
	ReferenceDate    Date
	Today            Date
	Grid             MonthGrid
	CurrentWeekIndex int // row holding ReferenceDate
	TodayWeekIndex   int // row holding Today, NotFound unless Today is in the displayed month
}

// Engine tracks the date being viewed and derives the month grid from it.
//
// Every navigation call computes a new reference date and rebuilds the grid
// and both week indices from scratch.
type Engine struct {
	today Date
	state State
}

// New creates an engine positioned on today, as reported by clock.
func New(clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock
	}
	e := &Engine{today: DateOf(clock.Now())}
	e.rebuild(e.today)
	return e
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	s := e.state
	s.Grid.Rows = append([]WeekRow(nil), e.state.Grid.Rows...)
	return s
}

// ReferenceDate returns the date being viewed.
func (e *Engine) ReferenceDate() Date { return e.state.ReferenceDate }

// Today returns the date captured at construction.
func (e *Engine) Today() Date { return e.today }

// Grid returns the displayed month grid.
func (e *Engine) Grid() MonthGrid { return e.State().Grid }

// CurrentWeekIndex returns the row holding the reference date.
func (e *Engine) CurrentWeekIndex() int { return e.state.CurrentWeekIndex }

// TodayWeekIndex returns the row holding today, or NotFound.
func (e *Engine) TodayWeekIndex() int { return e.state.TodayWeekIndex }

// CurrentWeek returns the row holding the reference date.
func (e *Engine) CurrentWeek() WeekRow {
	idx := e.state.CurrentWeekIndex
	if idx < 0 || idx >= len(e.state.Grid.Rows) {
		return WeekRow{}
	}
	return e.state.Grid.Rows[idx]
}

// Header returns the displayed month and year.
func (e *Engine) Header() (time.Month, int) {
	return e.state.Grid.Month, e.state.Grid.Year
}

// SetReferenceDate moves the view to d.
// The state is left untouched when d is not a valid date.
func (e *Engine) SetReferenceDate(d Date) error {
	if err := d.Validate(); err != nil {
		return err
	}
	e.rebuild(d)
	return nil
}

// AdvanceMonth steps one month in dir.
//
// Entering the month that contains today lands exactly on today. Any other
// month keeps the reference day, clamped to the length of the target month.
func (e *Engine) AdvanceMonth(dir Direction) error {
	if !dir.valid() {
		return fmt.Errorf("%w: got %d", ErrInvalidDirection, int(dir))
	}

	ref := e.state.ReferenceDate
	year, month := normalizeMonth(ref.Year, ref.Month+time.Month(dir))

	if year == e.today.Year && month == e.today.Month {
		e.rebuild(e.today)
		return nil
	}

	day := min(ref.Day, DaysInMonth(year, month))
	return e.SetReferenceDate(Date{Year: year, Month: month, Day: day})
}

// AdvanceWeek steps one row in dir. Stepping back from the first row lands
// on the last day of the previous month; stepping forward from the last row
// lands on the day after the grid ends. Either way the grid is rebuilt for
// the month of the new reference date.
func (e *Engine) AdvanceWeek(dir Direction) error {
	if !dir.valid() {
		return fmt.Errorf("%w: got %d", ErrInvalidDirection, int(dir))
	}

	idx := e.state.CurrentWeekIndex
	rows := e.state.Grid.Rows
	if idx == NotFound {
		e.rebuild(e.state.ReferenceDate)
		return nil
	}

	var next Date
	switch {
	case dir == Backward && idx == 0:
		ref := e.state.ReferenceDate
		next = Date{Year: ref.Year, Month: ref.Month, Day: 1}.AddDays(-1)
	case dir == Backward:
		next = rows[idx-1].First()
	case idx >= len(rows)-1:
		next = e.state.Grid.Last().AddDays(1)
	default:
		next = rows[idx+1].First()
	}
	return e.SetReferenceDate(next)
}

// JumpToToday moves the view back to today.
func (e *Engine) JumpToToday() {
	e.rebuild(e.today)
}

// IsToday reports whether day of the displayed month is today.
// Year and month are compared as well as the day.
func (e *Engine) IsToday(day int) bool {
	return Date{Year: e.state.Grid.Year, Month: e.state.Grid.Month, Day: day} == e.today
}

// IsTodayDate reports whether d is today.
func (e *Engine) IsTodayDate(d Date) bool {
	return d == e.today
}

func (e *Engine) rebuild(ref Date) {
	grid := BuildMonthGrid(ref.Year, ref.Month)

	todayIdx := NotFound
	if grid.InMonth(e.today) {
		todayIdx = WeekIndexOf(grid, e.today)
	}

	e.state = State{
		ReferenceDate:    ref,
		Today:            e.today,
		Grid:             grid,
		CurrentWeekIndex: WeekIndexOf(grid, ref),
		TodayWeekIndex:   todayIdx,
	}
}
