// Package coordinator turns calendar state and stored tasks into renderable
// views and routes user events back into the calendar engine.
//
// It knows nothing about terminals or HTTP. A Coordinator is not safe for
// concurrent use; callers serialize access.
package coordinator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/calendo/internal/calendar"
	"github.com/javiermolinar/calendo/internal/dateutil"
	"github.com/javiermolinar/calendo/internal/holiday"
	"github.com/javiermolinar/calendo/internal/task"
)

// Coordinator owns the selected date and the holiday labels of the displayed month.
type Coordinator struct {
	engine *calendar.Engine
	store  task.Store
	logger *zap.Logger

	holidays holiday.Source
	country  string
	region   string

	selected     calendar.Date
	labels       map[string]string
	labelsTicket Ticket
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithHolidays sets the holiday source and the location passed to it.
func WithHolidays(src holiday.Source, country, region string) Option {
	return func(c *Coordinator) {
		if src != nil {
			c.holidays = src
		}
		c.country = country
		c.region = region
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Coordinator over engine and store. The selected date starts at today.
func New(engine *calendar.Engine, store task.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		engine:   engine,
		store:    store,
		logger:   zap.NewNop(),
		holidays: holiday.None{},
		selected: engine.Today(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Engine returns the underlying calendar engine.
func (c *Coordinator) Engine() *calendar.Engine { return c.engine }

// Selected returns the date whose tasks the panel shows.
func (c *Coordinator) Selected() calendar.Date { return c.selected }

// TodayTitle returns today formatted as "January 2, 2006".
func (c *Coordinator) TodayTitle() string {
	return dateutil.Title(c.engine.Today())
}

// NextMonth shows the following month and selects the new reference date.
func (c *Coordinator) NextMonth() error {
	return c.navigate("next_month", func() error { return c.engine.AdvanceMonth(calendar.Forward) })
}

// PrevMonth shows the preceding month and selects the new reference date.
func (c *Coordinator) PrevMonth() error {
	return c.navigate("prev_month", func() error { return c.engine.AdvanceMonth(calendar.Backward) })
}

// NextWeek shows the following week and selects the new reference date.
func (c *Coordinator) NextWeek() error {
	return c.navigate("next_week", func() error { return c.engine.AdvanceWeek(calendar.Forward) })
}

// PrevWeek shows the preceding week and selects the new reference date.
func (c *Coordinator) PrevWeek() error {
	return c.navigate("prev_week", func() error { return c.engine.AdvanceWeek(calendar.Backward) })
}

// GoTo shows the month containing d and selects d.
func (c *Coordinator) GoTo(d calendar.Date) error {
	return c.navigate("goto", func() error { return c.engine.SetReferenceDate(d) })
}

// Today returns to today's month and selects today.
func (c *Coordinator) Today() {
	c.engine.JumpToToday()
	c.selected = c.engine.Today()
	c.logger.Debug("Navigated", zap.String("action", "today"), zap.Stringer("reference", c.selected))
}

// SelectDay selects d without navigating.
func (c *Coordinator) SelectDay(d calendar.Date) error {
	if err := d.Validate(); err != nil {
		return err
	}
	c.selected = d
	return nil
}

// AddTask stores a new task on d and selects d. It returns the task and its id.
func (c *Coordinator) AddTask(ctx context.Context, d calendar.Date, text string) (task.Task, int, error) {
	if err := d.Validate(); err != nil {
		return task.Task{}, 0, err
	}
	key := dateutil.FormatKey(d)
	t, id, err := c.store.SaveTask(ctx, key, text)
	if err != nil {
		return task.Task{}, 0, err
	}
	c.selected = d
	c.logger.Debug("Task added", zap.String("key", key), zap.Int("id", id))
	return t, id, nil
}

// ToggleTask flips the completion of task id on d and selects d.
func (c *Coordinator) ToggleTask(ctx context.Context, d calendar.Date, id int) (task.Task, error) {
	if err := d.Validate(); err != nil {
		return task.Task{}, err
	}
	key := dateutil.FormatKey(d)
	t, err := c.store.ToggleTaskCompletion(ctx, key, id)
	if err != nil {
		return task.Task{}, err
	}
	c.selected = d
	c.logger.Debug("Task toggled", zap.String("key", key), zap.Int("id", id), zap.Bool("complete", t.IsComplete))
	return t, nil
}

func (c *Coordinator) navigate(action string, step func() error) error {
	if err := step(); err != nil {
		c.logger.Warn("Navigation rejected", zap.String("action", action), zap.Error(err))
		return err
	}
	c.selected = c.engine.ReferenceDate()
	c.logger.Debug("Navigated",
		zap.String("action", action),
		zap.Stringer("reference", c.selected),
		zap.Int("week_index", c.engine.CurrentWeekIndex()))
	return nil
}

// tasksFor reads key's list. Read failures are logged and shown as no tasks.
func (c *Coordinator) tasksFor(ctx context.Context, key string) []task.Task {
	tasks, err := c.store.GetTasks(ctx, key)
	if err != nil {
		c.logger.Warn("Failed to read tasks", zap.String("key", key), zap.Error(err))
		return nil
	}
	return tasks
}

// Ticket identifies the month a holiday request was issued for.
type Ticket struct {
	Year    int
	Month   time.Month
	Country string
	Region  string
}

// HolidayTicket returns a ticket for the displayed month.
func (c *Coordinator) HolidayTicket() Ticket {
	month, year := c.engine.Header()
	return Ticket{Year: year, Month: month, Country: c.country, Region: c.region}
}

// FetchHolidays asks the holiday source for the ticket's month. It does not
// touch coordinator state, so it can run off the UI goroutine.
func (c *Coordinator) FetchHolidays(ctx context.Context, t Ticket) ([]holiday.Holiday, error) {
	hs, err := c.holidays.Holidays(ctx, holiday.Query{
		Country: t.Country,
		Region:  t.Region,
		Year:    t.Year,
		Month:   t.Month,
	})
	if err != nil {
		c.logger.Warn("Holiday fetch failed",
			zap.Int("year", t.Year),
			zap.Int("month", int(t.Month)),
			zap.Error(err))
		return nil, err
	}
	return hs, nil
}

// ApplyHolidays installs the labels fetched for t. It returns false and
// discards hs when the displayed month has changed since t was issued.
func (c *Coordinator) ApplyHolidays(t Ticket, hs []holiday.Holiday) bool {
	if t != c.HolidayTicket() {
		c.logger.Debug("Discarding stale holidays",
			zap.Int("year", t.Year),
			zap.Int("month", int(t.Month)))
		return false
	}
	c.labels = holiday.Merge(hs)
	c.labelsTicket = t
	return true
}

// RefreshHolidays fetches and applies the displayed month's holidays.
func (c *Coordinator) RefreshHolidays(ctx context.Context) error {
	t := c.HolidayTicket()
	hs, err := c.FetchHolidays(ctx, t)
	if err != nil {
		return err
	}
	c.ApplyHolidays(t, hs)
	return nil
}

// holidayLabel returns the label of key if labels for the displayed month are loaded.
func (c *Coordinator) holidayLabel(key string) string {
	if c.labels == nil || c.labelsTicket != c.HolidayTicket() {
		return ""
	}
	return c.labels[key]
}
