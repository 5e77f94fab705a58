// Package export writes stored tasks and holidays as an iCalendar feed.
package export

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/javiermolinar/calendo/internal/calendar"
	"github.com/javiermolinar/calendo/internal/dateutil"
	"github.com/javiermolinar/calendo/internal/holiday"
	"github.com/javiermolinar/calendo/internal/task"
)

// ProductID identifies calendo as the feed producer.
const ProductID = "-//calendo//calendo//EN"

// uidNamespace scopes the name-based UIDs generated for tasks and holidays.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/javiermolinar/calendo"))

// Options selects what is exported.
type Options struct {
	// Year and Month restrict tasks to one month. A zero Month exports every day.
	Year  int
	Month time.Month
	// Now stamps DTSTAMP. Zero means time.Now.
	Now time.Time
}

// Build creates a calendar holding one VTODO per stored task and one all-day
// VEVENT per holiday. UIDs are derived from the day and position, so
// re-exporting updates rather than duplicates entries in a client.
func Build(ctx context.Context, store task.Store, holidays []holiday.Holiday, opts Options) (*ics.Calendar, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)

	keys, err := store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing task days: %w", err)
	}

	for _, key := range keys {
		d, err := dateutil.ParseKey(key)
		if err != nil {
			continue
		}
		if opts.Month != 0 && (d.Year != opts.Year || d.Month != opts.Month) {
			continue
		}

		tasks, err := store.GetTasks(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", key, err)
		}
		for id, t := range tasks {
			addTodo(cal, d, key, id, t, now)
		}
	}

	for _, h := range holidays {
		addHoliday(cal, h, now)
	}

	return cal, nil
}

// Write serializes cal to w.
func Write(w io.Writer, cal *ics.Calendar) error {
	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}

// TaskUID returns the stable UID of task id on key.
func TaskUID(key string, id int) string {
	return uuid.NewSHA1(uidNamespace, []byte("task/"+key+"/"+strconv.Itoa(id))).String()
}

func addTodo(cal *ics.Calendar, d calendar.Date, key string, id int, t task.Task, now time.Time) {
	todo := cal.AddTodo(TaskUID(key, id))
	todo.SetDtStampTime(now)
	todo.SetSummary(t.Text)
	todo.SetProperty(ics.ComponentPropertyDue, icsDate(d), ics.WithValue(string(ics.ValueDataTypeDate)))
	if t.IsComplete {
		todo.SetStatus(ics.ObjectStatusCompleted)
	} else {
		todo.SetStatus(ics.ObjectStatusNeedsAction)
	}
}

func addHoliday(cal *ics.Calendar, h holiday.Holiday, now time.Time) {
	key := dateutil.FormatKey(h.Date)
	event := cal.AddEvent(uuid.NewSHA1(uidNamespace, []byte("holiday/"+key+"/"+h.Name)).String())
	event.SetDtStampTime(now)
	event.SetSummary(h.Name)
	event.SetProperty(ics.ComponentPropertyDtStart, icsDate(h.Date), ics.WithValue(string(ics.ValueDataTypeDate)))
	event.SetProperty(ics.ComponentPropertyDtEnd, icsDate(h.Date.AddDays(1)), ics.WithValue(string(ics.ValueDataTypeDate)))
}

// icsDate formats d as an RFC 5545 DATE value.
func icsDate(d calendar.Date) string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}
