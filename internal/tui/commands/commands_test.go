package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/calendo/internal/coordinator"
	"github.com/javiermolinar/calendo/internal/holiday"
)

type fakeFetcher struct {
	hs       []holiday.Holiday
	err      error
	deadline bool
}

func (f *fakeFetcher) FetchHolidays(ctx context.Context, _ coordinator.Ticket) ([]holiday.Holiday, error) {
	_, f.deadline = ctx.Deadline()
	return f.hs, f.err
}

func TestFetchHolidays(t *testing.T) {
	ticket := coordinator.Ticket{Year: 2023, Month: time.June, Country: "US"}
	hs := []holiday.Holiday{{Name: "Juneteenth"}}
	f := &fakeFetcher{hs: hs}

	msg := FetchHolidays(f, ticket, time.Second)()
	loaded, ok := msg.(HolidaysLoadedMsg)
	if !ok {
		t.Fatalf("msg type = %T, want HolidaysLoadedMsg", msg)
	}
	if loaded.Ticket != ticket {
		t.Errorf("ticket = %+v, want %+v", loaded.Ticket, ticket)
	}
	if len(loaded.Holidays) != 1 || loaded.Err != nil {
		t.Errorf("loaded = %+v", loaded)
	}
	if !f.deadline {
		t.Error("fetch context has no deadline")
	}
}

func TestFetchHolidays_Error(t *testing.T) {
	f := &fakeFetcher{err: errors.New("offline")}

	msg := FetchHolidays(f, coordinator.Ticket{}, 0)()
	loaded := msg.(HolidaysLoadedMsg)
	if loaded.Err == nil {
		t.Fatal("expected error to be carried")
	}
	if f.deadline {
		t.Error("zero timeout should not set a deadline")
	}
}
