package export

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/javiermolinar/calendo/internal/calendar"
	"github.com/javiermolinar/calendo/internal/holiday"
	"github.com/javiermolinar/calendo/internal/task"
)

func newStore(t *testing.T) *task.MemoryStore {
	t.Helper()
	ctx := context.Background()
	s := task.NewMemoryStore()
	for _, kv := range []struct{ key, text string }{
		{"06-05-2023", "pay rent"},
		{"06-05-2023", "call mom"},
		{"07-01-2023", "road trip"},
	} {
		if _, _, err := s.SaveTask(ctx, kv.key, kv.text); err != nil {
			t.Fatalf("SaveTask failed: %v", err)
		}
	}
	if _, err := s.ToggleTaskCompletion(ctx, "06-05-2023", 1); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	return s
}

var stamp = time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC)

func TestBuild(t *testing.T) {
	hs := []holiday.Holiday{{Name: "Juneteenth", Date: calendar.Date{Year: 2023, Month: time.June, Day: 19}}}

	cal, err := Build(context.Background(), newStore(t), hs, Options{Now: stamp})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, cal); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"PRODID:" + ProductID,
		"METHOD:PUBLISH",
		"SUMMARY:pay rent",
		"DUE;VALUE=DATE:20230605",
		"STATUS:NEEDS-ACTION",
		"STATUS:COMPLETED",
		"SUMMARY:Juneteenth",
		"DTSTART;VALUE=DATE:20230619",
		"DTEND;VALUE=DATE:20230620",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	parsed, err := ics.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	if n := len(parsed.Todos()); n != 3 {
		t.Errorf("got %d todos, want 3", n)
	}
	if n := len(parsed.Events()); n != 1 {
		t.Errorf("got %d events, want 1", n)
	}
}

func TestBuild_MonthFilter(t *testing.T) {
	cal, err := Build(context.Background(), newStore(t), nil, Options{Year: 2023, Month: time.July, Now: stamp})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	todos := cal.Todos()
	if len(todos) != 1 {
		t.Fatalf("got %d todos, want 1", len(todos))
	}
	if got := todos[0].Id(); got != TaskUID("07-01-2023", 0) {
		t.Errorf("uid = %q", got)
	}
}

func TestTaskUIDStable(t *testing.T) {
	if TaskUID("06-05-2023", 0) != TaskUID("06-05-2023", 0) {
		t.Error("uid is not deterministic")
	}
	if TaskUID("06-05-2023", 0) == TaskUID("06-05-2023", 1) {
		t.Error("uids collide across ids")
	}
}
