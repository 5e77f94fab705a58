package holiday

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/javiermolinar/calendo/internal/calendar"
	"github.com/javiermolinar/calendo/internal/config"
)

const calendarificBody = `{
  "meta": {"code": 200},
  "response": {
    "holidays": [
      {"name": "Independence Day", "date": {"iso": "2023-07-04", "datetime": {"year": 2023, "month": 7, "day": 4}}},
      {"name": "Fourth of July Observed", "date": {"iso": "2023-07-04", "datetime": {"year": 2023, "month": 7, "day": 4}}},
      {"name": "Broken", "date": {"datetime": {"year": 2023, "month": 2, "day": 30}}}
    ]
  }
}`

func newCalendarificServer(t *testing.T, status int, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		q := r.URL.Query()
		if q.Get("api_key") != "key" || q.Get("country") != "US" || q.Get("location") != "us-ca" ||
			q.Get("year") != "2023" || q.Get("month") != "7" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

var july2023 = Query{Country: "US", Region: "us-ca", Year: 2023, Month: time.July}

func TestCalendarific_Decode(t *testing.T) {
	var hits atomic.Int32
	srv := newCalendarificServer(t, http.StatusOK, calendarificBody, &hits)
	c := NewCalendarific("key", zap.NewNop(), WithBaseURL(srv.URL))

	got, err := c.Holidays(context.Background(), july2023)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Holiday{
		{Name: "Independence Day", Date: calendar.Date{Year: 2023, Month: time.July, Day: 4}},
		{Name: "Fourth of July Observed", Date: calendar.Date{Year: 2023, Month: time.July, Day: 4}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCalendarific_Cache(t *testing.T) {
	var hits atomic.Int32
	srv := newCalendarificServer(t, http.StatusOK, calendarificBody, &hits)
	c := NewCalendarific("key", zap.NewNop(), WithBaseURL(srv.URL), WithCacheTTL(time.Hour))

	now := time.Date(2023, 7, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	for range 3 {
		if _, err := c.Holidays(context.Background(), july2023); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("got %d requests, want 1", hits.Load())
	}

	now = now.Add(2 * time.Hour)
	if _, err := c.Holidays(context.Background(), july2023); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("got %d requests after expiry, want 2", hits.Load())
	}
}

func TestCalendarific_Non200(t *testing.T) {
	var hits atomic.Int32
	srv := newCalendarificServer(t, http.StatusUnauthorized, `{"meta":{"code":401}}`, &hits)
	c := NewCalendarific("key", zap.NewNop(), WithBaseURL(srv.URL))

	if _, err := c.Holidays(context.Background(), july2023); err == nil {
		t.Fatal("expected error for non-200 status")
	}

	// Failures are not cached.
	if _, err := c.Holidays(context.Background(), july2023); err == nil {
		t.Fatal("expected error on retry")
	}
	if hits.Load() != 2 {
		t.Errorf("got %d requests, want 2", hits.Load())
	}
}

func TestCalendarific_BadJSON(t *testing.T) {
	var hits atomic.Int32
	srv := newCalendarificServer(t, http.StatusOK, `{"response": [`, &hits)
	c := NewCalendarific("key", zap.NewNop(), WithBaseURL(srv.URL))

	if _, err := c.Holidays(context.Background(), july2023); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestMerge_FirstWins(t *testing.T) {
	hs := []Holiday{
		{Name: "Independence Day", Date: calendar.Date{Year: 2023, Month: time.July, Day: 4}},
		{Name: "Fourth of July Observed", Date: calendar.Date{Year: 2023, Month: time.July, Day: 4}},
		{Name: "Labor Day", Date: calendar.Date{Year: 2023, Month: time.September, Day: 4}},
	}
	got := Merge(hs)
	want := map[string]string{
		"07-04-2023": "Independence Day",
		"09-04-2023": "Labor Day",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	input := `
# US federal holidays
2023-07-04 Independence Day

2023-12-25   Christmas Day
`
	got, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Holiday{
		{Name: "Independence Day", Date: calendar.Date{Year: 2023, Month: time.July, Day: 4}},
		{Name: "Christmas Day", Date: calendar.Date{Year: 2023, Month: time.December, Day: 25}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"2023-07-04", "07/04/2023 Independence Day"} {
		if _, err := Parse(strings.NewReader(bad)); err == nil {
			t.Errorf("Parse(%q) expected error", bad)
		}
	}
}

func TestFileSource_FiltersMonth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.txt")
	content := "2023-07-04 Independence Day\n2023-09-04 Labor Day\n2024-07-04 Independence Day\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	src := NewFileSource(path, nil)
	got, err := src.Holidays(context.Background(), july2023)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Independence Day" || got[0].Date.Year != 2023 {
		t.Errorf("got %+v", got)
	}
}

type stubSource struct {
	holidays []Holiday
	err      error
}

func (s stubSource) Holidays(context.Context, Query) ([]Holiday, error) {
	return s.holidays, s.err
}

func TestComposite(t *testing.T) {
	fallback := stubSource{holidays: []Holiday{{Name: "From file"}}}

	t.Run("primary ok", func(t *testing.T) {
		c := NewComposite(stubSource{holidays: []Holiday{{Name: "From API"}}}, fallback, nil)
		got, err := c.Holidays(context.Background(), july2023)
		if err != nil || len(got) != 1 || got[0].Name != "From API" {
			t.Errorf("got %+v, %v", got, err)
		}
	})

	t.Run("primary fails", func(t *testing.T) {
		c := NewComposite(stubSource{err: errors.New("boom")}, fallback, nil)
		got, err := c.Holidays(context.Background(), july2023)
		if err != nil || len(got) != 1 || got[0].Name != "From file" {
			t.Errorf("got %+v, %v", got, err)
		}
	})
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()

	src, err := FromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := src.(None); !ok {
		t.Errorf("default provider built %T, want None", src)
	}

	cfg.Holidays.Provider = config.ProviderCalendarific
	cfg.Holidays.APIKey = "key"
	src, _ = FromConfig(cfg, nil)
	if _, ok := src.(*Calendarific); !ok {
		t.Errorf("calendarific provider built %T", src)
	}

	cfg.Holidays.File = "/tmp/holidays.txt"
	src, _ = FromConfig(cfg, nil)
	if _, ok := src.(*Composite); !ok {
		t.Errorf("calendarific with file built %T, want *Composite", src)
	}

	cfg.Holidays.Provider = "bogus"
	if _, err := FromConfig(cfg, nil); err == nil {
		t.Error("expected error for unknown provider")
	}
}
