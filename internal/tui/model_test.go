package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/calendo/internal/calendar"
	"github.com/javiermolinar/calendo/internal/config"
	"github.com/javiermolinar/calendo/internal/coordinator"
	"github.com/javiermolinar/calendo/internal/holiday"
	"github.com/javiermolinar/calendo/internal/task"
	"github.com/javiermolinar/calendo/internal/tui/commands"
)

type stubHolidays struct{}

func (stubHolidays) Holidays(_ context.Context, q holiday.Query) ([]holiday.Holiday, error) {
	if q.Month != time.June {
		return nil, nil
	}
	return []holiday.Holiday{{Name: "Juneteenth", Date: date(2023, time.June, 19)}}, nil
}

func date(y int, m time.Month, d int) calendar.Date {
	return calendar.Date{Year: y, Month: m, Day: d}
}

// newTestModel returns a model whose today is Wednesday June 14, 2023.
func newTestModel(t *testing.T, mutate func(*config.Config)) (Model, *task.MemoryStore) {
	t.Helper()
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	clock := calendar.FixedClock(time.Date(2023, time.June, 14, 12, 0, 0, 0, time.Local))
	store := task.NewMemoryStore()
	coord := coordinator.New(calendar.New(clock), store,
		coordinator.WithHolidays(stubHolidays{}, "US", ""))
	return *New(coord, cfg), store
}

func withHolidays(cfg *config.Config) {
	cfg.Holidays.Provider = config.ProviderFile
	cfg.Holidays.File = "holidays.json"
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyPress(k))
		m = next.(Model)
	}
	return m
}

func TestNewStartPage(t *testing.T) {
	m, _ := newTestModel(t, nil)
	if m.page != PageMonth {
		t.Errorf("default page = %v, want month", m.page)
	}

	m, _ = newTestModel(t, func(cfg *config.Config) { cfg.UI.StartPage = config.PageWeek })
	if m.page != PageWeek {
		t.Errorf("page = %v, want week", m.page)
	}
}

func TestInit(t *testing.T) {
	m, _ := newTestModel(t, nil)
	if cmd := m.Init(); cmd != nil {
		t.Error("Init should not fetch holidays without a provider")
	}

	m, _ = newTestModel(t, withHolidays)
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init should fetch holidays")
	}
	msg, ok := cmd().(commands.HolidaysLoadedMsg)
	if !ok {
		t.Fatalf("Init msg type = %T", cmd())
	}
	if msg.Ticket.Month != time.June || len(msg.Holidays) != 1 {
		t.Errorf("loaded %+v", msg)
	}
}

func TestMonthNavigation(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m = press(t, m, "n")
	if m.month.Title != "July 2023" {
		t.Errorf("after n title = %q", m.month.Title)
	}
	if got := m.coord.Selected(); got != date(2023, time.July, 14) {
		t.Errorf("selected = %s", got)
	}

	m = press(t, m, "p", "p")
	if m.month.Title != "May 2023" {
		t.Errorf("after p p title = %q", m.month.Title)
	}

	m = press(t, m, "t")
	if m.month.Title != "June 2023" || m.coord.Selected() != date(2023, time.June, 14) {
		t.Errorf("after t: %q %s", m.month.Title, m.coord.Selected())
	}
}

func TestMoveSelectionMonthPage(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m = press(t, m, "l", "j")
	if got := m.coord.Selected(); got != date(2023, time.June, 22) {
		t.Errorf("selected = %s, want 2023-06-22", got)
	}

	// Leaving the month navigates to it.
	m = press(t, m, "j", "j")
	if got := m.coord.Selected(); got != date(2023, time.July, 6) {
		t.Errorf("selected = %s, want 2023-07-06", got)
	}
	if m.month.Month != time.July {
		t.Errorf("displayed month = %s", m.month.Month)
	}
}

func TestNavigationFetchesHolidays(t *testing.T) {
	m, _ := newTestModel(t, withHolidays)

	next, cmd := m.Update(keyPress("n"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("month change should fetch holidays")
	}
	if !m.fetching || m.pendingTicket.Month != time.July {
		t.Errorf("pending = %+v fetching = %v", m.pendingTicket, m.fetching)
	}

	// Moving within the month does not refetch.
	_, cmd = m.Update(keyPress("l"))
	if cmd != nil {
		t.Error("selection inside the month should not fetch")
	}
}

func TestHolidaysLoaded(t *testing.T) {
	m, _ := newTestModel(t, withHolidays)
	june := m.coord.HolidayTicket()

	next, _ := m.Update(commands.HolidaysLoadedMsg{
		Ticket:   june,
		Holidays: []holiday.Holiday{{Name: "Juneteenth", Date: date(2023, time.June, 19)}},
	})
	m = next.(Model)
	if got := m.month.Rows[3][1].Holiday; got != "Juneteenth" {
		t.Errorf("Jun 19 holiday = %q", got)
	}

	// A result for a month no longer displayed is dropped.
	m = press(t, m, "n")
	next, _ = m.Update(commands.HolidaysLoadedMsg{
		Ticket:   june,
		Holidays: []holiday.Holiday{{Name: "Stale", Date: date(2023, time.July, 4)}},
	})
	m = next.(Model)
	for _, row := range m.month.Rows {
		for _, c := range row {
			if c.Holiday != "" {
				t.Errorf("%s labelled %q after stale result", c.Key, c.Holiday)
			}
		}
	}

	next, _ = m.Update(commands.HolidaysLoadedMsg{Ticket: m.pendingTicket, Err: errors.New("down")})
	m = next.(Model)
	if m.fetching {
		t.Error("failed fetch should clear fetching")
	}
	if m.statusIsErr {
		t.Error("failed holiday fetch should not surface an error")
	}
}

func TestAddTaskPrompt(t *testing.T) {
	m, store := newTestModel(t, nil)

	m = press(t, m, "a")
	if m.mode != ModeAdd {
		t.Fatalf("mode = %v, want add", m.mode)
	}
	m = press(t, m, "Buy milk", "enter")
	if m.mode != ModeNormal {
		t.Errorf("mode after enter = %v", m.mode)
	}

	stored, err := store.GetTasks(context.Background(), "06-14-2023")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || stored[0].Text != "Buy milk" || stored[0].IsComplete {
		t.Errorf("stored = %+v", stored)
	}
	if len(m.panel.Tasks) != 1 || m.panel.Tasks[0].Text != "Buy milk" {
		t.Errorf("panel = %+v", m.panel.Tasks)
	}
	if m.statusMsg != "Added task to Jun 14" {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestAddTaskEmpty(t *testing.T) {
	m, store := newTestModel(t, nil)

	m = press(t, m, "a", "   ", "enter")
	if !m.statusIsErr {
		t.Errorf("status = %q, want an error", m.statusMsg)
	}
	if keys, _ := store.Keys(context.Background()); len(keys) != 0 {
		t.Errorf("store keys = %v", keys)
	}
}

func TestPromptEscape(t *testing.T) {
	m, store := newTestModel(t, nil)

	m = press(t, m, "a", "draft", "esc")
	if m.mode != ModeNormal || m.prompt.Value() != "" {
		t.Errorf("mode = %v value = %q", m.mode, m.prompt.Value())
	}
	if keys, _ := store.Keys(context.Background()); len(keys) != 0 {
		t.Errorf("store keys = %v", keys)
	}
}

func TestToggleTask(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = press(t, m, "a", "one", "enter", "a", "two", "enter")

	if m.taskCursor != 1 {
		t.Fatalf("cursor = %d, want the new task", m.taskCursor)
	}
	m = press(t, m, "tab", " ")
	if !m.panel.Tasks[0].IsComplete || m.panel.Tasks[1].IsComplete {
		t.Errorf("tasks = %+v", m.panel.Tasks)
	}
	if m.statusMsg != "Completed: one" {
		t.Errorf("status = %q", m.statusMsg)
	}

	// Completed tasks drop out of the cell indicators.
	cell := m.month.Rows[2][3]
	if len(cell.Indicators) != 1 || cell.Indicators[0].Text != "two" {
		t.Errorf("indicators = %+v", cell.Indicators)
	}

	m = press(t, m, "x")
	if m.panel.Tasks[0].IsComplete {
		t.Error("second toggle should reopen the task")
	}
}

func TestToggleWithoutTasks(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = press(t, m, " ")
	if m.statusMsg != "No task to toggle" {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestCommandPrompt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		selected calendar.Date
		page     Page
		errMsg   bool
	}{
		{name: "goto date", input: "/goto 2024-02-29", selected: date(2024, time.February, 29)},
		{name: "bare date", input: "2023-12-25", selected: date(2023, time.December, 25)},
		{name: "relative", input: "/goto tomorrow", selected: date(2023, time.June, 15)},
		{name: "week page", input: "/week", selected: date(2023, time.June, 14), page: PageWeek},
		{name: "bad date", input: "/goto someday", selected: date(2023, time.June, 14), errMsg: true},
		{name: "unknown", input: "/frobnicate", selected: date(2023, time.June, 14), errMsg: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, nil)
			m = press(t, m, ":")
			m.prompt.SetValue(tt.input)
			m = press(t, m, "enter")

			if got := m.coord.Selected(); got != tt.selected {
				t.Errorf("selected = %s, want %s", got, tt.selected)
			}
			if m.page != tt.page {
				t.Errorf("page = %v, want %v", m.page, tt.page)
			}
			if m.statusIsErr != tt.errMsg {
				t.Errorf("statusIsErr = %v (%q)", m.statusIsErr, m.statusMsg)
			}
		})
	}
}

func TestCommandAutocomplete(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = press(t, m, ":", "go", "tab")
	if got := m.prompt.Value(); got != "/goto " {
		t.Errorf("value = %q, want %q", got, "/goto ")
	}
}

func TestWeekPage(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = press(t, m, "v")
	if m.page != PageWeek {
		t.Fatal("v should switch to the week page")
	}

	// Today's week hides Sun-Tue and cannot step back.
	if len(m.week.Days) != 4 || m.week.CanGoBack {
		t.Fatalf("week = %d days canGoBack=%v", len(m.week.Days), m.week.CanGoBack)
	}
	m = press(t, m, "[")
	if m.statusMsg != "Today's week is the earliest" {
		t.Errorf("status = %q", m.statusMsg)
	}
	m = press(t, m, "k")
	if m.coord.Selected() != date(2023, time.June, 14) {
		t.Errorf("selected = %s, hidden days should not be selectable", m.coord.Selected())
	}

	m = press(t, m, "]")
	if len(m.week.Days) != 7 || !m.week.CanGoBack {
		t.Errorf("next week = %d days canGoBack=%v", len(m.week.Days), m.week.CanGoBack)
	}
	if got := m.coord.Selected(); got != date(2023, time.June, 18) {
		t.Errorf("selected = %s, want the first day of the week", got)
	}

	m = press(t, m, "[")
	if got := m.coord.Selected(); got != date(2023, time.June, 14) {
		t.Errorf("back on today's week selected = %s, want today", got)
	}
}

func TestClearStatus(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.statusMsg = "hello"
	m.statusTime = time.Now().Add(-time.Second)

	next, _ := m.Update(commands.ClearStatusMsg{})
	m = next.(Model)
	if m.statusMsg != "" {
		t.Errorf("status = %q", m.statusMsg)
	}

	m.statusMsg = "fresh"
	m.statusTime = time.Now().Add(time.Hour)
	next, _ = m.Update(commands.ClearStatusMsg{})
	if next.(Model).statusMsg != "fresh" {
		t.Error("a newer status should survive an older clear")
	}
}

func TestErrAndStatusMsgs(t *testing.T) {
	m, _ := newTestModel(t, nil)

	next, cmd := m.Update(commands.ErrMsg{Err: errors.New("clipboard unavailable")})
	m = next.(Model)
	if !m.statusIsErr || m.statusMsg != "Error: clipboard unavailable" || cmd == nil {
		t.Errorf("status = %q err=%v", m.statusMsg, m.statusIsErr)
	}

	next, _ = m.Update(commands.StatusMsgCmd{Msg: "Copied tasks"})
	m = next.(Model)
	if m.statusIsErr || m.statusMsg != "Copied tasks" {
		t.Errorf("status = %q err=%v", m.statusMsg, m.statusIsErr)
	}
}

func TestDayChecklist(t *testing.T) {
	p := coordinator.TaskPanel{
		Title: "June 14, 2023",
		Tasks: []coordinator.TaskEntry{
			{ID: 0, Text: "one", IsComplete: true},
			{ID: 1, Text: "two"},
		},
	}
	want := "June 14, 2023\n- [x] one\n- [ ] two\n"
	if got := dayChecklist(p); got != want {
		t.Errorf("dayChecklist = %q, want %q", got, want)
	}
}
