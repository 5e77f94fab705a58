package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/calendo/internal/calendar"
	"github.com/javiermolinar/calendo/internal/coordinator"
	"github.com/javiermolinar/calendo/internal/dateutil"
	"github.com/javiermolinar/calendo/internal/task"
	"github.com/javiermolinar/calendo/internal/tui/commands"
	"github.com/javiermolinar/calendo/internal/tui/input"
)

// keyMap lists the normal-mode bindings. It implements help.KeyMap.
type keyMap struct {
	PrevDay    key.Binding
	NextDay    key.Binding
	PrevRow    key.Binding
	NextRow    key.Binding
	PrevMonth  key.Binding
	NextMonth  key.Binding
	PrevWeek   key.Binding
	NextWeek   key.Binding
	Today      key.Binding
	SwitchPage key.Binding
	NextTask   key.Binding
	PrevTask   key.Binding
	Toggle     key.Binding
	Add        key.Binding
	Command    key.Binding
	Copy       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		PrevDay:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "prev day")),
		NextDay:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "next day")),
		PrevRow:    key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		NextRow:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		PrevMonth:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev month")),
		NextMonth:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next month")),
		PrevWeek:   key.NewBinding(key.WithKeys("P", "["), key.WithHelp("P/[", "prev week")),
		NextWeek:   key.NewBinding(key.WithKeys("N", "]"), key.WithHelp("N/]", "next week")),
		Today:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		SwitchPage: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "month/week")),
		NextTask:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next task")),
		PrevTask:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev task")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space/x", "toggle done")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Command:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy day")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextMonth, k.PrevMonth, k.Today, k.Add, k.Toggle, k.SwitchPage, k.Help, k.Quit}
}

// FullHelp returns all bindings grouped in columns.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevDay, k.NextDay, k.PrevRow, k.NextRow},
		{k.PrevMonth, k.NextMonth, k.PrevWeek, k.NextWeek, k.Today},
		{k.NextTask, k.PrevTask, k.Toggle, k.Add, k.Copy},
		{k.SwitchPage, k.Command, k.Help, k.Quit},
	}
}

// promptCommands are the commands accepted by the ":" prompt.
var promptCommands = []input.PromptCommand{
	{Name: "/add", Description: "Add a task to the selected day"},
	{Name: "/goto", Description: "Jump to a date (2024-02-29, tomorrow, friday)"},
	{Name: "/today", Description: "Jump to today"},
	{Name: "/month", Description: "Show the month page"},
	{Name: "/week", Description: "Show the week page"},
	{Name: "/copy", Description: "Copy the selected day's tasks"},
}

// handleKeyMsg handles keyboard input. A fetch is issued whenever the
// displayed month changes.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logger.Debug("Key pressed",
		zap.String("key", msg.String()),
		zap.Int("mode", int(m.mode)),
		zap.Stringer("page", m.page))

	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	before := m.coord.HolidayTicket()
	selected := m.coord.Selected()

	var cmd tea.Cmd
	switch m.mode {
	case ModeAdd, ModeCommand:
		m, cmd = m.handlePromptKeys(msg)
	default:
		m, cmd = m.handleNormalKeys(msg)
	}

	if m.coord.Selected() != selected {
		m.taskCursor = 0
	}
	if m.page == PageWeek {
		m.keepSelectionVisible()
	}
	m.refresh()

	if m.coord.HolidayTicket() != before {
		cmd = tea.Batch(cmd, m.fetchHolidaysCmd())
	}
	return m, cmd
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.PrevDay):
		cmd := m.moveSelection(-1)
		return m, cmd
	case key.Matches(msg, m.keys.NextDay):
		cmd := m.moveSelection(1)
		return m, cmd
	case key.Matches(msg, m.keys.PrevRow):
		if m.page == PageWeek {
			cmd := m.moveSelection(-1)
			return m, cmd
		}
		cmd := m.moveSelection(-7)
		return m, cmd
	case key.Matches(msg, m.keys.NextRow):
		if m.page == PageWeek {
			cmd := m.moveSelection(1)
			return m, cmd
		}
		cmd := m.moveSelection(7)
		return m, cmd

	case key.Matches(msg, m.keys.PrevMonth):
		cmd := m.navigate(m.coord.PrevMonth)
		return m, cmd
	case key.Matches(msg, m.keys.NextMonth):
		cmd := m.navigate(m.coord.NextMonth)
		return m, cmd
	case key.Matches(msg, m.keys.PrevWeek):
		if m.page == PageWeek && !m.week.CanGoBack {
			cmd := m.setStatus("Today's week is the earliest")
			return m, cmd
		}
		cmd := m.navigate(m.coord.PrevWeek)
		return m, cmd
	case key.Matches(msg, m.keys.NextWeek):
		cmd := m.navigate(m.coord.NextWeek)
		return m, cmd
	case key.Matches(msg, m.keys.Today):
		m.coord.Today()
		return m, nil

	case key.Matches(msg, m.keys.SwitchPage):
		if m.page == PageMonth {
			m.page = PageWeek
		} else {
			m.page = PageMonth
		}
		m.logger.Debug("Page switched", zap.Stringer("page", m.page))
		return m, nil

	case key.Matches(msg, m.keys.NextTask):
		if n := len(m.panel.Tasks); n > 0 {
			m.taskCursor = (m.taskCursor + 1) % n
		}
		return m, nil
	case key.Matches(msg, m.keys.PrevTask):
		if n := len(m.panel.Tasks); n > 0 {
			m.taskCursor = (m.taskCursor - 1 + n) % n
		}
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		cmd := m.toggleTask()
		return m, cmd

	case key.Matches(msg, m.keys.Add):
		cmd := m.openPrompt(ModeAdd, "")
		return m, cmd
	case key.Matches(msg, m.keys.Command):
		cmd := m.openPrompt(ModeCommand, "/")
		return m, cmd
	case key.Matches(msg, m.keys.Copy):
		cmd := m.copyDay()
		return m, cmd
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

// handlePromptKeys handles keys while the add or command prompt is open.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case tea.KeyTab:
		if m.mode == ModeCommand {
			if value, ok := input.PromptAutocomplete(m.prompt.Value(), promptCommands); ok {
				m.prompt.SetValue(value)
				m.prompt.CursorEnd()
			}
		}
		return m, nil
	case tea.KeyEnter:
		value := m.prompt.Value()
		mode := m.mode
		m.closePrompt()
		if mode == ModeAdd {
			cmd := m.addTask(value)
			return m, cmd
		}
		cmd := m.runCommand(value)
		return m, cmd
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) openPrompt(mode Mode, value string) tea.Cmd {
	m.mode = mode
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	m.prompt.Focus()
	return textinput.Blink
}

func (m *Model) closePrompt() {
	m.mode = ModeNormal
	m.prompt.Blur()
	m.prompt.SetValue("")
}

// runCommand executes a ":" prompt line. Bare text jumps to a date.
func (m *Model) runCommand(line string) tea.Cmd {
	name, arg := input.Parse(line, "/goto")
	switch name {
	case "/add":
		return m.addTask(arg)
	case "/goto":
		d, err := dateutil.ParseRelativeDate(arg, m.coord.Engine().Today().Time())
		if err != nil {
			return m.setError(err)
		}
		return m.navigate(func() error { return m.coord.GoTo(d) })
	case "/today":
		m.coord.Today()
		return nil
	case "/month":
		m.page = PageMonth
		return nil
	case "/week":
		m.page = PageWeek
		return nil
	case "/copy":
		return m.copyDay()
	case "", "/":
		return nil
	default:
		return m.setError(fmt.Errorf("unknown command %q", name))
	}
}

// moveSelection moves the selected day by delta days. Leaving the displayed
// month on the month page, or the displayed week on the week page, navigates.
func (m *Model) moveSelection(delta int) tea.Cmd {
	from := m.coord.Selected()
	to := from.AddDays(delta)
	if err := to.Validate(); err != nil {
		return m.setError(err)
	}

	if m.page == PageWeek {
		week := m.coord.Engine().CurrentWeek()
		switch {
		case week.Contains(to) && !m.hiddenInWeek(to):
			return m.selectDay(to)
		case week.Contains(to):
			return m.setStatus("Past days are hidden on this week")
		case delta > 0:
			return m.navigate(m.coord.NextWeek)
		case m.week.CanGoBack:
			return m.navigate(m.coord.PrevWeek)
		default:
			return m.setStatus("Today's week is the earliest")
		}
	}

	if m.coord.Engine().Grid().InMonth(to) {
		return m.selectDay(to)
	}
	return m.navigate(func() error { return m.coord.GoTo(to) })
}

func (m *Model) selectDay(d calendar.Date) tea.Cmd {
	if err := m.coord.SelectDay(d); err != nil {
		return m.setError(err)
	}
	return nil
}

func (m *Model) navigate(step func() error) tea.Cmd {
	if err := step(); err != nil {
		if errors.Is(err, calendar.ErrInvalidDate) {
			return m.setError(fmt.Errorf("cannot leave the supported calendar range"))
		}
		return m.setError(err)
	}
	return nil
}

// hiddenInWeek reports whether d is a past day left out of today's week.
func (m *Model) hiddenInWeek(d calendar.Date) bool {
	today := m.coord.Engine().Today()
	return m.coord.Engine().CurrentWeek().Contains(today) && d.Before(today)
}

// keepSelectionVisible moves the selection onto today when it would sit on a
// hidden past day of today's week.
func (m *Model) keepSelectionVisible() {
	if sel := m.coord.Selected(); m.hiddenInWeek(sel) {
		_ = m.coord.SelectDay(m.coord.Engine().Today())
		m.taskCursor = 0
	}
}

func (m *Model) addTask(text string) tea.Cmd {
	d := m.coord.Selected()
	_, id, err := m.coord.AddTask(context.Background(), d, text)
	if err != nil {
		if errors.Is(err, task.ErrEmptyText) {
			return m.setError(errors.New("task text cannot be empty"))
		}
		return m.setError(err)
	}
	m.taskCursor = id
	return m.setStatus("Added task to " + dateutil.Short(d))
}

func (m *Model) toggleTask() tea.Cmd {
	if len(m.panel.Tasks) == 0 {
		return m.setStatus("No task to toggle")
	}
	entry := m.panel.Tasks[m.taskCursor]
	t, err := m.coord.ToggleTask(context.Background(), m.panel.Date, entry.ID)
	if err != nil {
		return m.setError(err)
	}
	if t.IsComplete {
		return m.setStatus("Completed: " + t.Text)
	}
	return m.setStatus("Reopened: " + t.Text)
}

// copyDay copies the selected day's tasks as a markdown checklist.
func (m *Model) copyDay() tea.Cmd {
	if len(m.panel.Tasks) == 0 {
		return m.setStatus("No tasks to copy")
	}
	return commands.CopyToClipboard(dayChecklist(m.panel), "tasks for "+dateutil.Short(m.panel.Date))
}

func dayChecklist(p coordinator.TaskPanel) string {
	var b strings.Builder
	b.WriteString(p.Title)
	b.WriteString("\n")
	for _, e := range p.Tasks {
		mark := " "
		if e.IsComplete {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", mark, e.Text)
	}
	return b.String()
}
