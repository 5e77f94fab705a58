// Package tui provides the terminal user interface for calendo.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/calendo/internal/config"
	"github.com/javiermolinar/calendo/internal/coordinator"
	"github.com/javiermolinar/calendo/internal/tui/commands"
	"github.com/javiermolinar/calendo/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal  Mode = iota
	ModeAdd          // Typing a new task for the selected day
	ModeCommand      // Typing a /command
)

// Page is the page being shown.
type Page int

const (
	PageMonth Page = iota
	PageWeek
)

func (p Page) String() string {
	if p == PageWeek {
		return config.PageWeek
	}
	return config.PageMonth
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	coord  *coordinator.Coordinator
	config *config.Config
	logger *zap.Logger

	// Theme and styles
	theme  *theme.Theme
	styles *Styles
	keys   keyMap
	help   help.Model

	// State
	page       Page
	mode       Mode
	taskCursor int // Index into the selected day's tasks

	// Cached views, rebuilt by refresh after every change
	month coordinator.MonthView
	week  coordinator.WeekView
	panel coordinator.TaskPanel

	// Holiday fetch in flight, if any
	pendingTicket coordinator.Ticket
	fetching      bool

	// Components
	prompt textinput.Model

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg   string    // Temporary status/error message
	statusIsErr bool      // Render statusMsg as an error
	statusTime  time.Time // When to clear message
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithLogger sets the logger used for key presses and state changes.
func WithLogger(logger *zap.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithPage sets the page shown at startup.
func WithPage(p Page) ModelOption {
	return func(m *Model) {
		m.page = p
	}
}

// New creates a new TUI model.
func New(coord *coordinator.Coordinator, cfg *config.Config, opts ...ModelOption) *Model {
	if cfg == nil {
		cfg = config.Default()
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Prompt = ""
	ti.TextStyle = styles.TaskStyle
	ti.Cursor.Style = styles.TaskCursorStyle

	h := help.New()
	h.Styles.ShortKey = styles.HintStyle.Bold(true)
	h.Styles.ShortDesc = styles.HintStyle
	h.Styles.FullKey = styles.HintStyle.Bold(true)
	h.Styles.FullDesc = styles.HintStyle

	page := PageMonth
	if cfg.UI.StartPage == config.PageWeek {
		page = PageWeek
	}

	m := &Model{
		coord:  coord,
		config: cfg,
		logger: zap.NewNop(),
		theme:  t,
		styles: styles,
		keys:   newKeyMap(),
		help:   h,
		page:   page,
		mode:   ModeNormal,
		prompt: ti,
	}

	for _, opt := range opts {
		opt(m)
	}
	m.refresh()

	return m
}

// Init starts the first holiday fetch.
func (m Model) Init() tea.Cmd {
	if !m.config.HolidaysEnabled() {
		return nil
	}
	return commands.FetchHolidays(m.coord, m.coord.HolidayTicket(), m.config.HolidayTimeout())
}

// Run starts the TUI.
func Run(coord *coordinator.Coordinator, cfg *config.Config, opts ...ModelOption) error {
	model := New(coord, cfg, opts...)
	model.logger.Info("TUI started", zap.Stringer("page", model.page))
	p := tea.NewProgram(*model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}

// refresh rebuilds the cached views from the coordinator.
func (m *Model) refresh() {
	ctx := context.Background()
	m.month = m.coord.MonthView(ctx)
	m.week = m.coord.WeekView(ctx)
	m.panel = m.coord.TaskPanel(ctx)
	if m.taskCursor >= len(m.panel.Tasks) {
		m.taskCursor = max(len(m.panel.Tasks)-1, 0)
	}
}

// fetchHolidaysCmd fetches holidays for the displayed month unless a fetch
// for the same month is already running.
func (m *Model) fetchHolidaysCmd() tea.Cmd {
	if !m.config.HolidaysEnabled() {
		return nil
	}
	t := m.coord.HolidayTicket()
	if m.fetching && t == m.pendingTicket {
		return nil
	}
	m.fetching = true
	m.pendingTicket = t
	return commands.FetchHolidays(m.coord, t, m.config.HolidayTimeout())
}

func (m *Model) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusIsErr = false
	m.statusTime = time.Now().Add(3 * time.Second)
	return commands.ClearStatusAfter(3 * time.Second)
}

func (m *Model) setError(err error) tea.Cmd {
	m.statusMsg = "Error: " + err.Error()
	m.statusIsErr = true
	m.statusTime = time.Now().Add(5 * time.Second)
	m.logger.Warn("TUI action failed", zap.Error(err))
	return commands.ClearStatusAfter(5 * time.Second)
}
