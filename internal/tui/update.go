package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/calendo/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case commands.HolidaysLoadedMsg:
		if msg.Ticket == m.pendingTicket {
			m.fetching = false
		}
		if msg.Err != nil {
			// Labels are optional; the month renders without them.
			return m, nil
		}
		if m.coord.ApplyHolidays(msg.Ticket, msg.Holidays) {
			m.logger.Debug("Holidays applied",
				zap.Int("year", msg.Ticket.Year),
				zap.Int("month", int(msg.Ticket.Month)),
				zap.Int("count", len(msg.Holidays)))
			m.refresh()
		}
		return m, nil

	case commands.ErrMsg:
		cmd := m.setError(msg.Err)
		return m, cmd

	case commands.StatusMsgCmd:
		cmd := m.setStatus(msg.Msg)
		return m, cmd

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
			m.statusIsErr = false
		}
		return m, nil
	}

	if m.mode != ModeNormal {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}
