// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/calendo/internal/coordinator"
	"github.com/javiermolinar/calendo/internal/holiday"
)

// HolidaysLoadedMsg carries the result of a holiday fetch and the ticket it
// was issued for.
type HolidaysLoadedMsg struct {
	Ticket   coordinator.Ticket
	Holidays []holiday.Holiday
	Err      error
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// HolidayFetcher is the part of the coordinator a fetch needs.
type HolidayFetcher interface {
	FetchHolidays(ctx context.Context, t coordinator.Ticket) ([]holiday.Holiday, error)
}

// FetchHolidays loads the holidays of the ticket's month off the UI goroutine.
func FetchHolidays(f HolidayFetcher, t coordinator.Ticket, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		hs, err := f.FetchHolidays(ctx, t)
		return HolidaysLoadedMsg{Ticket: t, Holidays: hs, Err: err}
	}
}

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying %s: %w", what, err)}
		}
		return StatusMsgCmd{Msg: "Copied " + what}
	}
}

// ClearStatusAfter schedules a ClearStatusMsg.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
