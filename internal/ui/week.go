package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/calendo/internal/calendar"
	"github.com/javiermolinar/calendo/internal/coordinator"
	"github.com/javiermolinar/calendo/internal/dateutil"
)

func (a *App) monthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Print a month with task and holiday markers",
		Long: `Print the month grid. Days with open tasks are marked with "*",
holidays with "+".

Example:
  calendo month
  calendo month 2024-02`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := a.coordinator()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if err := a.goToMonth(coord, args[0]); err != nil {
					return err
				}
			}

			a.loadHolidays(cmd, coord)
			fmt.Fprint(cmd.OutOrStdout(), FormatMonth(coord.MonthView(context.Background())))
			return nil
		},
	}
}

func (a *App) weekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week [date]",
		Short: "Show the tasks of a week",
		Long: `Show every day of the week holding date, with its tasks.
On the current week, days before today are left out.

Dates accept YYYY-MM-DD, MM-DD-YYYY, today, tomorrow, or a weekday name.

Example:
  calendo week
  calendo week next-week`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := a.coordinator()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				d, err := a.parseDate(args[0])
				if err != nil {
					return err
				}
				if err := coord.GoTo(d); err != nil {
					return err
				}
			}

			a.loadHolidays(cmd, coord)
			printWeek(cmd, coord.WeekView(context.Background()))
			return nil
		},
	}
}

func printWeek(cmd *cobra.Command, v coordinator.WeekView) {
	out := cmd.OutOrStdout()
	width := termWidth()

	header := fmt.Sprintf("WEEK: %s - %s", dateutil.Short(v.Dates.First()), dateutil.Title(v.Dates.Last()))
	fmt.Fprintf(out, "\n  %s\n", formatHeader(header))
	fmt.Fprintln(out, strings.Repeat("─", min(width, 74)))

	for i, day := range v.Days {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "  %s\n", FormatWeekDay(day))
		fmt.Fprint(out, FormatTasks(day.Tasks, width))
	}
	if v.IsTodaysWeek && len(v.Days) < 7 {
		fmt.Fprintf(out, "\n  %s\n", formatMuted("Earlier days of this week are hidden"))
	}
	fmt.Fprintln(out)
}

func (a *App) tasksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks [date]",
		Short: "List the tasks of a day",
		Long: `List the tasks of a day with their ids. Ids are used by "calendo done".

Example:
  calendo tasks
  calendo tasks 2025-01-15`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := a.coordinator()
			if err != nil {
				return err
			}
			d := coord.Engine().Today()
			if len(args) == 1 {
				if d, err = a.parseDate(args[0]); err != nil {
					return err
				}
			}

			panel := coord.TaskPanelFor(context.Background(), d)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "  %s\n", formatHeader(panel.Title))
			fmt.Fprint(out, FormatTasks(panel.Tasks, termWidth()))
			return nil
		},
	}
}

func (a *App) holidaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "holidays [YYYY-MM]",
		Short: "List the public holidays of a month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := a.coordinator()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if err := a.goToMonth(coord, args[0]); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if !a.config.HolidaysEnabled() {
				fmt.Fprintln(out, formatMuted("Holidays are disabled. Set [holidays] provider in the config."))
			}

			ctx, cancel := a.holidayContext()
			defer cancel()
			t := coord.HolidayTicket()
			hs, err := coord.FetchHolidays(ctx, t)
			if err != nil {
				return fmt.Errorf("fetching holidays: %w", err)
			}

			title := fmt.Sprintf("%s %d", t.Month, t.Year)
			if len(hs) == 0 {
				fmt.Fprintf(out, "No holidays in %s.\n", title)
				return nil
			}
			fmt.Fprintf(out, "  %s\n", formatHeader(title))
			for _, h := range hs {
				fmt.Fprintf(out, "  %-7s %s\n", dateutil.Short(h.Date), formatHoliday(h.Name))
			}
			return nil
		},
	}
}

// goToMonth shows the month named by a YYYY-MM argument.
func (a *App) goToMonth(coord *coordinator.Coordinator, arg string) error {
	year, month, err := dateutil.ParseMonth(arg)
	if err != nil {
		return fmt.Errorf("%w: %q (want YYYY-MM)", err, arg)
	}
	return coord.GoTo(calendar.Date{Year: year, Month: month, Day: 1})
}

// parseDate resolves a date argument relative to today.
func (a *App) parseDate(arg string) (calendar.Date, error) {
	d, err := dateutil.ParseRelativeDate(arg, a.clock.Now())
	if err != nil {
		return calendar.Date{}, fmt.Errorf("%w: %q", err, arg)
	}
	return d, nil
}

func (a *App) holidayContext() (context.Context, context.CancelFunc) {
	if timeout := a.config.HolidayTimeout(); timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}

// loadHolidays labels the displayed month. Failures only cost the labels.
func (a *App) loadHolidays(cmd *cobra.Command, coord *coordinator.Coordinator) {
	ctx, cancel := a.holidayContext()
	defer cancel()
	if err := coord.RefreshHolidays(ctx); err != nil {
		a.logger.Warn("Holidays unavailable", zap.Error(err))
		fmt.Fprintln(cmd.ErrOrStderr(), formatMuted("holidays unavailable: "+err.Error()))
	}
}
