package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/calendo/internal/coordinator"
	"github.com/javiermolinar/calendo/internal/export"
	"github.com/javiermolinar/calendo/internal/holiday"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		month  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks as an iCalendar file",
		Long: `Export tasks as VTODO entries of an iCalendar file. With --month,
only that month is exported and its holidays are added as all-day events.

Example:
  calendo export -o calendo.ics
  calendo export --month 2025-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coord, err := a.coordinator()
			if err != nil {
				return err
			}

			opts := export.Options{Now: a.clock.Now()}
			var holidays []holiday.Holiday
			if month != "" {
				if err := a.goToMonth(coord, month); err != nil {
					return err
				}
				ref := coord.Engine().ReferenceDate()
				opts.Year, opts.Month = ref.Year, ref.Month
				holidays = a.monthHolidays(coord)
			}

			cal, err := export.Build(context.Background(), a.store, holidays, opts)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			if err := export.Write(w, cal); err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Only export this month (YYYY-MM)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

// monthHolidays fetches the displayed month's holidays for export, logging
// and returning none on failure.
func (a *App) monthHolidays(coord *coordinator.Coordinator) []holiday.Holiday {
	ctx, cancel := a.holidayContext()
	defer cancel()
	hs, err := coord.FetchHolidays(ctx, coord.HolidayTicket())
	if err != nil {
		a.logger.Warn("Exporting without holidays", zap.Error(err))
		return nil
	}
	return hs
}
