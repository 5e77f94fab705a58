package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/calendo/internal/dateutil"
	"github.com/javiermolinar/calendo/internal/task"
)

func (a *App) addCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "add [task]",
		Short: "Add a task to a day",
		Long: `Add a task to a day's list. The day defaults to today.

Example:
  calendo add "Write documentation" --date=2025-01-10
  calendo add Call the bank --date=friday`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := a.coordinator()
			if err != nil {
				return err
			}
			d := coord.Engine().Today()
			if date != "" {
				if d, err = a.parseDate(date); err != nil {
					return err
				}
			}

			text := strings.Join(args, " ")
			t, id, err := coord.AddTask(context.Background(), d, text)
			if err != nil {
				return fmt.Errorf("adding task: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added task #%d to %s: %s\n", id, dateutil.Title(d), t.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day of the task (YYYY-MM-DD, tomorrow, friday; default: today)")
	return cmd
}

func (a *App) doneCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "done [id]",
		Short: "Toggle a task between done and open",
		Long: `Mark a task as done, or reopen it if it is already done.
Ids are shown by "calendo tasks".

Example:
  calendo done 0
  calendo done 2 --date=2025-01-10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id < 0 {
				return fmt.Errorf("invalid task id %q", args[0])
			}

			coord, err := a.coordinator()
			if err != nil {
				return err
			}
			d := coord.Engine().Today()
			if date != "" {
				if d, err = a.parseDate(date); err != nil {
					return err
				}
			}

			t, err := coord.ToggleTask(context.Background(), d, id)
			if err != nil {
				if errors.Is(err, task.ErrTaskNotFound) {
					return fmt.Errorf("no task #%d on %s", id, dateutil.Title(d))
				}
				return fmt.Errorf("toggling task: %w", err)
			}

			out := cmd.OutOrStdout()
			if t.IsComplete {
				fmt.Fprintf(out, "Completed #%d: %s\n", id, t.Text)
			} else {
				fmt.Fprintf(out, "Reopened #%d: %s\n", id, t.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day of the task (default: today)")
	return cmd
}
