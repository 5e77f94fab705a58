package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/calendo/internal/dateutil"
	"github.com/javiermolinar/calendo/internal/task"
)

// ImportResult summarizes an import.
type ImportResult struct {
	Days    int      // days written
	Tasks   int      // tasks written
	Kept    []string // days left alone because they already had tasks
	Ignored []string // entries that are not task lists
}

func (a *App) importCmd() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import tasks from a browser storage dump",
		Long: `Import day task lists from a JSON object keyed by MM-DD-YYYY, as
dumped from the browser version's localStorage. Each value may be the
stored string or the task array itself:

  {"06-05-2023": "[{\"date\":\"...\",\"task\":\"Buy milk\",\"isComplete\":false}]"}

Days that already have tasks are kept unless --replace is given.

Example:
  calendo import ~/Downloads/calendar.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("import file does not exist: %s", sourcePath)
				}
				return fmt.Errorf("opening import file: %w", err)
			}
			defer func() { _ = f.Close() }()

			res, err := importDump(context.Background(), a.store, f, replace)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d tasks across %d days from %s\n", res.Tasks, res.Days, sourcePath)
			if len(res.Kept) > 0 {
				fmt.Fprintf(out, "Kept %d days that already had tasks (use --replace to overwrite): %s\n",
					len(res.Kept), strings.Join(res.Kept, ", "))
			}
			if len(res.Ignored) > 0 {
				fmt.Fprintf(out, "Ignored %d entries: %s\n", len(res.Ignored), strings.Join(res.Ignored, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Overwrite days that already have tasks")
	return cmd
}

// importDump writes the task lists of a storage dump into dest. Entries whose
// key is not a store key or whose value is not a task list are ignored.
func importDump(ctx context.Context, dest task.Store, r io.Reader, replace bool) (ImportResult, error) {
	var dump map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return ImportResult{}, fmt.Errorf("parsing import file: %w", err)
	}

	keys := make([]string, 0, len(dump))
	for k := range dump {
		keys = append(keys, k)
	}
	dateutil.SortKeys(keys)

	var res ImportResult
	for _, key := range keys {
		if _, err := dateutil.ParseKey(key); err != nil {
			res.Ignored = append(res.Ignored, key)
			continue
		}
		tasks, err := decodeDumpValue(dump[key])
		if err != nil {
			res.Ignored = append(res.Ignored, key)
			continue
		}
		if len(tasks) == 0 {
			continue
		}

		if !replace {
			existing, err := dest.GetTasks(ctx, key)
			if err != nil || len(existing) > 0 {
				res.Kept = append(res.Kept, key)
				continue
			}
		}

		for i := range tasks {
			if tasks[i].Date == "" {
				tasks[i].Date = key
			}
		}
		if err := dest.PutTasks(ctx, key, tasks); err != nil {
			return res, fmt.Errorf("importing %s: %w", key, err)
		}
		res.Days++
		res.Tasks += len(tasks)
	}
	return res, nil
}

// decodeDumpValue accepts a task list or a string holding one.
func decodeDumpValue(raw json.RawMessage) ([]task.Task, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		raw = []byte(s)
	}
	return task.DecodeList(raw)
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
