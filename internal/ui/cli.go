// Package ui provides the calendo command line interface.
package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/calendo/internal/calendar"
	"github.com/javiermolinar/calendo/internal/config"
	"github.com/javiermolinar/calendo/internal/coordinator"
	"github.com/javiermolinar/calendo/internal/db"
	"github.com/javiermolinar/calendo/internal/holiday"
	"github.com/javiermolinar/calendo/internal/logging"
	"github.com/javiermolinar/calendo/internal/task"
	"github.com/javiermolinar/calendo/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	store      task.Store
	config     *config.Config
	configPath string
	logger     *zap.Logger
	clock      calendar.Clock
	holidays   holiday.Source
	root       *cobra.Command
	debug      bool // Enable debug logging
	noColor    bool
}

// AppOption configures an App.
type AppOption func(*App)

// WithStore uses store instead of opening the configured database.
func WithStore(store task.Store) AppOption {
	return func(a *App) {
		a.store = store
	}
}

// WithClock sets the clock that decides today.
func WithClock(clock calendar.Clock) AppOption {
	return func(a *App) {
		a.clock = clock
	}
}

// WithLogger uses logger instead of building one from the config.
func WithLogger(logger *zap.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// WithHolidaySource uses src instead of the configured provider.
func WithHolidaySource(src holiday.Source) AppOption {
	return func(a *App) {
		a.holidays = src
	}
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config, opts ...AppOption) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{config: cfg, clock: calendar.SystemClock}
	for _, opt := range opts {
		opt(a)
	}

	a.root = &cobra.Command{
		Use:   "calendo",
		Short: "A month calendar with a daily task list",
		Long: `Calendo shows a month at a time, lets you keep a task list for
every day, and labels public holidays.

Run without arguments to open the interactive calendar.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			coord, err := a.coordinator()
			if err != nil {
				return err
			}
			return tui.Run(coord, a.config, tui.WithLogger(a.logger))
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	a.root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.config/calendo/config.toml)")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.monthCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.tasksCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.doneCmd())
	a.root.AddCommand(a.holidaysCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.serveCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "calendo %s (commit: %s)\n", Version, Commit)
		},
	}
}

// setup applies the global flags before any command runs.
func (a *App) setup() error {
	if a.noColor {
		DisableColor()
	}
	if a.configPath != "" {
		cfg, err := config.LoadFrom(a.configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		a.config = cfg
	}
	if a.logger == nil {
		logger, err := logging.New(logging.Options{
			File:  a.config.Log.File,
			Level: a.config.Log.Level,
			Debug: a.debug,
		})
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		a.logger = logger
	}
	return nil
}

// ensureStore opens the configured database on first use.
func (a *App) ensureStore() error {
	if a.store != nil {
		return nil
	}
	path := a.config.Storage.DBPath
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}
	store, err := db.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.store = store
	return nil
}

// coordinator builds a coordinator over the store and the holiday source.
func (a *App) coordinator() (*coordinator.Coordinator, error) {
	if err := a.ensureStore(); err != nil {
		return nil, err
	}
	if a.holidays == nil {
		src, err := holiday.FromConfig(a.config, a.logger)
		if err != nil {
			return nil, err
		}
		a.holidays = src
	}
	return coordinator.New(calendar.New(a.clock), a.store,
		coordinator.WithHolidays(a.holidays, a.config.Holidays.Country, a.config.Holidays.Region),
		coordinator.WithLogger(a.logger),
	), nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the store and flushes the logger.
func (a *App) Close() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
