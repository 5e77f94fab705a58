package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/calendo/internal/config"
	"github.com/javiermolinar/calendo/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  calendo config
  calendo config --show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			return runConfigInteractive(path, show, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "Only print the configuration")
	return cmd
}

func runConfigInteractive(configPath string, showOnly bool, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew && !showOnly {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(out, cfg)
	if showOnly {
		return nil
	}

	reader := bufio.NewReader(in)

	// Ask if user wants to edit
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	cfg.Holidays.Provider = promptChoice(reader, out, "Holiday provider",
		cfg.Holidays.Provider, []string{config.ProviderNone, config.ProviderCalendarific, config.ProviderFile})
	if cfg.Holidays.Provider == config.ProviderCalendarific {
		cfg.Holidays.APIKey = promptValue(reader, out, "Calendarific API key", cfg.Holidays.APIKey)
	}
	if cfg.HolidaysEnabled() {
		cfg.Holidays.Country = promptValue(reader, out, "Holiday country (e.g. US)", cfg.Holidays.Country)
		cfg.Holidays.Region = promptValue(reader, out, "Holiday region (e.g. us-ca, empty for national)", cfg.Holidays.Region)
		cfg.Holidays.File = promptValue(reader, out, "Holiday file (YYYY-MM-DD Name per line)", cfg.Holidays.File)
	}
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)
	cfg.UI.StartPage = promptChoice(reader, out, "Start page", cfg.UI.StartPage, []string{config.PageMonth, config.PageWeek})
	cfg.Log.Level = promptChoice(reader, out, "Log level", cfg.Log.Level, []string{"debug", "info", "warn", "error"})

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	apiKey := ""
	if cfg.Holidays.APIKey != "" {
		apiKey = "(set)"
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[storage]")
	fmt.Fprintf(out, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[holidays]")
	fmt.Fprintf(out, "  provider         = %s\n", cfg.Holidays.Provider)
	fmt.Fprintf(out, "  api_key          = %s\n", apiKey)
	fmt.Fprintf(out, "  country          = %s\n", cfg.Holidays.Country)
	fmt.Fprintf(out, "  region           = %s\n", cfg.Holidays.Region)
	fmt.Fprintf(out, "  file             = %s\n", cfg.Holidays.File)
	fmt.Fprintf(out, "  timeout          = %s\n", cfg.Holidays.Timeout)
	fmt.Fprintf(out, "  cache_ttl        = %s\n", cfg.Holidays.CacheTTL)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme            = %s\n", cfg.UI.Theme)
	fmt.Fprintf(out, "  start_page       = %s\n", cfg.UI.StartPage)
	fmt.Fprintln(out, "\n[log]")
	fmt.Fprintf(out, "  file             = %s\n", cfg.Log.File)
	fmt.Fprintf(out, "  level            = %s\n", cfg.Log.Level)
	fmt.Fprintln(out, "\n[server]")
	fmt.Fprintf(out, "  addr             = %s\n", cfg.Server.Addr)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptChoice(reader *bufio.Reader, out io.Writer, label, current string, options []string) string {
	joined := strings.Join(options, ", ")
	for {
		value := strings.ToLower(promptValue(reader, out, fmt.Sprintf("%s (%s)", label, joined), current))
		for _, o := range options {
			if value == o {
				return value
			}
		}
		fmt.Fprintf(out, "  Invalid value %q. Available: %s\n", value, joined)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}

func promptTheme(reader *bufio.Reader, out io.Writer, current string) string {
	return promptChoice(reader, out, "UI theme", current, theme.Available())
}
