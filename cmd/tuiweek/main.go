// Package main provides the CLI entrypoint for tuiweek.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuiweek/internal/calendar"
	"github.com/verte-zerg/tuiweek/internal/config"
	"github.com/verte-zerg/tuiweek/internal/icsimport"
	"github.com/verte-zerg/tuiweek/internal/listing"
	"github.com/verte-zerg/tuiweek/internal/model"
	"github.com/verte-zerg/tuiweek/internal/pager"
	"github.com/verte-zerg/tuiweek/internal/store"
	"github.com/verte-zerg/tuiweek/internal/tui"
	"github.com/verte-zerg/tuiweek/internal/weekview"
)

const (
	defaultWeekStart = "monday"
	defaultPageCount = "truncate"
	defaultPrefetch  = 1
	debugEnv         = "TUIWEEK_DEBUG"
)

var (
	calMin       string
	calMax       string
	calWeekStart string
	calPageCount string
	calPrefetch  int

	addDate  string
	addTitle string

	weeksSelect string

	eventsDate string

	deleteUID string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuiweek",
		Short:         "TUI week calendar",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runCalendarCmd,
	}

	addCalendarFlags(rootCmd)

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newWeeksCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newDeleteCmd())

	return rootCmd
}

func addCalendarFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&calMin, "min", "", "first date of the calendar (YYYY-MM-DD, default: Jan 1 last year)")
	cmd.Flags().StringVar(&calMax, "max", "", "last date of the calendar (YYYY-MM-DD, default: Dec 31 next year)")
	cmd.Flags().StringVar(&calWeekStart, "week-start", defaultWeekStart, "first day of the week")
	cmd.Flags().StringVar(&calPageCount, "page-count", defaultPageCount, "trailing partial week handling: truncate or ceil")
	cmd.Flags().IntVar(&calPrefetch, "prefetch", defaultPrefetch, "weeks kept ready on each side of the current one")
}

func runCalendarCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCalendarConfig(cmd)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	closeLog, err := setupDebugLog()
	if err != nil {
		return err
	}
	defer closeLog()

	m, err := tui.NewModel(cfg, st)
	if err != nil {
		return fmt.Errorf("failed to build calendar: %w", err)
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// setupDebugLog sends the log package to a file while the TUI owns the
// terminal, or discards it unless TUIWEEK_DEBUG is set.
func setupDebugLog() (func(), error) {
	if os.Getenv(debugEnv) == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	path := config.DefaultDebugLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "tuiweek")
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	return func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close debug log: %v\n", cerr)
		}
	}, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newWeeksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weeks",
		Short: "List the weeks of the calendar",
		Args:  cobra.NoArgs,
		RunE:  runWeeksCmd,
	}
	addCalendarFlags(cmd)
	cmd.Flags().StringVar(&weeksSelect, "select", "", "day to mark as selected (YYYY-MM-DD, default: today)")
	return cmd
}

func runWeeksCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCalendarConfig(cmd)
	if err != nil {
		return err
	}
	mapper := calendar.NewMapper(cfg.WeekStart, cfg.CountMode)
	adapter := pager.NewAdapter(mapper, weekview.Factory)
	if err := adapter.SetRange(cfg.Min, cfg.Max); err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	index, err := st.MonthEvents(context.Background(), adapter.Range())
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	adapter.ReplaceMonthEvents(index)

	if err := selectWeeksDay(adapter, weeksSelect, calendar.Today()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	return listing.WriteWeeks(out, adapter, listing.Options{Color: listing.ShouldUseColor(out)})
}

// selectWeeksDay marks value, or today when value is empty, as the selected
// day. An explicit day that no page shows is an error; today is skipped.
func selectWeeksDay(adapter *pager.Adapter, value string, today calendar.Date) error {
	day := today
	if value != "" {
		parsed, err := calendar.ParseDate(value)
		if err != nil {
			return fmt.Errorf("invalid --select value: %w", err)
		}
		day = parsed
	}
	if !adapter.Displays(day) {
		if value != "" {
			return fmt.Errorf("invalid --select value: %s is outside the displayed weeks", day)
		}
		return nil
	}
	adapter.SetSelectedDay(day)
	return nil
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event",
		Args:  cobra.NoArgs,
		RunE:  runAddCmd,
	}
	cmd.Flags().StringVar(&addDate, "date", "", "event day (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&addTitle, "title", "", "event title")
	return cmd
}

func runAddCmd(cmd *cobra.Command, _ []string) error {
	day := calendar.Today()
	if addDate != "" {
		parsed, err := calendar.ParseDate(addDate)
		if err != nil {
			return fmt.Errorf("invalid --date value: %w", err)
		}
		day = parsed
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ev, err := st.InsertEvent(context.Background(), model.Event{Day: day, Title: addTitle, Source: "cli"})
	if err != nil {
		return fmt.Errorf("failed to add event: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", ev.Day, ev.UID, ev.Title); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.ics>...",
		Short: "Import events from iCalendar files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(_ *cobra.Command, args []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	for _, path := range args {
		stats, err := icsimport.ImportFile(ctx, st, path, time.Local)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", path, err)
		}
		logErrf("Imported %d events from %s (%d skipped)\n", stats.Imported, path, stats.Skipped)
	}
	return nil
}

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List events of a day",
		Args:  cobra.NoArgs,
		RunE:  runEventsCmd,
	}
	cmd.Flags().StringVar(&eventsDate, "date", "", "day (YYYY-MM-DD, default: today)")
	return cmd
}

func runEventsCmd(cmd *cobra.Command, _ []string) error {
	day := calendar.Today()
	if eventsDate != "" {
		parsed, err := calendar.ParseDate(eventsDate)
		if err != nil {
			return fmt.Errorf("invalid --date value: %w", err)
		}
		day = parsed
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	events, err := st.ListEventsOnDay(context.Background(), day)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	if len(events) == 0 {
		logErrf("No events on %s\n", day)
		return nil
	}
	for _, ev := range events {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", ev.UID, ev.Title, ev.Source); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an event by UID",
		Args:  cobra.NoArgs,
		RunE:  runDeleteCmd,
	}
	cmd.Flags().StringVar(&deleteUID, "uid", "", "event UID as printed by events")
	if err := cmd.MarkFlagRequired("uid"); err != nil {
		logErrf("failed to mark --uid required: %v\n", err)
	}
	return cmd
}

func runDeleteCmd(_ *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	deleted, err := st.DeleteEvent(context.Background(), deleteUID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if !deleted {
		return fmt.Errorf("no event with uid %q", deleteUID)
	}
	logErrf("Deleted %s\n", deleteUID)
	return nil
}

func loadCalendarConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "min", &calMin, fileCfg.Calendar.Min)
	applyStringConfig(cmd, "max", &calMax, fileCfg.Calendar.Max)
	applyStringConfig(cmd, "week-start", &calWeekStart, fileCfg.Calendar.WeekStart)
	applyStringConfig(cmd, "page-count", &calPageCount, fileCfg.Calendar.PageCount)
	applyIntConfig(cmd, "prefetch", &calPrefetch, fileCfg.Calendar.Prefetch)

	return buildConfig(calMin, calMax, calWeekStart, calPageCount, calPrefetch, calendar.Today())
}

func buildConfig(minValue, maxValue, weekStartValue, pageCountValue string, prefetch int, today calendar.Date) (model.Config, error) {
	cfg := model.Config{
		Min:      calendar.NewDate(today.Year()-1, time.January, 1),
		Max:      calendar.NewDate(today.Year()+1, time.December, 31),
		Prefetch: prefetch,
	}
	var err error
	if minValue != "" {
		if cfg.Min, err = calendar.ParseDate(minValue); err != nil {
			return model.Config{}, fmt.Errorf("invalid --min value: %w", err)
		}
	}
	if maxValue != "" {
		if cfg.Max, err = calendar.ParseDate(maxValue); err != nil {
			return model.Config{}, fmt.Errorf("invalid --max value: %w", err)
		}
	}
	if cfg.WeekStart, err = calendar.ParseWeekday(weekStartValue); err != nil {
		return model.Config{}, fmt.Errorf("invalid --week-start value: %w", err)
	}
	if cfg.CountMode, err = calendar.ParseCountMode(pageCountValue); err != nil {
		return model.Config{}, fmt.Errorf("invalid --page-count value: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if _, err := calendar.NewDateRange(cfg.Min, cfg.Max); err != nil {
		return fmt.Errorf("--min/--max: %w", err)
	}
	if cfg.Prefetch < 0 {
		return fmt.Errorf("--prefetch must be >= 0")
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuiweek configuration
# Uncomment a value to enable it. CLI flags override config values.

[calendar]
# min = "2024-01-01"      # First date of the calendar (default: Jan 1 last year)
# max = "2026-12-31"      # Last date of the calendar (default: Dec 31 next year)
# week-start = %q   # First day of the week
# page-count = %q # Trailing partial week: "truncate" drops it, "ceil" keeps it
# prefetch = %d            # Weeks kept ready on each side of the current one
`,
		defaultWeekStart,
		defaultPageCount,
		defaultPrefetch,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
