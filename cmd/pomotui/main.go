// Package main provides the CLI entrypoint for pomotui.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/pomotui/internal/alert"
	"github.com/verte-zerg/pomotui/internal/config"
	"github.com/verte-zerg/pomotui/internal/dispatch"
	"github.com/verte-zerg/pomotui/internal/history"
	"github.com/verte-zerg/pomotui/internal/model"
	"github.com/verte-zerg/pomotui/internal/session"
	"github.com/verte-zerg/pomotui/internal/store"
	"github.com/verte-zerg/pomotui/internal/terminal"
	"github.com/verte-zerg/pomotui/internal/tui"
)

const (
	defaultWorkMinutes  = 25
	defaultBreakMinutes = 5
	defaultTick         = dispatch.DefaultCadence
	defaultLogLevel     = "info"

	// shutdownGrace bounds how long exit waits for pending notifications.
	shutdownGrace = 2 * time.Second
)

var (
	timerWork        int
	timerBreak       int
	timerTick        time.Duration
	timerHideImage   bool
	timerSoundFile   string
	timerNoSound     bool
	timerNoNotify    bool
	timerNoAutostart bool
	timerNoHistory   bool
	timerLogLevel    string

	historySince string
	historyDays  int
	historyColor bool
	historyPlot  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pomotui",
		Short:         "Terminal Pomodoro timer",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runTimerCmd,
	}

	rootCmd.Flags().IntVarP(&timerWork, "work", "w", defaultWorkMinutes, "work interval in minutes")
	rootCmd.Flags().IntVarP(&timerBreak, "break", "b", defaultBreakMinutes, "break interval in minutes")
	rootCmd.Flags().DurationVar(&timerTick, "tick", defaultTick, "refresh cadence")
	rootCmd.Flags().BoolVar(&timerHideImage, "hide-image", false, "hide the ASCII art")
	rootCmd.Flags().StringVar(&timerSoundFile, "sound-file", "", "sound played on phase switch (.wav or .mp3, default: built-in bell)")
	rootCmd.Flags().BoolVar(&timerNoSound, "no-sound", false, "disable the phase switch sound")
	rootCmd.Flags().BoolVar(&timerNoNotify, "no-notify", false, "disable desktop notifications")
	rootCmd.Flags().BoolVar(&timerNoAutostart, "no-autostart", false, "wait for <S> before starting the first interval")
	rootCmd.Flags().BoolVar(&timerNoHistory, "no-history", false, "do not record completed intervals")
	rootCmd.Flags().StringVar(&timerLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runTimerCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := resolveConfig(cmd, fileCfg)
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	level, err := log.ParseLevel(timerLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level value: %w", err)
	}

	logger, closeLog := openLogger(config.DefaultLogPath(), level)
	defer closeLog()

	var sinks []alert.Sink
	if !cfg.NoNotify {
		sinks = append(sinks, alert.NewDesktop())
	}
	if !cfg.NoSound {
		clip := alert.DefaultClip()
		if cfg.SoundFile != "" {
			clip = alert.FileClip(cfg.SoundFile)
		}
		sinks = append(sinks, alert.NewSound(clip, alert.NewSpeakerPlayer(), 0))
	}
	if !cfg.NoHistory {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			// The journal is optional; the timer runs without it.
			logger.Warn("interval journal disabled", "err", err)
		} else {
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logger.Error("failed to close db", "err", cerr)
				}
			}()
			sinks = append(sinks, alert.NewJournal(st))
		}
	}
	hub := alert.NewHub(sinks, alert.WithLogger(logger))
	defer func() {
		if !hub.Wait(shutdownGrace) {
			logger.Warn("gave up waiting for notifications")
		}
	}()

	machine := session.New(session.Config{Work: cfg.Work, Break: cfg.Break}, session.WithNotifier(hub))

	input, err := terminal.Open(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	defer func() {
		if cerr := input.Close(); cerr != nil {
			logErrf("failed to restore terminal: %v\n", cerr)
		}
	}()

	dispatcher := dispatch.New(input, dispatch.WithCadence(cfg.Tick), dispatch.WithLogger(logger))
	dispatcher.Start(cmd.Context())
	defer dispatcher.Stop()

	if cfg.Autostart {
		machine.StartOrPause()
	}
	logger.Info("session started", "work", cfg.Work, "break", cfg.Break, "tick", cfg.Tick, "sinks", len(sinks))

	ui := tui.NewModel(machine, dispatcher, tui.Options{HideImage: cfg.HideImage, Logger: logger})
	program := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithInput(nil))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	logger.Info("session finished", "completed", machine.Completed())
	return ui.Err()
}

// resolveConfig merges flags, the config file and defaults. Flags set on the
// command line always win.
func resolveConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.Config, error) {
	applyIntConfig(cmd, "work", &timerWork, fileCfg.Timer.Work)
	applyIntConfig(cmd, "break", &timerBreak, fileCfg.Timer.Break)
	applyInverseBoolConfig(cmd, "no-autostart", &timerNoAutostart, fileCfg.Timer.Autostart)
	if err := applyDurationConfig(cmd, "tick", &timerTick, fileCfg.Timer.Tick); err != nil {
		return model.Config{}, err
	}
	applyBoolConfig(cmd, "hide-image", &timerHideImage, fileCfg.Display.HideImage)
	applyStringConfig(cmd, "sound-file", &timerSoundFile, fileCfg.Sound.File)
	applyBoolConfig(cmd, "no-sound", &timerNoSound, fileCfg.Sound.Disabled)
	applyBoolConfig(cmd, "no-notify", &timerNoNotify, fileCfg.Notify.Disabled)
	applyBoolConfig(cmd, "no-history", &timerNoHistory, fileCfg.History.Disabled)

	if timerWork < 0 {
		return model.Config{}, fmt.Errorf("--work must be >= 0")
	}
	if timerBreak < 0 {
		return model.Config{}, fmt.Errorf("--break must be >= 0")
	}
	return model.Config{
		Work:      time.Duration(timerWork) * time.Minute,
		Break:     time.Duration(timerBreak) * time.Minute,
		Tick:      timerTick,
		Autostart: !timerNoAutostart,
		HideImage: timerHideImage,
		SoundFile: strings.TrimSpace(timerSoundFile),
		NoSound:   timerNoSound,
		NoNotify:  timerNoNotify,
		NoHistory: timerNoHistory,
	}, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.Work < 0 {
		return fmt.Errorf("--work must be >= 0")
	}
	if cfg.Break < 0 {
		return fmt.Errorf("--break must be >= 0")
	}
	if cfg.Work == 0 && cfg.Break == 0 {
		return fmt.Errorf("--work and --break must not both be 0")
	}
	if cfg.Tick <= 0 {
		return fmt.Errorf("--tick must be > 0")
	}
	if cfg.Tick > time.Second {
		return fmt.Errorf("--tick must be <= 1s")
	}
	if cfg.SoundFile != "" && !cfg.NoSound {
		switch strings.ToLower(filepath.Ext(cfg.SoundFile)) {
		case ".wav", ".mp3":
		default:
			return fmt.Errorf("--sound-file must be a .wav or .mp3 file")
		}
	}
	return nil
}

// openLogger writes diagnostics to path because the terminal belongs to the UI.
func openLogger(path string, level log.Level) (*log.Logger, func()) {
	var w io.Writer = io.Discard
	closeFn := func() {}
	f, err := openLogFile(path)
	if err != nil {
		logErrf("logging disabled: %v\n", err)
	} else {
		w = f
		closeFn = func() {
			_ = f.Close()
		}
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "pomotui",
		Level:           level,
	})
	return logger, closeFn
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
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

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show completed intervals per day",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyDays, "days", 0, "limit to the last N days with activity")
	cmd.Flags().BoolVar(&historyColor, "color", false, "force colored output")
	cmd.Flags().BoolVar(&historyPlot, "plot", false, "plot focused minutes per day")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := historyConfig(historySince, historyDays)
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

	report, err := history.BuildReport(cmd.Context(), st, cfg, time.Local)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	out := cmd.OutOrStdout()
	if historyPlot {
		if err := history.PlotFocus(out, report, 0, 0, historyColor); err != nil {
			return fmt.Errorf("failed to write plot: %w", err)
		}
	}
	if err := history.Render(out, report, historyColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func historyConfig(since string, days int) (model.HistoryConfig, error) {
	if days < 0 {
		return model.HistoryConfig{}, fmt.Errorf("--days must be >= 0")
	}
	cfg := model.HistoryConfig{Days: days}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	return cfg, nil
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// applyInverseBoolConfig maps a positive config switch onto a --no-* flag.
func applyInverseBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = !*value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil {
		return nil
	}
	if cmd.Flags().Changed(name) {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*value))
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = d
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pomotui configuration
# Uncomment a value to enable it. CLI flags override config values.

[timer]
# work = %d               # Work interval in minutes
# break = %d               # Break interval in minutes
# autostart = true        # Start the first work interval immediately
# tick = %q           # Refresh cadence

[display]
# hide-image = false      # Hide the ASCII art

[sound]
# file = ""               # .wav or .mp3 played on phase switch (default: built-in bell)
# disabled = false        # Disable the sound cue

[notify]
# disabled = false        # Disable desktop notifications

[history]
# disabled = false        # Do not record completed intervals
`,
		defaultWorkMinutes,
		defaultBreakMinutes,
		defaultTick.String(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
