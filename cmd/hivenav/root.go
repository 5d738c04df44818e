package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/joshuapare/hivenav/cmd/hivenav/logger"
	"github.com/joshuapare/hivenav/internal/config"
	"github.com/joshuapare/hivenav/internal/reader"
	"github.com/joshuapare/hivenav/internal/watch"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	noColor    bool
	asciiMode  bool
	forcePoll  bool
	debugLog   bool
	logDirFlag string
	configFlag string
)

// cfg is the effective configuration: the config file merged with any flags
// the user set on the command line. Populated before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "hivenav <hive>",
	Short: "Browse Windows registry hive files in the terminal",
	Long: `hivenav is a terminal browser for Windows registry hive files
(NTUSER.DAT, SOFTWARE, SYSTEM and friends). Run it with a hive file to
navigate keys and values interactively, or use the subcommands for
scriptable, one-shot inspection.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runBrowse(args[0])
	},
}

func init() {
	rootCmd.Version = version

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&asciiMode, "ascii", false, "Draw with ASCII characters only")
	rootCmd.PersistentFlags().BoolVar(&forcePoll, "poll", false, "Poll for hive changes instead of using filesystem events")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Write a debug log file")
	rootCmd.PersistentFlags().StringVar(&logDirFlag, "log-dir", "", "Directory for log files")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file")
}

// setup loads the config file, folds in command-line overrides and brings up
// logging. Runs once before every command.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configFlag != "" {
		cfg, err = config.LoadFrom(configFlag)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("no-color") {
		cfg.UI.NoColor = noColor
	}
	if flags.Changed("ascii") {
		cfg.UI.ASCII = asciiMode
	}
	if flags.Changed("poll") {
		cfg.Watch.Poll = forcePoll
	}
	if flags.Changed("log-dir") {
		cfg.Logging.Dir = logDirFlag
	}
	if debugLog {
		cfg.Logging.Enabled = true
		cfg.Logging.Level = "debug"
	}

	if cfg.UI.NoColor {
		// termenv reads NO_COLOR when the first style renders.
		os.Setenv("NO_COLOR", "1")
	}

	if err := logger.Init(logger.Options{
		Enabled: cfg.Logging.Enabled,
		LogDir:  cfg.Logging.Dir,
		Level:   cfg.Logging.Level,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	return nil
}

// runBrowse opens the hive and hands the terminal over to the browser.
func runBrowse(path string) error {
	logger.Info("opening hive", "path", path)
	h, err := reader.Open(path)
	if err != nil {
		return fmt.Errorf("open hive: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	cfg.AddRecent(abs)
	if err := saveConfig(); err != nil {
		logger.Warn("could not save config", "error", err)
	}

	m, err := newModel(abs, h, cfg)
	if err != nil {
		h.Close()
		return err
	}

	if w, err := watch.New(abs, watchOptions()...); err != nil {
		logger.Warn("hive watcher unavailable", "error", err)
	} else if err := w.Start(); err != nil {
		logger.Warn("hive watcher failed to start", "error", err)
	} else {
		m.watcher = w
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if fm, ok := finalModel.(Model); ok {
		fm.Close()
	}
	if err != nil {
		return fmt.Errorf("ui error: %w", err)
	}
	return nil
}

func watchOptions() []watch.Option {
	opts := []watch.Option{
		watch.WithDebounceDuration(time.Duration(cfg.Watch.DebounceMS) * time.Millisecond),
		watch.WithPollInterval(time.Duration(cfg.Watch.IntervalMS) * time.Millisecond),
		watch.WithOnError(func(err error) {
			logger.Warn("hive watcher", "error", err)
		}),
	}
	if cfg.Watch.Poll {
		opts = append(opts, watch.WithForcePoll(true))
	}
	return opts
}

func saveConfig() error {
	if configFlag != "" {
		return config.SaveTo(cfg, configFlag)
	}
	return config.Save(cfg)
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
