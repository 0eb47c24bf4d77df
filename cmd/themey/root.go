// Package main provides the CLI entrypoint for themey.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themey/internal/apply"
	"github.com/jmylchreest/themey/internal/config"
	"github.com/jmylchreest/themey/internal/history"
	"github.com/jmylchreest/themey/internal/model"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		homeDir    string
		noHistory  bool
	}
	logger *slog.Logger

	// homeDir is resolved once and passed to every core call.
	homeDir string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "themey",
	Short: "Colour theme manager for Linux desktop applications",
	Long: `themey installs colour themes and applies them across desktop applications.

A theme is a directory under ~/.config/themey/themes containing a metadata.toml
manifest and one or more palette files. Applying a theme renders a config file
for each target application listed in the manifest, writes it, and asks the
running application to reload.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(os.Stderr)

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		homeDir, err = resolveHome(globalOpts.homeDir)
		if err != nil {
			return err
		}
		logger.Debug("resolved home", "home", homeDir, "themes", config.ThemesDir(homeDir))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/themey/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.homeDir, "home", "",
		"Home directory to read themes from and write configs into (default: $HOME)")
	rootCmd.PersistentFlags().BoolVar(&globalOpts.noHistory, "no-history", false,
		"Do not read or record apply history")
}

// setupLogger configures the global slog logger.
func setupLogger(w io.Writer) {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func resolveHome(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to determine home directory: %w", err)
	}
	return home, nil
}

func historyEnabled() bool {
	return cfg.History.Enabled && !globalOpts.noHistory
}

// readHistory returns recorded applies, oldest first, without creating the log.
func readHistory(home string) ([]model.AppliedRecord, error) {
	if !historyEnabled() {
		return nil, nil
	}
	return history.ReadFile(cfg.HistoryPath(home), logger)
}

// openHistory opens the apply history log, or returns nil when history is disabled.
func openHistory() (*history.Log, error) {
	if !historyEnabled() {
		return nil, nil
	}
	return history.Open(cfg.HistoryPath(homeDir), logger)
}

// applierOptions controls per-command overrides of the [apply] config.
type applierOptions struct {
	noReload bool
	atomic   bool
}

// newApplier builds an Applier from config. The returned func closes the history log.
func newApplier(opts applierOptions) (*apply.Applier, func()) {
	var reloader apply.Reloader = apply.NopReloader{}
	if cfg.Apply.Reload && !opts.noReload {
		reloader = apply.NewSystemReloader(logger, cfg.ReloadTimeout())
	}

	applyOpts := apply.Options{
		Logger:   logger,
		Reloader: reloader,
		Atomic:   cfg.Apply.Atomic || opts.atomic,
	}

	log, err := openHistory()
	if err != nil {
		logger.Warn("failed to open history", "path", cfg.HistoryPath(homeDir), "error", err)
	}
	cleanup := func() {}
	if log != nil {
		applyOpts.Recorder = log
		cleanup = func() {
			if err := log.Close(); err != nil {
				logger.Debug("failed to close history", "error", err)
			}
		}
	}

	return apply.New(applyOpts), cleanup
}

// printSummary reports an apply outcome: warnings to stderr, result to stdout.
func printSummary(stdout, stderr io.Writer, s *apply.Summary) {
	if s == nil {
		return
	}
	for _, w := range s.Warnings {
		fmt.Fprintf(stderr, "Warning: %s\n", w)
	}
	fmt.Fprintf(stdout, "Applied %s by %s (%s): %d written, %d skipped",
		s.Name, s.Author, s.Variant, s.WrittenCount(), s.SkippedCount())
	if n := s.FailedCount(); n > 0 {
		fmt.Fprintf(stdout, ", %d failed", n)
	}
	fmt.Fprintln(stdout)
}

// completeThemes completes installed theme names for the first argument.
func completeThemes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	home, err := resolveHome(globalOpts.homeDir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	themes, err := apply.ListThemes(home)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return themes, cobra.ShellCompDirectiveNoFileComp
}

// applyFailure wraps fatal apply errors with the theme name for the CLI.
func applyFailure(theme string, err error) error {
	var ae *apply.ApplyError
	if errors.As(err, &ae) {
		return fmt.Errorf("failed to apply theme: %w", err)
	}
	return fmt.Errorf("failed to apply theme %q: %w", theme, err)
}
