package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themey/internal/apply"
	"github.com/jmylchreest/themey/internal/config"
	"github.com/jmylchreest/themey/internal/watch"
)

var watchOpts applierOptions

var watchCmd = &cobra.Command{
	Use:   "watch <theme>",
	Short: "Re-apply a theme whenever its files change",
	Long: `Apply a theme, then watch its directory and apply it again whenever the
manifest or a palette file is saved. Useful while editing a theme.

Press Ctrl+C to stop.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeThemes,
	RunE:              runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchOpts.noReload, "no-reload", false,
		"Write config files without reloading applications")
	watchCmd.Flags().BoolVar(&watchOpts.atomic, "atomic", false,
		"Restore every written file if any target fails to write")
}

func runWatch(cmd *cobra.Command, args []string) error {
	theme := args[0]
	if err := apply.ValidateThemeName(theme); err != nil {
		return err
	}

	applier, cleanup := newApplier(watchOpts)
	defer cleanup()

	reapply := func(ctx context.Context) {
		summary, err := applier.Apply(ctx, theme, homeDir)
		printSummary(os.Stdout, os.Stderr, summary)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", applyFailure(theme, err))
		}
	}

	w, err := watch.New(config.ThemeDir(homeDir, theme), cfg.Debounce(), reapply, logger)
	if err != nil {
		return fmt.Errorf("failed to watch theme: %w", err)
	}

	reapply(cmd.Context())
	fmt.Fprintf(os.Stderr, "Watching %s (Ctrl+C to stop)\n", config.ThemeDir(homeDir, theme))

	return w.Run(cmd.Context())
}
