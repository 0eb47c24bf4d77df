package main

import (
	"os"

	"github.com/spf13/cobra"
)

var useOpts applierOptions

var useCmd = &cobra.Command{
	Use:   "use <theme>",
	Short: "Apply an installed theme",
	Long: `Apply an installed theme to every target listed in its manifest.

For each target a config file is rendered from the theme's active palette and
written under the home directory, then the application is asked to reload.
Unknown targets and failed reloads are reported as warnings and do not stop
the remaining targets.

Examples:
  themey use nord
  themey use nord --no-reload
  themey use nord --atomic`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeThemes,
	RunE:              runUse,
}

func init() {
	rootCmd.AddCommand(useCmd)

	useCmd.Flags().BoolVar(&useOpts.noReload, "no-reload", false,
		"Write config files without reloading applications")
	useCmd.Flags().BoolVar(&useOpts.atomic, "atomic", false,
		"Restore every written file if any target fails to write")
}

func runUse(cmd *cobra.Command, args []string) error {
	applier, cleanup := newApplier(useOpts)
	defer cleanup()

	summary, err := applier.Apply(cmd.Context(), args[0], homeDir)
	printSummary(os.Stdout, os.Stderr, summary)
	if err != nil {
		return applyFailure(args[0], err)
	}
	return nil
}
