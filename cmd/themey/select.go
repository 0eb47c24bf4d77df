package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themey/internal/output"
	"github.com/jmylchreest/themey/internal/tui"
)

var selectOpts applierOptions

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Pick and apply a theme interactively",
	Long: `Browse installed themes in a terminal UI.

Keys:
  enter  apply the selected theme
  p      preview its colours
  /      filter
  ?      help
  q      quit`,
	Args: cobra.NoArgs,
	RunE: runSelect,
}

func init() {
	rootCmd.AddCommand(selectCmd)

	selectCmd.Flags().BoolVar(&selectOpts.noReload, "no-reload", false,
		"Write config files without reloading applications")
}

func runSelect(cmd *cobra.Command, args []string) error {
	applier, cleanup := newApplier(selectOpts)
	defer cleanup()

	catalog := &tui.ApplierCatalog{
		Applier: applier,
		HomeDir: homeDir,
		Entries: func() ([]output.ThemeEntry, error) { return themeEntries(homeDir) },
	}

	applied, err := tui.Run(cmd.Context(), catalog)
	if err != nil {
		return err
	}
	if applied != "" {
		fmt.Printf("Applied %s\n", applied)
	}
	return nil
}
