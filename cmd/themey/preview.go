package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themey/internal/apply"
)

var previewCmd = &cobra.Command{
	Use:   "preview <theme>",
	Short: "Print colour swatches for a theme",
	Long: `Print the 16 ANSI colours of a theme's active palette as two rows of
24-bit colour swatches: the normal colours, then the bright colours.

Requires a terminal with direct-colour (truecolor) support.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeThemes,
	RunE:              runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	applier := apply.New(apply.Options{Logger: logger})
	if err := applier.Preview(os.Stdout, args[0], homeDir); err != nil {
		return fmt.Errorf("failed to preview theme: %w", err)
	}
	return nil
}
