package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themey/internal/apply"
	"github.com/jmylchreest/themey/internal/render"
)

var newOpts struct {
	author   string
	variants []string
	targets  []string
	force    bool
}

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new theme from the default palette",
	Long: `Create a theme directory with a metadata.toml manifest and one palette
file per variant, each filled with the default palette for editing.

Examples:
  themey new mytheme --author me --target kitty --target rofi
  themey new mytheme --author me --variant dark --variant light`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringVarP(&newOpts.author, "author", "a", os.Getenv("USER"),
		"Theme author")
	newCmd.Flags().StringArrayVar(&newOpts.variants, "variant", nil,
		"Variant name; repeat for several (default: default)")
	newCmd.Flags().StringArrayVarP(&newOpts.targets, "target", "t", nil,
		"Target application; repeat for several")
	newCmd.Flags().BoolVar(&newOpts.force, "force", false,
		"Overwrite an existing theme")

	_ = newCmd.RegisterFlagCompletionFunc("target", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return render.TargetIDs(), cobra.ShellCompDirectiveNoFileComp
	})
}

func runNew(cmd *cobra.Command, args []string) error {
	dir, err := apply.Scaffold(homeDir, args[0], apply.ScaffoldOptions{
		Author:   newOpts.author,
		Variants: newOpts.variants,
		Targets:  newOpts.targets,
		Force:    newOpts.force,
	})
	if err != nil {
		return fmt.Errorf("failed to create theme: %w", err)
	}

	fmt.Printf("Created %s\n", dir)
	return nil
}
