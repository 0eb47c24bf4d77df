package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/themey/internal/render"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List supported target applications",
	Long: `List every target id that may appear in a theme manifest, with the file
it is written to and how the application is reloaded.`,
	Args: cobra.NoArgs,
	RunE: runTargets,
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}

func runTargets(cmd *cobra.Command, args []string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TARGET", "KIND", "PATH", "RELOAD")

	for _, target := range render.Targets() {
		t.Row(target.ID, string(target.Kind), target.Path(homeDir), reloadLabel(target.Reload))
	}

	fmt.Println(t.Render())
	return nil
}

func reloadLabel(r *render.ReloadAction) string {
	if r == nil {
		return "-"
	}
	var parts []string
	if r.DBus != nil {
		parts = append(parts, "dbus "+r.DBus.Method)
	}
	if len(r.Command) > 0 {
		parts = append(parts, strings.Join(r.Command, " "))
	}
	return strings.Join(parts, ", then ")
}
