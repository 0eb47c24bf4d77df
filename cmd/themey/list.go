package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/themey/internal/apply"
	"github.com/jmylchreest/themey/internal/config"
	"github.com/jmylchreest/themey/internal/model"
	"github.com/jmylchreest/themey/internal/output"
	"github.com/jmylchreest/themey/internal/parser"
)

var listOpts struct {
	format   string
	template string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed themes",
	Long: `List installed themes in name order.

The most recently applied theme is marked with '*'.

Output formats:
  plain  One theme per line (default)
  json   JSON array
  yaml   YAML sequence
  names  Bare theme names, for piping into a picker

A custom Go template can be used for plain output:
  themey list --template '{{.Theme}} {{.Name}} ({{join .Targets ","}})'`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml, names)")
	listCmd.Flags().StringVar(&listOpts.template, "template", "",
		"Go template for plain output")
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(listOpts.format)
	if err != nil {
		return err
	}

	entries, err := themeEntries(homeDir)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(format, output.FormatterOptions{
		Template: listOpts.template,
		Color:    isTerminal(os.Stdout),
	})
	return formatter.FormatThemes(os.Stdout, entries)
}

// themeEntries describes every installed theme, marking the last one applied.
func themeEntries(home string) ([]output.ThemeEntry, error) {
	names, err := apply.ListThemes(home)
	if err != nil {
		return nil, err
	}

	var last *model.AppliedRecord
	records, err := readHistory(home)
	if err != nil {
		logger.Warn("failed to read history", "error", err)
	} else if len(records) > 0 {
		last = &records[len(records)-1]
	}

	entries := make([]output.ThemeEntry, 0, len(names))
	for _, name := range names {
		entry := output.ThemeEntry{Theme: name}

		meta, err := parser.ParseMetadata(filepath.Join(config.ThemeDir(home, name), model.ManifestFile))
		if err != nil {
			entry.Error = err.Error()
		} else {
			entry.Name = meta.Name
			entry.Author = meta.Author
			entry.Variant = meta.ActiveFile()
			entry.Targets = meta.Targets
		}

		if last != nil && last.Theme == name {
			entry.Current = true
			entry.AppliedAt = last.AppliedAt
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
