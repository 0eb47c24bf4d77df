package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themey/internal/history"
	"github.com/jmylchreest/themey/internal/output"
)

var historyOpts struct {
	limit  int
	format string
	clear  bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show previously applied themes",
	Long: `Show themes applied with 'themey use', newest first.

History is stored at ~/.local/share/themey/history.jsonl unless [history] path
is set in the config file.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyOpts.limit, "limit", "n", 0,
		"Maximum entries to show (default: [history] limit)")
	historyCmd.Flags().StringVarP(&historyOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml, names)")
	historyCmd.Flags().BoolVar(&historyOpts.clear, "clear", false,
		"Remove all history entries")
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(historyOpts.format)
	if err != nil {
		return err
	}

	if !historyEnabled() {
		return errors.New("history is disabled")
	}

	if historyOpts.clear {
		log, err := openHistory()
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer log.Close()
		if err := log.Clear(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Println("History cleared")
		return nil
	}

	limit := historyOpts.limit
	if !cmd.Flags().Changed("limit") {
		limit = cfg.History.Limit
	}

	all, err := readHistory(homeDir)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	records := history.Newest(all, limit)

	formatter := output.NewFormatter(format, output.FormatterOptions{Color: isTerminal(os.Stdout)})
	return formatter.FormatHistory(os.Stdout, records)
}
