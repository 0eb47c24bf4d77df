package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themey/internal/config"
	"github.com/jmylchreest/themey/internal/fetch"
	"github.com/jmylchreest/themey/internal/model"
)

var pullOpts struct {
	apply bool
}

var pullCmd = &cobra.Command{
	Use:   "pull <owner/repo>",
	Short: "Download a theme from a git repository",
	Long: `Clone a theme repository into the themes directory.

The slug is appended to [pull] base_url (default https://github.com/). Any
existing copy of the theme is replaced. A warning is printed if the
repository has no metadata.toml at its root.

Examples:
  themey pull arcticicestudio/nord-themey
  themey pull arcticicestudio/nord-themey --apply`,
	Args: cobra.ExactArgs(1),
	RunE: runPull,
}

func init() {
	rootCmd.AddCommand(pullCmd)

	pullCmd.Flags().BoolVar(&pullOpts.apply, "apply", false,
		"Apply the theme after pulling it")
}

func runPull(cmd *cobra.Command, args []string) error {
	slug := args[0]
	name, err := fetch.ParseSlug(slug)
	if err != nil {
		return err
	}

	if err := config.EnsureThemesDir(homeDir); err != nil {
		return fmt.Errorf("failed to create themes directory: %w", err)
	}

	client := fetch.NewClient(cfg.Pull.Git, cfg.Pull.BaseURL, logger)
	if globalOpts.verbose {
		client.Progress = os.Stderr
	}

	dest := config.ThemeDir(homeDir, name)
	url := client.URL(slug)
	if err := client.Clone(cmd.Context(), url, dest); err != nil {
		return fmt.Errorf("failed to pull %s: %w", slug, err)
	}

	ok, err := client.HeadTreeContains(cmd.Context(), dest, model.ManifestFile)
	if err != nil {
		logger.Warn("failed to inspect repository", "path", dest, "error", err)
	} else if !ok {
		fmt.Fprintf(os.Stderr, "Warning: %s might not be a valid theme!\n-> (%s not found in root of %s)\n",
			slug, model.ManifestFile, dest)
	}

	fmt.Printf("Pulled %s into %s\n", slug, filepath.Clean(dest))

	if !pullOpts.apply {
		return nil
	}
	return runUse(cmd, []string{name})
}
