package apply

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmylchreest/themey/internal/config"
	"github.com/jmylchreest/themey/internal/model"
	"github.com/jmylchreest/themey/internal/parser"
	"github.com/jmylchreest/themey/internal/render"
)

// ErrThemeExists is returned by Scaffold when the theme directory already exists.
var ErrThemeExists = errors.New("theme already exists")

// ListThemes returns the installed theme names, sorted. A directory counts as
// a theme when it contains a manifest. A missing themes directory yields none.
func ListThemes(homeDir string) ([]string, error) {
	entries, err := os.ReadDir(config.ThemesDir(homeDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}

	themes := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		manifest := filepath.Join(config.ThemeDir(homeDir, e.Name()), model.ManifestFile)
		if _, err := os.Stat(manifest); err == nil {
			themes = append(themes, e.Name())
		}
	}
	sort.Strings(themes)
	return themes, nil
}

// ScaffoldOptions configures a new theme package.
type ScaffoldOptions struct {
	Author   string
	Variants []string // Variant names; each gets <name>.toml. Empty = "default"
	Targets  []string
	Palette  *model.Palette // nil = model.DefaultPalette()
	Force    bool           // Overwrite an existing theme directory
}

// Scaffold writes a manifest and one palette per variant into a new theme
// directory and returns that directory.
func Scaffold(homeDir, themeName string, opts ScaffoldOptions) (string, error) {
	if err := ValidateThemeName(themeName); err != nil {
		return "", err
	}

	for _, t := range opts.Targets {
		if !render.IsSupported(t) {
			return "", &render.UnsupportedTargetError{Target: t}
		}
	}

	variants := append([]string{}, opts.Variants...)
	if len(variants) == 0 {
		variants = []string{"default"}
	}
	files := make([]string, len(variants))
	seen := make(map[string]bool, len(variants))
	for i, v := range variants {
		v = strings.TrimSuffix(v, ".toml")
		if err := ValidateThemeName(v); err != nil {
			return "", fmt.Errorf("variant: %w", err)
		}
		if seen[v] {
			return "", fmt.Errorf("duplicate variant %q", v)
		}
		seen[v] = true
		variants[i] = v
		files[i] = v + ".toml"
	}

	palette := opts.Palette
	if palette == nil {
		p := model.DefaultPalette()
		palette = &p
	}
	if err := palette.Validate(); err != nil {
		return "", err
	}

	meta := &model.ThemeMetadata{
		Name:     themeName,
		Author:   opts.Author,
		Files:    files,
		Targets:  append([]string{}, opts.Targets...),
		Variants: variants,
	}
	if err := meta.Validate(); err != nil {
		return "", err
	}

	dir := config.ThemeDir(homeDir, themeName)
	if _, err := os.Stat(dir); err == nil && !opts.Force {
		return "", fmt.Errorf("%w: %s", ErrThemeExists, dir)
	}

	if err := parser.WriteMetadata(filepath.Join(dir, model.ManifestFile), meta); err != nil {
		return "", err
	}
	for _, f := range files {
		if err := parser.WritePalette(filepath.Join(dir, f), palette); err != nil {
			return "", err
		}
	}
	return dir, nil
}
