package config

import (
	"path/filepath"
)

// AppName is used for every themey directory.
const AppName = "themey"

// ThemesDir returns the directory holding installed theme packages.
// The layout is fixed under the home directory regardless of XDG settings.
func ThemesDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName, "themes")
}

// ThemeDir returns the root of the named theme package.
func ThemeDir(homeDir, theme string) string {
	return filepath.Join(ThemesDir(homeDir), theme)
}
