package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Apply.Reload)
	assert.False(t, cfg.Apply.Atomic)
	assert.Equal(t, 5*time.Second, cfg.ReloadTimeout())
	assert.Equal(t, "https://github.com/", cfg.Pull.BaseURL)
	assert.Equal(t, "git", cfg.Pull.Git)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 20, cfg.History.Limit)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[apply]
reload = false
reload_timeout = "2s"
atomic = true

[pull]
base_url = "https://gitlab.com/"
git = "/usr/bin/git"

[history]
enabled = false
path = "/tmp/history.jsonl"
limit = 5

[watch]
debounce = "1s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.False(t, cfg.Apply.Reload)
	assert.True(t, cfg.Apply.Atomic)
	assert.Equal(t, 2*time.Second, cfg.ReloadTimeout())
	assert.Equal(t, "https://gitlab.com/", cfg.Pull.BaseURL)
	assert.Equal(t, "/usr/bin/git", cfg.Pull.Git)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "/tmp/history.jsonl", cfg.HistoryPath("/home/u"))
	assert.Equal(t, 5, cfg.History.Limit)
	assert.Equal(t, time.Second, cfg.Debounce())
}

func TestLoadConfig_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[apply]\natomic = true\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Apply.Atomic)
	assert.True(t, cfg.Apply.Reload)
	assert.Equal(t, DefaultBaseURL, cfg.Pull.BaseURL)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[apply\n"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[watch]\ndebounce = \"soon\"\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch.debounce")
}

func TestConfig_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Apply.Atomic = true
	cfg.Pull.Git = "/opt/git"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfigPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	assert.Equal(t, "/xdg/config/themey/config.toml", ConfigPath())
}

func TestDataPath_XDG(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	assert.Equal(t, "/xdg/data/themey", DataPath(home))
	assert.Equal(t, "/xdg/data/themey", DataPath(""))
	assert.Equal(t, "/xdg/data/themey/history.jsonl", DefaultConfig().HistoryPath(home))
}

func TestHistoryPath_FollowsOverriddenHome(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	assert.Equal(t, "/fake/home/.local/share/themey", DataPath("/fake/home"))
	assert.Equal(t, "/fake/home/.local/share/themey/history.jsonl", DefaultConfig().HistoryPath("/fake/home"))

	cfg := DefaultConfig()
	cfg.History.Path = "/explicit/history.jsonl"
	assert.Equal(t, "/explicit/history.jsonl", cfg.HistoryPath("/fake/home"))
}

func TestThemeDirs(t *testing.T) {
	assert.Equal(t, "/home/u/.config/themey/themes", ThemesDir("/home/u"))
	assert.Equal(t, "/home/u/.config/themey/themes/nord", ThemeDir("/home/u", "nord"))

	home := t.TempDir()
	require.NoError(t, EnsureThemesDir(home))
	info, err := os.Stat(ThemesDir(home))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.Error(t, EnsureThemesDir(""))
}
