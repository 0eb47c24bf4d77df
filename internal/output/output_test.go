package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/themey/internal/model"
)

func testThemes() []ThemeEntry {
	return []ThemeEntry{
		{Theme: "gruvbox", Name: "Gruvbox", Author: "morhetz", Targets: []string{"kitty"}},
		{
			Theme:     "nord",
			Name:      "Nord",
			Author:    "arctic",
			Variant:   "dark.toml",
			Targets:   []string{"kitty", "rofi"},
			Current:   true,
			AppliedAt: time.Now().Add(-5 * time.Minute).Unix(),
		},
		{Theme: "broken", Error: "metadata.toml: not found"},
	}
}

func testRecords() []model.AppliedRecord {
	now := time.Now()
	return []model.AppliedRecord{
		{
			ID:        "01B",
			Theme:     "nord",
			Name:      "Nord",
			Author:    "arctic",
			Variant:   "dark.toml",
			Written:   []string{"kitty", "rofi"},
			Skipped:   []string{"unknownapp"},
			AppliedAt: now.Add(-2 * time.Hour).Unix(),
		},
		{ID: "01A", Theme: "gruvbox", Name: "Gruvbox", Author: "morhetz", Failed: []string{"waybar"}, AppliedAt: now.Add(-72 * time.Hour).Unix()},
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range FormatTypes {
		got, err := ParseFormat(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestNewFormatter(t *testing.T) {
	assert.IsType(t, &JSONFormatter{}, NewFormatter(FormatJSON, FormatterOptions{}))
	assert.IsType(t, &YAMLFormatter{}, NewFormatter(FormatYAML, FormatterOptions{}))
	assert.IsType(t, &NamesFormatter{}, NewFormatter(FormatNames, FormatterOptions{}))
	assert.IsType(t, &PlainFormatter{}, NewFormatter(FormatPlain, FormatterOptions{}))
	assert.IsType(t, &PlainFormatter{}, NewFormatter("", FormatterOptions{}))
}

func TestPlainFormatter_Themes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPlainFormatter(FormatterOptions{}).FormatThemes(&buf, testThemes()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "-> gruvbox Gruvbox by morhetz", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "* nord Nord by arctic [applied "))
	assert.Contains(t, lines[1], "minutes ago")
	assert.Equal(t, "-> broken (invalid: metadata.toml: not found)", lines[2])
}

func TestPlainFormatter_Template(t *testing.T) {
	var buf bytes.Buffer
	f := NewPlainFormatter(FormatterOptions{Template: `{{.Theme}}:{{join .Targets ","}}`})
	require.NoError(t, f.FormatThemes(&buf, testThemes()[:2]))
	assert.Equal(t, "gruvbox:kitty\nnord:kitty,rofi\n", buf.String())
}

func TestPlainFormatter_InvalidTemplateFallsBack(t *testing.T) {
	var buf bytes.Buffer
	f := NewPlainFormatter(FormatterOptions{Template: `{{.Theme`})
	require.NoError(t, f.FormatThemes(&buf, testThemes()[:1]))
	assert.Equal(t, "-> gruvbox Gruvbox by morhetz\n", buf.String())
}

func TestPlainFormatter_History(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPlainFormatter(FormatterOptions{}).FormatHistory(&buf, testRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "2 hours ago")
	assert.Contains(t, lines[0], "nord (Nord by arctic) variant=dark.toml written=2 skipped=unknownapp")
	assert.Contains(t, lines[1], "3 days ago")
	assert.Contains(t, lines[1], "written=0 failed=waybar")
}

func TestRelativeTime_Never(t *testing.T) {
	assert.Equal(t, "never", relativeTime(0))
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{}
	require.NoError(t, f.FormatThemes(&buf, testThemes()))

	var themes []ThemeEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &themes))
	require.Len(t, themes, 3)
	assert.True(t, themes[1].Current)

	buf.Reset()
	require.NoError(t, f.FormatHistory(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &YAMLFormatter{}
	require.NoError(t, f.FormatHistory(&buf, testRecords()))

	var records []model.AppliedRecord
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "nord", records[0].Theme)
	assert.Equal(t, []string{"kitty", "rofi"}, records[0].Written)
	assert.Contains(t, buf.String(), "applied_at:")
}

func TestNamesFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &NamesFormatter{}
	require.NoError(t, f.FormatThemes(&buf, testThemes()))
	assert.Equal(t, "gruvbox\nnord\nbroken\n", buf.String())

	buf.Reset()
	require.NoError(t, f.FormatHistory(&buf, testRecords()))
	assert.Equal(t, "nord\ngruvbox\n", buf.String())
}
