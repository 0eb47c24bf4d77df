package render

import (
	"bytes"
	"encoding/json"
	"path"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/themey/internal/model"
)

type alacrittyConfig struct {
	Colors struct {
		Primary struct {
			Background string `toml:"background"`
			Foreground string `toml:"foreground"`
		} `toml:"primary"`
		Cursor struct {
			Text   string `toml:"text"`
			Cursor string `toml:"cursor"`
		} `toml:"cursor"`
		Normal model.ColorSet `toml:"normal"`
		Bright model.ColorSet `toml:"bright"`
	} `toml:"colors"`
}

func renderAlacritty(p *model.Palette) ([]byte, error) {
	var cfg alacrittyConfig
	cfg.Colors.Primary.Background = p.Special.Background
	cfg.Colors.Primary.Foreground = p.Special.Foreground
	cfg.Colors.Cursor.Text = p.Special.Background
	cfg.Colors.Cursor.Cursor = p.Special.Cursor
	cfg.Colors.Normal = p.Normal
	cfg.Colors.Bright = p.Bright

	var buf bytes.Buffer
	buf.WriteString("# Generated by themey. Add this file to general.import in alacritty.toml.\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type vscodeTheme struct {
	Schema      string             `json:"$schema"`
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Colors      map[string]string  `json:"colors"`
	TokenColors []vscodeTokenColor `json:"tokenColors"`
}

type vscodeTokenColor struct {
	Scope    []string           `json:"scope"`
	Settings vscodeTokenSetting `json:"settings"`
}

type vscodeTokenSetting struct {
	Foreground string `json:"foreground,omitempty"`
	FontStyle  string `json:"fontStyle,omitempty"`
}

func renderVSCode(p *model.Palette) ([]byte, error) {
	n, b, s := p.Normal, p.Bright, p.Special

	colors := map[string]string{
		"editor.background":              s.Background,
		"editor.foreground":              s.Foreground,
		"editorCursor.foreground":        s.Cursor,
		"editor.selectionBackground":     b.Black,
		"editor.lineHighlightBackground": n.Black,
		"editorLineNumber.foreground":    b.Black,
		"activityBar.background":         s.Background,
		"activityBar.foreground":         s.Foreground,
		"sideBar.background":             s.Background,
		"sideBar.foreground":             s.Foreground,
		"statusBar.background":           n.Black,
		"statusBar.foreground":           s.Foreground,
		"titleBar.activeBackground":      s.Background,
		"titleBar.activeForeground":      s.Foreground,
		"tab.activeBackground":           s.Background,
		"tab.inactiveBackground":         n.Black,
		"tab.activeBorder":               n.Blue,
		"focusBorder":                    n.Blue,
		"button.background":              n.Blue,
		"button.foreground":              s.Background,
		"terminal.background":            s.Background,
		"terminal.foreground":            s.Foreground,
		"terminalCursor.foreground":      s.Cursor,
		"editorError.foreground":         n.Red,
		"editorWarning.foreground":       n.Yellow,
		"editorInfo.foreground":          n.Blue,
	}
	for i, name := range []string{"Black", "Red", "Green", "Yellow", "Blue", "Magenta", "Cyan", "White"} {
		colors["terminal.ansi"+name] = n.Slice()[i]
		colors["terminal.ansiBright"+name] = b.Slice()[i]
	}

	theme := vscodeTheme{
		Schema: "vscode://schemas/color-theme",
		Name:   "themey",
		Type:   "dark",
		Colors: colors,
		TokenColors: []vscodeTokenColor{
			{Scope: []string{"comment", "punctuation.definition.comment"}, Settings: vscodeTokenSetting{Foreground: b.Black, FontStyle: "italic"}},
			{Scope: []string{"keyword", "storage.type", "storage.modifier"}, Settings: vscodeTokenSetting{Foreground: n.Magenta}},
			{Scope: []string{"string", "constant.other.symbol"}, Settings: vscodeTokenSetting{Foreground: n.Green}},
			{Scope: []string{"constant.numeric", "constant.language"}, Settings: vscodeTokenSetting{Foreground: n.Yellow}},
			{Scope: []string{"entity.name.function", "support.function"}, Settings: vscodeTokenSetting{Foreground: n.Blue}},
			{Scope: []string{"entity.name.type", "support.type"}, Settings: vscodeTokenSetting{Foreground: n.Cyan}},
			{Scope: []string{"variable", "meta.object-literal.key"}, Settings: vscodeTokenSetting{Foreground: s.Foreground}},
			{Scope: []string{"invalid"}, Settings: vscodeTokenSetting{Foreground: b.Red}},
		},
	}

	data, err := json.MarshalIndent(theme, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// vscodeThemeFile is the theme path inside the extension directory.
var vscodeThemeFile = []string{"themes", "themey-color-theme.json"}

func vscodeExtensionDir() []string {
	return []string{".vscode", "extensions", "themey"}
}

type vscodeManifest struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"displayName"`
	Description string            `json:"description"`
	Version     string            `json:"version"`
	Publisher   string            `json:"publisher"`
	Engines     map[string]string `json:"engines"`
	Categories  []string          `json:"categories"`
	Contributes struct {
		Themes []vscodeThemeContribution `json:"themes"`
	} `json:"contributes"`
}

type vscodeThemeContribution struct {
	Label   string `json:"label"`
	UITheme string `json:"uiTheme"`
	Path    string `json:"path"`
}

// renderVSCodeManifest writes the extension manifest VS Code scans for
// contributed color themes.
func renderVSCodeManifest(*model.Palette) ([]byte, error) {
	m := vscodeManifest{
		Name:        "themey",
		DisplayName: "themey",
		Description: "Color theme generated by themey",
		Version:     "0.0.1",
		Publisher:   "themey",
		Engines:     map[string]string{"vscode": "^1.60.0"},
		Categories:  []string{"Themes"},
	}
	m.Contributes.Themes = []vscodeThemeContribution{{
		Label:   "themey",
		UITheme: "vs-dark",
		Path:    "./" + path.Join(vscodeThemeFile...),
	}}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

type k9sColors map[string]string

type k9sSkin struct {
	K9s struct {
		Body   k9sColors `yaml:"body"`
		Prompt k9sColors `yaml:"prompt"`
		Info   k9sColors `yaml:"info"`
		Frame  struct {
			Border k9sColors `yaml:"border"`
			Menu   k9sColors `yaml:"menu"`
			Crumbs k9sColors `yaml:"crumbs"`
			Status k9sColors `yaml:"status"`
			Title  k9sColors `yaml:"title"`
		} `yaml:"frame"`
		Views struct {
			Table struct {
				FgColor       string    `yaml:"fgColor"`
				BgColor       string    `yaml:"bgColor"`
				CursorFgColor string    `yaml:"cursorFgColor"`
				CursorBgColor string    `yaml:"cursorBgColor"`
				Header        k9sColors `yaml:"header"`
			} `yaml:"table"`
		} `yaml:"views"`
	} `yaml:"k9s"`
}

func renderK9s(p *model.Palette) ([]byte, error) {
	n, b, s := p.Normal, p.Bright, p.Special

	var skin k9sSkin
	k := &skin.K9s
	k.Body = k9sColors{"fgColor": s.Foreground, "bgColor": s.Background, "logoColor": n.Blue}
	k.Prompt = k9sColors{"fgColor": s.Foreground, "bgColor": s.Background, "suggestColor": b.Black}
	k.Info = k9sColors{"fgColor": n.Magenta, "sectionColor": s.Foreground}
	k.Frame.Border = k9sColors{"fgColor": b.Black, "focusColor": n.Blue}
	k.Frame.Menu = k9sColors{"fgColor": s.Foreground, "keyColor": n.Blue, "numKeyColor": n.Magenta}
	k.Frame.Crumbs = k9sColors{"fgColor": s.Background, "bgColor": n.Cyan, "activeColor": n.Blue}
	k.Frame.Status = k9sColors{
		"newColor":       n.Cyan,
		"modifyColor":    n.Blue,
		"addColor":       n.Green,
		"errorColor":     n.Red,
		"highlightColor": n.Yellow,
		"killColor":      b.Black,
		"completedColor": b.Black,
	}
	k.Frame.Title = k9sColors{
		"fgColor":        s.Foreground,
		"bgColor":        s.Background,
		"highlightColor": n.Blue,
		"counterColor":   n.Magenta,
		"filterColor":    n.Cyan,
	}
	k.Views.Table.FgColor = s.Foreground
	k.Views.Table.BgColor = s.Background
	k.Views.Table.CursorFgColor = s.Background
	k.Views.Table.CursorBgColor = n.Blue
	k.Views.Table.Header = k9sColors{"fgColor": s.Foreground, "bgColor": s.Background, "sorterColor": n.Cyan}

	var buf bytes.Buffer
	buf.WriteString("# Generated by themey. Set `skin: themey` in k9s config.yaml.\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(skin); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
