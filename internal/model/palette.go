package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ColorNames lists the ANSI color slots in terminal order.
var ColorNames = []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// SpecialNames lists the special color slots.
var SpecialNames = []string{"background", "foreground", "cursor"}

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ColorSet holds the eight ANSI colors of one intensity.
type ColorSet struct {
	Black   string `toml:"black" json:"black" yaml:"black"`
	Red     string `toml:"red" json:"red" yaml:"red"`
	Green   string `toml:"green" json:"green" yaml:"green"`
	Yellow  string `toml:"yellow" json:"yellow" yaml:"yellow"`
	Blue    string `toml:"blue" json:"blue" yaml:"blue"`
	Magenta string `toml:"magenta" json:"magenta" yaml:"magenta"`
	Cyan    string `toml:"cyan" json:"cyan" yaml:"cyan"`
	White   string `toml:"white" json:"white" yaml:"white"`
}

// SpecialColors holds the non-ANSI colors.
type SpecialColors struct {
	Background string `toml:"background" json:"background" yaml:"background"`
	Foreground string `toml:"foreground" json:"foreground" yaml:"foreground"`
	Cursor     string `toml:"cursor" json:"cursor" yaml:"cursor"`
}

// Palette is the resolved color set of a single variant.
type Palette struct {
	Normal  ColorSet      `toml:"normal" json:"normal" yaml:"normal"`
	Bright  ColorSet      `toml:"bright" json:"bright" yaml:"bright"`
	Special SpecialColors `toml:"special" json:"special" yaml:"special"`
}

// PaletteFile is the on-disk shape of a variant file.
type PaletteFile struct {
	Colors Palette `toml:"colors"`
}

// Slice returns the colors in ANSI order (black..white).
func (c ColorSet) Slice() []string {
	return []string{c.Black, c.Red, c.Green, c.Yellow, c.Blue, c.Magenta, c.Cyan, c.White}
}

// Get returns the color by its canonical name.
func (c ColorSet) Get(name string) (string, bool) {
	switch name {
	case "black":
		return c.Black, true
	case "red":
		return c.Red, true
	case "green":
		return c.Green, true
	case "yellow":
		return c.Yellow, true
	case "blue":
		return c.Blue, true
	case "magenta":
		return c.Magenta, true
	case "cyan":
		return c.Cyan, true
	case "white":
		return c.White, true
	default:
		return "", false
	}
}

// ANSI returns the sixteen terminal colors, normal then bright.
func (p *Palette) ANSI() []string {
	return append(p.Normal.Slice(), p.Bright.Slice()...)
}

// Entries returns all 19 values keyed by dotted path (e.g. "normal.red").
func (p *Palette) Entries() map[string]string {
	out := make(map[string]string, 19)
	for i, name := range ColorNames {
		out["normal."+name] = p.Normal.Slice()[i]
		out["bright."+name] = p.Bright.Slice()[i]
	}
	out["special.background"] = p.Special.Background
	out["special.foreground"] = p.Special.Foreground
	out["special.cursor"] = p.Special.Cursor
	return out
}

// InvalidColorError reports a palette value that is not #RRGGBB.
type InvalidColorError struct {
	Key   string
	Value string
}

func (e *InvalidColorError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("color %s is missing", e.Key)
	}
	return fmt.Sprintf("color %s has invalid value %q (want #RRGGBB)", e.Key, e.Value)
}

// Validate checks every palette value is a #RRGGBB string.
// Keys are checked in a fixed order so the first error is stable.
func (p *Palette) Validate() error {
	entries := p.Entries()
	for _, group := range []string{"normal", "bright"} {
		for _, name := range ColorNames {
			key := group + "." + name
			if !IsHexColor(entries[key]) {
				return &InvalidColorError{Key: key, Value: entries[key]}
			}
		}
	}
	for _, name := range SpecialNames {
		key := "special." + name
		if !IsHexColor(entries[key]) {
			return &InvalidColorError{Key: key, Value: entries[key]}
		}
	}
	return nil
}

// IsHexColor reports whether s is a #RRGGBB color (case-insensitive).
func IsHexColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

// HexToRGB converts a #RRGGBB string to its channels.
// A channel whose digits are not valid hex (or are missing) is 0; this is
// intentional leniency for preview swatches and never returns an error.
func HexToRGB(hex string) (r, g, b uint8) {
	hex = strings.TrimPrefix(hex, "#")
	return hexChannel(hex, 0), hexChannel(hex, 2), hexChannel(hex, 4)
}

func hexChannel(hex string, offset int) uint8 {
	if len(hex) < offset+2 {
		return 0
	}
	v, err := strconv.ParseUint(hex[offset:offset+2], 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

// Bare returns the color without its leading '#', lowercased.
func Bare(hex string) string {
	return strings.ToLower(strings.TrimPrefix(hex, "#"))
}

// DefaultPalette returns the palette used to seed new theme packages.
func DefaultPalette() Palette {
	return Palette{
		Normal: ColorSet{
			Black:   "#000000",
			Red:     "#ff0000",
			Green:   "#00ff00",
			Yellow:  "#ffff00",
			Blue:    "#0000ff",
			Magenta: "#ff00ff",
			Cyan:    "#00ffff",
			White:   "#ffffff",
		},
		Bright: ColorSet{
			Black:   "#808080",
			Red:     "#ff8080",
			Green:   "#80ff80",
			Yellow:  "#ffff80",
			Blue:    "#8080ff",
			Magenta: "#ff80ff",
			Cyan:    "#80ffff",
			White:   "#ffffff",
		},
		Special: SpecialColors{
			Background: "#000000",
			Foreground: "#ffffff",
			Cursor:     "#ffffff",
		},
	}
}
