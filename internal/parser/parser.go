// Package parser reads and writes theme manifests and palette files.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/themey/internal/model"
)

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	// NotFound means the file does not exist.
	NotFound ErrorKind = iota
	// MalformedSchema means the file exists but is not valid TOML, or a
	// required key is missing or has the wrong type.
	MalformedSchema
	// Unreadable means the file exists but could not be read.
	Unreadable
)

func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case MalformedSchema:
		return "malformed"
	case Unreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// ParseError is returned by ParseMetadata and ParsePalette.
type ParseError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a ParseError of kind NotFound.
func IsNotFound(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == NotFound
}

// IsMalformed reports whether err is a ParseError of kind MalformedSchema.
func IsMalformed(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == MalformedSchema
}

// rawManifest mirrors model.Manifest with pointer fields so that missing
// keys can be told apart from empty values.
type rawManifest struct {
	Theme *struct {
		Name        *string   `toml:"name"`
		Author      *string   `toml:"author"`
		Files       *[]string `toml:"files"`
		Targets     *[]string `toml:"targets"`
		Version     string    `toml:"version"`
		Description string    `toml:"description"`
		Homepage    string    `toml:"homepage"`
		Variants    []string  `toml:"variants"`
	} `toml:"theme"`
}

type rawColorSet struct {
	Black   *string `toml:"black"`
	Red     *string `toml:"red"`
	Green   *string `toml:"green"`
	Yellow  *string `toml:"yellow"`
	Blue    *string `toml:"blue"`
	Magenta *string `toml:"magenta"`
	Cyan    *string `toml:"cyan"`
	White   *string `toml:"white"`
}

type rawPalette struct {
	Colors *struct {
		Normal  *rawColorSet `toml:"normal"`
		Bright  *rawColorSet `toml:"bright"`
		Special *struct {
			Background *string `toml:"background"`
			Foreground *string `toml:"foreground"`
			Cursor     *string `toml:"cursor"`
		} `toml:"special"`
	} `toml:"colors"`
}

// ParseMetadata reads the manifest at path.
// No field is defaulted; an empty targets list is valid.
func ParseMetadata(path string) (*model.ThemeMetadata, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var raw rawManifest
	if err := decode(data, &raw); err != nil {
		return nil, malformed(path, err)
	}

	if raw.Theme == nil {
		return nil, malformed(path, errors.New("missing [theme] table"))
	}
	t := raw.Theme
	switch {
	case t.Name == nil:
		return nil, malformed(path, missingKey("theme.name"))
	case t.Author == nil:
		return nil, malformed(path, missingKey("theme.author"))
	case t.Files == nil:
		return nil, malformed(path, missingKey("theme.files"))
	case t.Targets == nil:
		return nil, malformed(path, missingKey("theme.targets"))
	}

	meta := &model.ThemeMetadata{
		Name:        *t.Name,
		Author:      *t.Author,
		Files:       *t.Files,
		Targets:     *t.Targets,
		Version:     t.Version,
		Description: t.Description,
		Homepage:    t.Homepage,
		Variants:    t.Variants,
	}
	if meta.Targets == nil {
		meta.Targets = []string{}
	}

	if err := meta.Validate(); err != nil {
		return nil, malformed(path, err)
	}

	return meta, nil
}

// ParsePalette reads the palette file at path.
// All 19 color keys are required. Values are not checked for #RRGGBB form
// here; renderers validate before substituting.
func ParsePalette(path string) (*model.Palette, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var raw rawPalette
	if err := decode(data, &raw); err != nil {
		return nil, malformed(path, err)
	}

	if raw.Colors == nil {
		return nil, malformed(path, errors.New("missing [colors] table"))
	}

	var p model.Palette
	var missing []string

	normal, miss := resolveColorSet("colors.normal", raw.Colors.Normal)
	p.Normal = normal
	missing = append(missing, miss...)

	bright, miss := resolveColorSet("colors.bright", raw.Colors.Bright)
	p.Bright = bright
	missing = append(missing, miss...)

	if s := raw.Colors.Special; s == nil {
		missing = append(missing, "colors.special")
	} else {
		p.Special.Background = deref(s.Background, "colors.special.background", &missing)
		p.Special.Foreground = deref(s.Foreground, "colors.special.foreground", &missing)
		p.Special.Cursor = deref(s.Cursor, "colors.special.cursor", &missing)
	}

	if len(missing) > 0 {
		return nil, malformed(path, fmt.Errorf("missing required keys: %v", missing))
	}

	return &p, nil
}

func resolveColorSet(prefix string, raw *rawColorSet) (model.ColorSet, []string) {
	var missing []string
	if raw == nil {
		return model.ColorSet{}, []string{prefix}
	}
	c := model.ColorSet{
		Black:   deref(raw.Black, prefix+".black", &missing),
		Red:     deref(raw.Red, prefix+".red", &missing),
		Green:   deref(raw.Green, prefix+".green", &missing),
		Yellow:  deref(raw.Yellow, prefix+".yellow", &missing),
		Blue:    deref(raw.Blue, prefix+".blue", &missing),
		Magenta: deref(raw.Magenta, prefix+".magenta", &missing),
		Cyan:    deref(raw.Cyan, prefix+".cyan", &missing),
		White:   deref(raw.White, prefix+".white", &missing),
	}
	return c, missing
}

func deref(v *string, key string, missing *[]string) string {
	if v == nil {
		*missing = append(*missing, key)
		return ""
	}
	return *v
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ParseError{Kind: NotFound, Path: path, Err: err}
		}
		return nil, &ParseError{Kind: Unreadable, Path: path, Err: err}
	}
	return data, nil
}

func decode(data []byte, v any) error {
	err := toml.NewDecoder(bytes.NewReader(data)).Decode(v)
	if err == nil {
		return nil
	}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		row, col := derr.Position()
		return fmt.Errorf("line %d, column %d: %w", row, col, err)
	}
	return err
}

func malformed(path string, err error) *ParseError {
	return &ParseError{Kind: MalformedSchema, Path: path, Err: err}
}

func missingKey(key string) error {
	return fmt.Errorf("missing required key %q", key)
}

// WriteMetadata writes meta to path as a manifest.
// Creates parent directories if needed.
func WriteMetadata(path string, meta *model.ThemeMetadata) error {
	return writeTOML(path, model.Manifest{Theme: *meta})
}

// WritePalette writes p to path in the palette file format.
// Creates parent directories if needed.
func WritePalette(path string, p *model.Palette) error {
	return writeTOML(path, model.PaletteFile{Colors: *p})
}

func writeTOML(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}
