package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/themey/internal/model"
)

// JSONFormatter formats output as indented JSON arrays.
type JSONFormatter struct{}

// FormatThemes implements Formatter.
func (f *JSONFormatter) FormatThemes(w io.Writer, themes []ThemeEntry) error {
	return encodeJSON(w, nonNil(themes))
}

// FormatHistory implements Formatter.
func (f *JSONFormatter) FormatHistory(w io.Writer, records []model.AppliedRecord) error {
	return encodeJSON(w, nonNil(records))
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// YAMLFormatter formats output as YAML sequences.
type YAMLFormatter struct{}

// FormatThemes implements Formatter.
func (f *YAMLFormatter) FormatThemes(w io.Writer, themes []ThemeEntry) error {
	return encodeYAML(w, nonNil(themes))
}

// FormatHistory implements Formatter.
func (f *YAMLFormatter) FormatHistory(w io.Writer, records []model.AppliedRecord) error {
	return encodeYAML(w, nonNil(records))
}

func encodeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// NamesFormatter outputs bare theme names, one per line.
// Useful for piping into dmenu-style pickers.
type NamesFormatter struct{}

// FormatThemes implements Formatter.
func (f *NamesFormatter) FormatThemes(w io.Writer, themes []ThemeEntry) error {
	for _, t := range themes {
		if _, err := fmt.Fprintln(w, t.Theme); err != nil {
			return err
		}
	}
	return nil
}

// FormatHistory implements Formatter.
func (f *NamesFormatter) FormatHistory(w io.Writer, records []model.AppliedRecord) error {
	for _, r := range records {
		if _, err := fmt.Fprintln(w, r.Theme); err != nil {
			return err
		}
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
