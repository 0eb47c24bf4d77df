// Package output provides output formatters for installed themes and apply history.
package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/themey/internal/model"
)

// ThemeEntry describes one installed theme package.
type ThemeEntry struct {
	Theme     string   `json:"theme" yaml:"theme"` // Directory name
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	Author    string   `json:"author,omitempty" yaml:"author,omitempty"`
	Variant   string   `json:"variant,omitempty" yaml:"variant,omitempty"`
	Targets   []string `json:"targets,omitempty" yaml:"targets,omitempty"`
	Current   bool     `json:"current" yaml:"current"`
	AppliedAt int64    `json:"applied_at,omitempty" yaml:"applied_at,omitempty"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"` // Manifest could not be read
}

// Formatter formats themes and history records for output.
type Formatter interface {
	FormatThemes(w io.Writer, themes []ThemeEntry) error
	FormatHistory(w io.Writer, records []model.AppliedRecord) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
	FormatNames FormatType = "names"
)

// FormatTypes lists the accepted --format values.
var FormatTypes = []FormatType{FormatPlain, FormatJSON, FormatYAML, FormatNames}

// ParseFormat validates a --format value.
func ParseFormat(s string) (FormatType, error) {
	for _, f := range FormatTypes {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (valid: plain, json, yaml, names)", s)
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template string // Custom text/template for plain theme lines
	Color    bool   // Style plain output with lipgloss
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatNames:
		return &NamesFormatter{}
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}
