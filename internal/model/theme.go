// Package model defines the core data structures for themey.
package model

import (
	"errors"
	"fmt"
)

// ManifestFile is the name of the manifest at the root of every theme package.
const ManifestFile = "metadata.toml"

// ThemeMetadata is the manifest of a theme package.
// It lives in the [theme] table of metadata.toml.
type ThemeMetadata struct {
	Name    string   `toml:"name" json:"name" yaml:"name"`
	Author  string   `toml:"author" json:"author" yaml:"author"`
	Files   []string `toml:"files" json:"files" yaml:"files"`     // Variant files, relative to the theme root
	Targets []string `toml:"targets" json:"targets" yaml:"targets"` // Target application ids

	// Optional fields written by `themey new`
	Version     string   `toml:"version,omitempty" json:"version,omitempty" yaml:"version,omitempty"`
	Description string   `toml:"description,omitempty" json:"description,omitempty" yaml:"description,omitempty"`
	Homepage    string   `toml:"homepage,omitempty" json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Variants    []string `toml:"variants,omitempty" json:"variants,omitempty" yaml:"variants,omitempty"`
}

// Manifest is the on-disk shape of metadata.toml.
type Manifest struct {
	Theme ThemeMetadata `toml:"theme"`
}

// Validation errors.
var (
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrEmptyAuthor  = errors.New("author cannot be empty")
	ErrNoFiles      = errors.New("files must list at least one variant file")
	ErrVariantCount = errors.New("number of variants must match number of files")
)

// Validate checks that the manifest is usable for apply/preview.
func (m *ThemeMetadata) Validate() error {
	if m.Name == "" {
		return ErrEmptyName
	}
	if m.Author == "" {
		return ErrEmptyAuthor
	}
	if len(m.Files) == 0 {
		return ErrNoFiles
	}
	for i, f := range m.Files {
		if f == "" {
			return fmt.Errorf("files[%d] is empty", i)
		}
	}
	if len(m.Variants) > 0 && len(m.Variants) != len(m.Files) {
		return ErrVariantCount
	}
	return nil
}

// ActiveFile returns the variant file used by apply and preview.
func (m *ThemeMetadata) ActiveFile() string {
	if len(m.Files) == 0 {
		return ""
	}
	return m.Files[0]
}

// UniqueTargets returns targets in declaration order with duplicates removed.
func (m *ThemeMetadata) UniqueTargets() []string {
	seen := make(map[string]bool, len(m.Targets))
	out := make([]string, 0, len(m.Targets))
	for _, t := range m.Targets {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
