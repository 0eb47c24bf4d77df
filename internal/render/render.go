package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/jmylchreest/themey/internal/model"
)

// Kind describes what sort of application a target is.
type Kind string

const (
	KindTerminal     Kind = "terminal"
	KindStatusBar    Kind = "status-bar"
	KindCompositor   Kind = "compositor"
	KindLauncher     Kind = "launcher"
	KindNotification Kind = "notification-daemon"
	KindToolkit      Kind = "toolkit"
	KindEditor       Kind = "editor"
	KindTool         Kind = "tool"
)

// ReloadAction describes how to ask a running application to re-read its config.
type ReloadAction struct {
	// Label is a human-readable name used in logs.
	Label string
	// DBus, if set, is tried before Command.
	DBus *DBusCall
	// Command is the argv of the reload command.
	Command []string
}

// DBusCall is a session-bus method call used as a reload action.
type DBusCall struct {
	Dest   string
	Path   string
	Method string // Fully qualified: interface.Member
	Args   []any
}

// File is one rendered output file.
type File struct {
	Path    string
	Content []byte
}

// Artifact is the rendered output for one target.
type Artifact struct {
	Target  string
	Path    string
	Content []byte
	// Extra holds files the application needs next to Path, such as a manifest.
	Extra  []File
	Reload *ReloadAction
}

// Files returns the primary file followed by any extra files.
func (a *Artifact) Files() []File {
	return append([]File{{Path: a.Path, Content: a.Content}}, a.Extra...)
}

// Target is a supported application.
type Target struct {
	ID          string
	Kind        Kind
	Description string
	// RelPath is the destination relative to the home directory.
	RelPath []string
	Reload  *ReloadAction
	render  func(*model.Palette) ([]byte, error)
	extras  []companion
}

// companion is an additional file written with a target's primary file.
type companion struct {
	RelPath []string
	render  func(*model.Palette) ([]byte, error)
}

// Path returns the destination of this target's config under homeDir.
func (t *Target) Path(homeDir string) string {
	return filepath.Join(append([]string{homeDir}, t.RelPath...)...)
}

// ErrUnsupportedTarget is matched by UnsupportedTargetError.
var ErrUnsupportedTarget = errors.New("unsupported target")

// UnsupportedTargetError is returned for unknown target ids.
type UnsupportedTargetError struct {
	Target string
}

func (e *UnsupportedTargetError) Error() string {
	return fmt.Sprintf("unsupported target %q", e.Target)
}

func (e *UnsupportedTargetError) Is(target error) bool {
	return target == ErrUnsupportedTarget
}

// ErrInvalidPalette is matched when a palette fails validation during rendering.
var ErrInvalidPalette = errors.New("invalid palette")

// DataError wraps a palette validation failure for a target.
type DataError struct {
	Target string
	Err    error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("%s: %v", e.Target, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

func (e *DataError) Is(target error) bool {
	return target == ErrInvalidPalette
}

var registry = map[string]*Target{}

func register(t *Target) {
	if _, exists := registry[t.ID]; exists {
		panic("render: duplicate target " + t.ID)
	}
	registry[t.ID] = t
}

// Lookup returns the target with the given id.
func Lookup(id string) (*Target, bool) {
	t, ok := registry[id]
	return t, ok
}

// IsSupported reports whether id names a known target.
func IsSupported(id string) bool {
	_, ok := registry[id]
	return ok
}

// Targets returns all supported targets sorted by id.
func Targets() []*Target {
	out := make([]*Target, 0, len(registry))
	for _, t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TargetIDs returns the ids of all supported targets, sorted.
func TargetIDs() []string {
	targets := Targets()
	ids := make([]string, len(targets))
	for i, t := range targets {
		ids[i] = t.ID
	}
	return ids
}

// Render produces the config artifact for target from p.
// It returns an *UnsupportedTargetError for unknown targets and a *DataError
// if any palette value is not #RRGGBB.
func Render(target string, p *model.Palette, homeDir string) (*Artifact, error) {
	t, ok := registry[target]
	if !ok {
		return nil, &UnsupportedTargetError{Target: target}
	}

	if err := p.Validate(); err != nil {
		return nil, &DataError{Target: target, Err: err}
	}

	content, err := t.render(p)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", target, err)
	}

	artifact := &Artifact{
		Target:  t.ID,
		Path:    t.Path(homeDir),
		Content: content,
		Reload:  t.Reload,
	}
	for _, c := range t.extras {
		data, err := c.render(p)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", target, err)
		}
		artifact.Extra = append(artifact.Extra, File{
			Path:    filepath.Join(append([]string{homeDir}, c.RelPath...)...),
			Content: data,
		})
	}
	return artifact, nil
}
