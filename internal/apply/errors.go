package apply

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a fatal ApplyError.
type ErrorKind int

const (
	// MetadataUnreadable means metadata.toml is missing or malformed.
	MetadataUnreadable ErrorKind = iota
	// PaletteUnreadable means the active variant file is missing, malformed
	// or holds a value that is not #RRGGBB.
	PaletteUnreadable
)

func (k ErrorKind) String() string {
	switch k {
	case MetadataUnreadable:
		return "metadata unreadable"
	case PaletteUnreadable:
		return "palette unreadable"
	default:
		return "unknown"
	}
}

// ApplyError is a fatal error: nothing was written.
type ApplyError struct {
	Kind  ErrorKind
	Theme string
	Path  string
	Err   error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("theme %q: %s (%s): %v", e.Theme, e.Kind, e.Path, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *ApplyError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ae *ApplyError
	return errors.As(err, &ae) && ae.Kind == kind
}

// ErrInvalidThemeName is returned for names that would escape the themes directory.
var ErrInvalidThemeName = errors.New("invalid theme name")

// WarningKind classifies a non-fatal, per-target problem.
type WarningKind int

const (
	// UnsupportedTarget means the renderer does not know the target id.
	UnsupportedTarget WarningKind = iota
	// WriteFailed means the destination could not be created or written.
	WriteFailed
	// ReloadFailed means the reload action could not run or exited non-zero.
	ReloadFailed
)

func (k WarningKind) String() string {
	switch k {
	case UnsupportedTarget:
		return "unsupported target"
	case WriteFailed:
		return "write failed"
	case ReloadFailed:
		return "reload failed"
	default:
		return "unknown"
	}
}

// Warning records a per-target problem that did not abort the apply.
type Warning struct {
	Target string
	Kind   WarningKind
	Err    error
}

func (w Warning) String() string {
	switch w.Kind {
	case UnsupportedTarget:
		return fmt.Sprintf("unknown target: %s", w.Target)
	case ReloadFailed:
		return fmt.Sprintf("could not reload %s (application may not be running): %v", w.Target, w.Err)
	default:
		return fmt.Sprintf("%s: %s: %v", w.Target, w.Kind, w.Err)
	}
}
