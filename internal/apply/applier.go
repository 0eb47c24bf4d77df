// Package apply orchestrates applying a theme: parse the manifest, parse the
// active palette, render every declared target, write the results and ask
// running applications to reload.
//
// Without Atomic, targets are written one at a time and a failure part way
// through leaves the earlier files in place. With Atomic, every artifact is
// rendered first and the write set is rolled back if any write fails.
package apply

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/themey/internal/config"
	"github.com/jmylchreest/themey/internal/model"
	"github.com/jmylchreest/themey/internal/parser"
	"github.com/jmylchreest/themey/internal/render"
)

// Recorder persists a record of each successful apply.
type Recorder interface {
	Record(r model.AppliedRecord) error
}

// Options configures an Applier.
type Options struct {
	Logger   *slog.Logger
	Reloader Reloader // nil disables reloading
	Recorder Recorder // nil disables history
	Atomic   bool
}

// Applier applies and previews themes.
type Applier struct {
	logger   *slog.Logger
	reloader Reloader
	recorder Recorder
	atomic   bool
}

// New creates an Applier.
func New(opts Options) *Applier {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reloader := opts.Reloader
	if reloader == nil {
		reloader = NopReloader{}
	}
	return &Applier{
		logger:   logger,
		reloader: reloader,
		recorder: opts.Recorder,
		atomic:   opts.Atomic,
	}
}

// Theme is a loaded theme package.
type Theme struct {
	Dir         string
	Metadata    *model.ThemeMetadata
	Palette     *model.Palette
	PalettePath string
}

// Summary describes the outcome of an Apply.
type Summary struct {
	Theme    string
	Name     string
	Author   string
	Variant  string
	Written  []string // Target ids written
	Paths    []string // Destination paths written, parallel to Written
	Reloaded []string // Reload labels that succeeded
	Warnings []Warning
}

// WrittenCount returns the number of targets written.
func (s *Summary) WrittenCount() int {
	return len(s.Written)
}

// SkippedCount returns the number of unsupported targets.
func (s *Summary) SkippedCount() int {
	return len(s.warningsOf(UnsupportedTarget))
}

// FailedCount returns the number of targets that could not be written.
func (s *Summary) FailedCount() int {
	return len(s.warningsOf(WriteFailed))
}

func (s *Summary) warningsOf(kind WarningKind) []string {
	var out []string
	for _, w := range s.Warnings {
		if w.Kind == kind {
			out = append(out, w.Target)
		}
	}
	return out
}

func (s *Summary) warn(logger *slog.Logger, w Warning) {
	s.Warnings = append(s.Warnings, w)
	logger.Debug(w.String(), "theme", s.Theme, "target", w.Target, "kind", w.Kind.String())
}

// ValidateThemeName rejects names that are empty or would leave the themes directory.
func ValidateThemeName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidThemeName, name)
	}
	return nil
}

// Load parses the manifest and active palette of a theme.
func (a *Applier) Load(themeName, homeDir string) (*Theme, error) {
	root := config.ThemeDir(homeDir, themeName)
	metaPath := filepath.Join(root, model.ManifestFile)

	if err := ValidateThemeName(themeName); err != nil {
		return nil, &ApplyError{Kind: MetadataUnreadable, Theme: themeName, Path: metaPath, Err: err}
	}

	meta, err := parser.ParseMetadata(metaPath)
	if err != nil {
		return nil, &ApplyError{Kind: MetadataUnreadable, Theme: themeName, Path: metaPath, Err: err}
	}

	palettePath := filepath.Join(root, meta.ActiveFile())
	palette, err := parser.ParsePalette(palettePath)
	if err != nil {
		return nil, &ApplyError{Kind: PaletteUnreadable, Theme: themeName, Path: palettePath, Err: err}
	}

	a.logger.Debug("loaded theme", "theme", themeName, "name", meta.Name, "variant", meta.ActiveFile())

	return &Theme{
		Dir:         root,
		Metadata:    meta,
		Palette:     palette,
		PalettePath: palettePath,
	}, nil
}

// Apply renders and writes every target declared by the theme.
// Only manifest and palette errors are returned; per-target problems are
// reported in Summary.Warnings.
func (a *Applier) Apply(ctx context.Context, themeName, homeDir string) (*Summary, error) {
	theme, err := a.Load(themeName, homeDir)
	if err != nil {
		return nil, err
	}

	// Palette values are checked before anything is written so a bad value
	// never produces a partial write set.
	if err := theme.Palette.Validate(); err != nil {
		return nil, &ApplyError{
			Kind:  PaletteUnreadable,
			Theme: themeName,
			Path:  theme.PalettePath,
			Err:   &parser.ParseError{Kind: parser.MalformedSchema, Path: theme.PalettePath, Err: err},
		}
	}

	summary := &Summary{
		Theme:   themeName,
		Name:    theme.Metadata.Name,
		Author:  theme.Metadata.Author,
		Variant: theme.Metadata.ActiveFile(),
	}

	targets := theme.Metadata.UniqueTargets()
	if a.atomic {
		err = a.applyAtomic(ctx, summary, targets, theme.Palette, homeDir)
	} else {
		err = a.applyEach(ctx, summary, targets, theme.Palette, homeDir)
	}
	if err != nil {
		return summary, err
	}

	a.record(summary)

	a.logger.Info("applied theme", "theme", themeName, "name", summary.Name,
		"written", summary.WrittenCount(), "skipped", summary.SkippedCount())

	return summary, nil
}

func (a *Applier) applyEach(ctx context.Context, s *Summary, targets []string, p *model.Palette, homeDir string) error {
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		artifact, ok := a.render(s, target, p, homeDir)
		if !ok {
			continue
		}

		if err := writeArtifact(artifact); err != nil {
			s.warn(a.logger, Warning{Target: target, Kind: WriteFailed, Err: err})
			continue
		}
		s.Written = append(s.Written, target)
		s.Paths = append(s.Paths, artifact.Path)
		a.logger.Debug("wrote target", "target", target, "path", artifact.Path)

		a.reload(ctx, s, artifact)
	}
	return nil
}

func (a *Applier) applyAtomic(ctx context.Context, s *Summary, targets []string, p *model.Palette, homeDir string) error {
	var staged []*render.Artifact
	for _, target := range targets {
		if artifact, ok := a.render(s, target, p, homeDir); ok {
			staged = append(staged, artifact)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	var backups []backup
	for _, artifact := range staged {
		if err := writeWithBackup(artifact, &backups); err != nil {
			s.warn(a.logger, Warning{Target: artifact.Target, Kind: WriteFailed, Err: err})
			a.rollback(backups)
			s.Written, s.Paths = nil, nil
			return fmt.Errorf("atomic apply of %q rolled back: %w", s.Theme, err)
		}
		s.Written = append(s.Written, artifact.Target)
		s.Paths = append(s.Paths, artifact.Path)
	}

	for _, artifact := range staged {
		a.reload(ctx, s, artifact)
	}
	return nil
}

// render returns false if the target was skipped; the warning is recorded.
func (a *Applier) render(s *Summary, target string, p *model.Palette, homeDir string) (*render.Artifact, bool) {
	artifact, err := render.Render(target, p, homeDir)
	if err == nil {
		return artifact, true
	}
	if errors.Is(err, render.ErrUnsupportedTarget) {
		s.warn(a.logger, Warning{Target: target, Kind: UnsupportedTarget, Err: err})
	} else {
		s.warn(a.logger, Warning{Target: target, Kind: WriteFailed, Err: err})
	}
	return nil, false
}

func (a *Applier) reload(ctx context.Context, s *Summary, artifact *render.Artifact) {
	if artifact.Reload == nil {
		return
	}
	if err := a.reloader.Reload(ctx, artifact.Reload); err != nil {
		s.warn(a.logger, Warning{Target: artifact.Target, Kind: ReloadFailed, Err: err})
		return
	}
	s.Reloaded = append(s.Reloaded, artifact.Reload.Label)
	a.logger.Debug("reloaded", "target", artifact.Target, "label", artifact.Reload.Label)
}

func (a *Applier) record(s *Summary) {
	if a.recorder == nil {
		return
	}
	rec, err := model.NewAppliedRecord(s.Theme)
	if err != nil {
		a.logger.Warn("failed to create history record", "error", err)
		return
	}
	rec.Name = s.Name
	rec.Author = s.Author
	rec.Variant = s.Variant
	rec.Written = s.Written
	rec.Skipped = s.warningsOf(UnsupportedTarget)
	rec.Failed = s.warningsOf(WriteFailed)
	if err := a.recorder.Record(*rec); err != nil {
		a.logger.Warn("failed to record apply in history", "error", err)
	}
}

func writeArtifact(artifact *render.Artifact) error {
	for _, f := range artifact.Files() {
		if err := writeFile(f); err != nil {
			return err
		}
	}
	return nil
}

// writeWithBackup snapshots each file of artifact before writing it.
// Snapshots of files already written are appended to backups.
func writeWithBackup(artifact *render.Artifact, backups *[]backup) error {
	for _, f := range artifact.Files() {
		b, err := snapshot(f.Path)
		if err != nil {
			return err
		}
		if err := writeFile(f); err != nil {
			return err
		}
		*backups = append(*backups, b)
	}
	return nil
}

func writeFile(f render.File) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(f.Path, f.Content, 0644); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	return nil
}

// backup is the pre-apply state of one destination.
type backup struct {
	path    string
	content []byte
	existed bool
}

func snapshot(path string) (backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return backup{path: path}, nil
		}
		return backup{}, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return backup{path: path, content: data, existed: true}, nil
}

func (a *Applier) rollback(backups []backup) {
	for i := len(backups) - 1; i >= 0; i-- {
		b := backups[i]
		var err error
		if b.existed {
			err = os.WriteFile(b.path, b.content, 0644)
		} else {
			err = os.Remove(b.path)
		}
		if err != nil {
			a.logger.Error("rollback failed", "path", b.path, "error", err)
		}
	}
}
