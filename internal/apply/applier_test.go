package apply

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/themey/internal/config"
	"github.com/jmylchreest/themey/internal/model"
	"github.com/jmylchreest/themey/internal/parser"
	"github.com/jmylchreest/themey/internal/render"
)

type fakeReloader struct {
	calls []string
	err   error
}

func (f *fakeReloader) Reload(_ context.Context, action *render.ReloadAction) error {
	f.calls = append(f.calls, action.Label)
	return f.err
}

type fakeRecorder struct {
	records []model.AppliedRecord
}

func (f *fakeRecorder) Record(r model.AppliedRecord) error {
	f.records = append(f.records, r)
	return nil
}

func nordPalette() *model.Palette {
	return &model.Palette{
		Normal: model.ColorSet{
			Black: "#3b4252", Red: "#bf616a", Green: "#a3be8c", Yellow: "#ebcb8b",
			Blue: "#81a1c1", Magenta: "#b48ead", Cyan: "#88c0d0", White: "#e5e9f0",
		},
		Bright: model.ColorSet{
			Black: "#4c566a", Red: "#bf616a", Green: "#a3be8c", Yellow: "#ebcb8b",
			Blue: "#81a1c1", Magenta: "#b48ead", Cyan: "#8fbcbb", White: "#eceff4",
		},
		Special: model.SpecialColors{
			Background: "#2e3440",
			Foreground: "#d8dee9",
			Cursor:     "#d8dee9",
		},
	}
}

// installTheme writes a theme package under home and returns its root.
func installTheme(t *testing.T, home, name string, targets []string, palette *model.Palette) string {
	t.Helper()
	root := config.ThemeDir(home, name)
	meta := &model.ThemeMetadata{
		Name:    "Nord",
		Author:  "arctic",
		Files:   []string{"dark.toml"},
		Targets: targets,
	}
	require.NoError(t, parser.WriteMetadata(filepath.Join(root, model.ManifestFile), meta))
	if palette != nil {
		require.NoError(t, parser.WritePalette(filepath.Join(root, "dark.toml"), palette))
	}
	return root
}

func newTestApplier(reloader Reloader) *Applier {
	return New(Options{Reloader: reloader})
}

func TestApply_EndToEnd(t *testing.T) {
	home := t.TempDir()
	installTheme(t, home, "nord", []string{"kitty", "rofi", "unknownapp"}, nordPalette())

	reloader := &fakeReloader{}
	summary, err := newTestApplier(reloader).Apply(context.Background(), "nord", home)
	require.NoError(t, err)

	assert.Equal(t, "Nord", summary.Name)
	assert.Equal(t, "arctic", summary.Author)
	assert.Equal(t, 2, summary.WrittenCount())
	assert.Equal(t, 1, summary.SkippedCount())
	assert.Equal(t, []string{"kitty", "rofi"}, summary.Written)

	require.Len(t, summary.Warnings, 1)
	assert.Equal(t, UnsupportedTarget, summary.Warnings[0].Kind)
	assert.Equal(t, "unknownapp", summary.Warnings[0].Target)

	kitty, err := os.ReadFile(filepath.Join(home, ".config", "kitty", "themey.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(kitty), "background #2e3440")

	rofi, err := os.ReadFile(filepath.Join(home, ".config", "rofi", "themey.rasi"))
	require.NoError(t, err)
	assert.Contains(t, string(rofi), "#81a1c1")

	assert.Equal(t, []string{"kitty"}, reloader.calls)
	assert.Equal(t, []string{"kitty"}, summary.Reloaded)
}

func TestApply_EmptyTargets(t *testing.T) {
	home := t.TempDir()
	installTheme(t, home, "nord", []string{}, nordPalette())

	summary, err := newTestApplier(nil).Apply(context.Background(), "nord", home)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.WrittenCount())
	assert.Empty(t, summary.Warnings)

	_, err = os.Stat(filepath.Join(home, ".config", "kitty"))
	assert.True(t, os.IsNotExist(err))
}

func TestApply_MissingPaletteWritesNothing(t *testing.T) {
	home := t.TempDir()
	installTheme(t, home, "nord", []string{"kitty", "rofi"}, nil)

	summary, err := newTestApplier(nil).Apply(context.Background(), "nord", home)
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.True(t, IsKind(err, PaletteUnreadable))
	assert.True(t, parser.IsNotFound(err))

	for _, dir := range []string{"kitty", "rofi"} {
		_, statErr := os.Stat(filepath.Join(home, ".config", dir))
		assert.True(t, os.IsNotExist(statErr), dir)
	}
}

func TestApply_MissingMetadata(t *testing.T) {
	_, err := newTestApplier(nil).Apply(context.Background(), "nope", t.TempDir())
	require.Error(t, err)
	assert.True(t, IsKind(err, MetadataUnreadable))
	assert.True(t, parser.IsNotFound(err))
	assert.Contains(t, err.Error(), `theme "nope"`)
	assert.Contains(t, err.Error(), "metadata.toml")
}

func TestApply_InvalidColorWritesNothing(t *testing.T) {
	home := t.TempDir()
	p := nordPalette()
	p.Normal.Red = "#zz0000"
	installTheme(t, home, "nord", []string{"kitty"}, p)

	_, err := newTestApplier(nil).Apply(context.Background(), "nord", home)
	require.Error(t, err)
	assert.True(t, IsKind(err, PaletteUnreadable))
	assert.True(t, parser.IsMalformed(err))

	_, statErr := os.Stat(filepath.Join(home, ".config", "kitty"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestApply_InvalidThemeName(t *testing.T) {
	for _, name := range []string{"", "..", "../etc", "a/b"} {
		_, err := newTestApplier(nil).Apply(context.Background(), name, t.TempDir())
		assert.ErrorIs(t, err, ErrInvalidThemeName, name)
		assert.True(t, IsKind(err, MetadataUnreadable))
	}
}

func TestApply_ReloadFailureIsWarning(t *testing.T) {
	home := t.TempDir()
	installTheme(t, home, "nord", []string{"kitty", "waybar"}, nordPalette())

	reloader := &fakeReloader{err: errors.New("pkill exited with status 1")}
	summary, err := newTestApplier(reloader).Apply(context.Background(), "nord", home)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.WrittenCount())
	assert.Equal(t, 0, summary.SkippedCount())
	require.Len(t, summary.Warnings, 2)
	for _, w := range summary.Warnings {
		assert.Equal(t, ReloadFailed, w.Kind)
		assert.Contains(t, w.String(), "could not reload")
	}
	assert.Empty(t, summary.Reloaded)
}

func TestApply_WriteFailureIsDistinct(t *testing.T) {
	home := t.TempDir()
	installTheme(t, home, "nord", []string{"kitty", "rofi", "foo"}, nordPalette())

	// A directory where the kitty config should go makes the write fail.
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".config", "kitty", "themey.conf"), 0755))

	summary, err := newTestApplier(nil).Apply(context.Background(), "nord", home)
	require.NoError(t, err)

	assert.Equal(t, []string{"rofi"}, summary.Written)
	assert.Equal(t, 1, summary.SkippedCount())
	assert.Equal(t, 1, summary.FailedCount())

	kinds := map[string]WarningKind{}
	for _, w := range summary.Warnings {
		kinds[w.Target] = w.Kind
	}
	assert.Equal(t, WriteFailed, kinds["kitty"])
	assert.Equal(t, UnsupportedTarget, kinds["foo"])
}

func TestApply_AtomicRollsBack(t *testing.T) {
	home := t.TempDir()
	installTheme(t, home, "nord", []string{"rofi", "waybar", "kitty"}, nordPalette())

	waybarPath := filepath.Join(home, ".config", "waybar", "colors.css")
	require.NoError(t, os.MkdirAll(filepath.Dir(waybarPath), 0755))
	require.NoError(t, os.WriteFile(waybarPath, []byte("original"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".config", "kitty", "themey.conf"), 0755))

	reloader := &fakeReloader{}
	a := New(Options{Reloader: reloader, Atomic: true})
	summary, err := a.Apply(context.Background(), "nord", home)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rolled back")
	assert.Empty(t, summary.Written)

	_, statErr := os.Stat(filepath.Join(home, ".config", "rofi", "themey.rasi"))
	assert.True(t, os.IsNotExist(statErr))

	data, readErr := os.ReadFile(waybarPath)
	require.NoError(t, readErr)
	assert.Equal(t, "original", string(data))
	assert.Empty(t, reloader.calls)
}

func TestApply_AtomicSuccess(t *testing.T) {
	home := t.TempDir()
	installTheme(t, home, "nord", []string{"rofi", "kitty", "nope"}, nordPalette())

	reloader := &fakeReloader{}
	summary, err := New(Options{Reloader: reloader, Atomic: true}).Apply(context.Background(), "nord", home)
	require.NoError(t, err)
	assert.Equal(t, []string{"rofi", "kitty"}, summary.Written)
	assert.Equal(t, 1, summary.SkippedCount())
	assert.Equal(t, []string{"kitty"}, reloader.calls)
}

func TestApply_WritesExtraFiles(t *testing.T) {
	home := t.TempDir()
	installTheme(t, home, "nord", []string{"vscode"}, nordPalette())

	summary, err := newTestApplier(nil).Apply(context.Background(), "nord", home)
	require.NoError(t, err)
	assert.Equal(t, []string{"vscode"}, summary.Written)

	extDir := filepath.Join(home, ".vscode", "extensions", "themey")
	assert.FileExists(t, filepath.Join(extDir, "themes", "themey-color-theme.json"))
	manifest, err := os.ReadFile(filepath.Join(extDir, "package.json"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "./themes/themey-color-theme.json")
}

func TestApply_AtomicRollsBackExtraFiles(t *testing.T) {
	home := t.TempDir()
	installTheme(t, home, "nord", []string{"vscode", "kitty"}, nordPalette())
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".config", "kitty", "themey.conf"), 0755))

	_, err := New(Options{Reloader: &fakeReloader{}, Atomic: true}).Apply(context.Background(), "nord", home)
	require.Error(t, err)

	extDir := filepath.Join(home, ".vscode", "extensions", "themey")
	assert.NoFileExists(t, filepath.Join(extDir, "package.json"))
	assert.NoFileExists(t, filepath.Join(extDir, "themes", "themey-color-theme.json"))
}

func TestApply_DuplicateTargetsWrittenOnce(t *testing.T) {
	home := t.TempDir()
	installTheme(t, home, "nord", []string{"kitty", "kitty"}, nordPalette())

	summary, err := newTestApplier(nil).Apply(context.Background(), "nord", home)
	require.NoError(t, err)
	assert.Equal(t, []string{"kitty"}, summary.Written)
}

func TestApply_RecordsHistory(t *testing.T) {
	home := t.TempDir()
	installTheme(t, home, "nord", []string{"kitty", "foo"}, nordPalette())

	recorder := &fakeRecorder{}
	_, err := New(Options{Recorder: recorder}).Apply(context.Background(), "nord", home)
	require.NoError(t, err)

	require.Len(t, recorder.records, 1)
	rec := recorder.records[0]
	assert.Equal(t, "nord", rec.Theme)
	assert.Equal(t, "Nord", rec.Name)
	assert.Equal(t, "dark.toml", rec.Variant)
	assert.Equal(t, []string{"kitty"}, rec.Written)
	assert.Equal(t, []string{"foo"}, rec.Skipped)
	assert.NotEmpty(t, rec.ID)
}

func TestApply_Deterministic(t *testing.T) {
	home := t.TempDir()
	installTheme(t, home, "nord", []string{"kitty"}, nordPalette())
	path := filepath.Join(home, ".config", "kitty", "themey.conf")

	_, err := newTestApplier(nil).Apply(context.Background(), "nord", home)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = newTestApplier(nil).Apply(context.Background(), "nord", home)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPreview(t *testing.T) {
	home := t.TempDir()
	installTheme(t, home, "nord", []string{"kitty"}, nordPalette())

	var buf bytes.Buffer
	require.NoError(t, newTestApplier(nil).Preview(&buf, "nord", home))

	out := buf.String()
	assert.Contains(t, out, "Nord")
	assert.Contains(t, out, "arctic")
	assert.Contains(t, out, "\x1b[48;2;59;66;82m        ")
	assert.Contains(t, out, "\x1b[48;2;143;188;187m")
	assert.Equal(t, 2*SwatchHeight, strings.Count(out, "\x1b[0m\n"))

	// Preview never writes configs.
	_, err := os.Stat(filepath.Join(home, ".config", "kitty"))
	assert.True(t, os.IsNotExist(err))
}

func TestPreview_LenientHex(t *testing.T) {
	home := t.TempDir()
	p := nordPalette()
	p.Normal.Red = "#zz6a6a"
	installTheme(t, home, "nord", nil, p)

	var buf bytes.Buffer
	require.NoError(t, newTestApplier(nil).Preview(&buf, "nord", home))
	assert.Contains(t, buf.String(), "\x1b[48;2;0;106;106m")
}

func TestPreview_MissingTheme(t *testing.T) {
	var buf bytes.Buffer
	err := newTestApplier(nil).Preview(&buf, "nord", t.TempDir())
	assert.True(t, IsKind(err, MetadataUnreadable))
	assert.Empty(t, buf.String())
}

func TestWriteSwatches(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSwatches(&buf, nordPalette()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2*SwatchHeight)
	for _, line := range lines {
		assert.Equal(t, 8, strings.Count(line, "\x1b[48;2;"))
		assert.True(t, strings.HasSuffix(line, "\x1b[0m"))
	}
	assert.True(t, strings.HasPrefix(lines[0], "\x1b[48;2;59;66;82m"))
	assert.True(t, strings.HasPrefix(lines[SwatchHeight], "\x1b[48;2;76;86;106m"))
}
