package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/themey/internal/apply"
	"github.com/jmylchreest/themey/internal/output"
)

type fakeCatalog struct {
	themes    []output.ThemeEntry
	applied   []string
	applyErr  error
	previewed []string
}

func (f *fakeCatalog) Themes() ([]output.ThemeEntry, error) {
	return f.themes, nil
}

func (f *fakeCatalog) Preview(theme string) (string, error) {
	f.previewed = append(f.previewed, theme)
	return "swatches for " + theme, nil
}

func (f *fakeCatalog) Apply(_ context.Context, theme string) (*apply.Summary, error) {
	f.applied = append(f.applied, theme)
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	return &apply.Summary{Theme: theme, Written: []string{"kitty"}}, nil
}

func newLoadedModel(t *testing.T, catalog *fakeCatalog) Model {
	t.Helper()
	m := New(context.Background(), catalog)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	msg := m.Init()()
	updated, _ = m.Update(msg)
	return updated.(Model)
}

func keyRunes(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{themes: []output.ThemeEntry{
		{Theme: "gruvbox", Name: "Gruvbox", Author: "morhetz", Targets: []string{"kitty"}},
		{Theme: "nord", Name: "Nord", Author: "arctic", Current: true},
	}}
}

func TestModel_LoadsThemes(t *testing.T) {
	m := newLoadedModel(t, testCatalog())

	items := m.list.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "gruvbox", items[0].(themeItem).Title())
	assert.Equal(t, "nord *", items[1].(themeItem).Title())
	assert.Equal(t, "Gruvbox by morhetz - 1 targets", items[0].(themeItem).Description())
}

func TestModel_EnterApplies(t *testing.T) {
	catalog := testCatalog()
	m := newLoadedModel(t, catalog)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, appliedMsg{}, msg)
	assert.Equal(t, []string{"gruvbox"}, catalog.applied)

	updated, _ = m.Update(msg)
	m = updated.(Model)
	assert.Equal(t, "gruvbox", m.Applied)
}

func TestModel_ApplyFailureSetsStatus(t *testing.T) {
	catalog := testCatalog()
	catalog.applyErr = errors.New("palette unreadable")
	m := newLoadedModel(t, catalog)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	updated, cmd := m.Update(cmd())
	m = updated.(Model)
	assert.Empty(t, m.Applied)

	updated, _ = m.Update(cmd())
	m = updated.(Model)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.statusMsg, "palette unreadable")
}

func TestModel_PreviewAndBack(t *testing.T) {
	catalog := testCatalog()
	m := newLoadedModel(t, catalog)

	_, cmd := m.Update(keyRunes("p"))
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	m = updated.(Model)

	assert.Equal(t, ModePreview, m.mode)
	assert.Equal(t, []string{"gruvbox"}, catalog.previewed)
	assert.Contains(t, m.View(), "swatches for gruvbox")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.Equal(t, ModeList, m.mode)
}

func TestModel_HelpToggle(t *testing.T) {
	m := newLoadedModel(t, testCatalog())

	updated, _ := m.Update(keyRunes("?"))
	m = updated.(Model)
	assert.Equal(t, ModeHelp, m.mode)

	updated, _ = m.Update(keyRunes("?"))
	m = updated.(Model)
	assert.Equal(t, ModeList, m.mode)
}

func TestModel_Quit(t *testing.T) {
	m := newLoadedModel(t, testCatalog())

	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_EmptyListIgnoresActions(t *testing.T) {
	catalog := &fakeCatalog{}
	m := newLoadedModel(t, catalog)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, catalog.applied)
}
