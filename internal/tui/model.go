// Package tui provides the BubbleTea-based theme selector.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/themey/internal/apply"
	"github.com/jmylchreest/themey/internal/output"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModePreview
	ModeHelp
)

// Catalog supplies the selector with themes and the actions run on them.
type Catalog interface {
	Themes() ([]output.ThemeEntry, error)
	Preview(theme string) (string, error)
	Apply(ctx context.Context, theme string) (*apply.Summary, error)
}

// Model is the selector model.
type Model struct {
	ctx     context.Context
	catalog Catalog

	mode Mode

	list     list.Model
	viewport viewport.Model
	help     help.Model
	keys     KeyMap

	width  int
	height int

	statusMsg string
	statusErr bool

	// Applied is the last theme applied from the selector.
	Applied string
}

type themeItem struct {
	entry output.ThemeEntry
}

func (i themeItem) Title() string {
	if i.entry.Current {
		return i.entry.Theme + " *"
	}
	return i.entry.Theme
}

func (i themeItem) Description() string {
	if i.entry.Error != "" {
		return "invalid: " + i.entry.Error
	}
	return fmt.Sprintf("%s by %s - %d targets", i.entry.Name, i.entry.Author, len(i.entry.Targets))
}

func (i themeItem) FilterValue() string {
	return i.entry.Theme + " " + i.entry.Name + " " + i.entry.Author
}

// New creates a selector model.
func New(ctx context.Context, catalog Catalog) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Themes"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	return Model{
		ctx:     ctx,
		catalog: catalog,
		mode:    ModeList,
		list:    l,
		help:    help.New(),
		keys:    DefaultKeyMap(),
	}
}

type themesMsg struct {
	themes []output.ThemeEntry
	err    error
}

type previewMsg struct {
	theme   string
	content string
	err     error
}

type appliedMsg struct {
	theme   string
	summary *apply.Summary
	err     error
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

// Init loads the theme list.
func (m Model) Init() tea.Cmd {
	return m.loadThemes
}

func (m Model) loadThemes() tea.Msg {
	themes, err := m.catalog.Themes()
	return themesMsg{themes: themes, err: err}
}

func (m Model) previewCmd(theme string) tea.Cmd {
	return func() tea.Msg {
		content, err := m.catalog.Preview(theme)
		return previewMsg{theme: theme, content: content, err: err}
	}
}

func (m Model) applyCmd(theme string) tea.Cmd {
	return func() tea.Msg {
		summary, err := m.catalog.Apply(m.ctx, theme)
		return appliedMsg{theme: theme, summary: summary, err: err}
	}
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		return m, nil

	case themesMsg:
		if msg.err != nil {
			return m, status("Failed to list themes: "+msg.err.Error(), true)
		}
		items := make([]list.Item, len(msg.themes))
		for i, t := range msg.themes {
			items[i] = themeItem{entry: t}
		}
		return m, m.list.SetItems(items)

	case previewMsg:
		if msg.err != nil {
			return m, status("Preview failed: "+msg.err.Error(), true)
		}
		m.mode = ModePreview
		m.viewport.SetContent(msg.content)
		m.viewport.GotoTop()
		return m, nil

	case appliedMsg:
		if msg.err != nil {
			return m, status("Apply failed: "+msg.err.Error(), true)
		}
		m.Applied = msg.theme
		text := fmt.Sprintf("Applied %s: %d written, %d skipped", msg.theme,
			msg.summary.WrittenCount(), msg.summary.SkippedCount())
		if n := len(msg.summary.Warnings); n > 0 {
			text += fmt.Sprintf(", %d warnings", n)
		}
		return m, tea.Batch(status(text, false), m.loadThemes)

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}

	var cmd tea.Cmd
	switch m.mode {
	case ModeList:
		m.list, cmd = m.list.Update(msg)
	case ModePreview:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Let the list consume keys while the filter prompt is open.
	if m.mode == ModeList && m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeList
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	}

	switch m.mode {
	case ModeList:
		return m.handleListKey(msg)
	case ModePreview:
		switch {
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Preview):
			m.mode = ModeList
			return m, nil
		case key.Matches(msg, m.keys.Apply):
			m.mode = ModeList
			return m.handleListKey(msg)
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(themeItem)

	switch {
	case key.Matches(msg, m.keys.Apply):
		if !ok {
			return m, nil
		}
		return m, m.applyCmd(item.entry.Theme)

	case key.Matches(msg, m.keys.Preview):
		if !ok {
			return m, nil
		}
		return m, m.previewCmd(item.entry.Theme)

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(m.loadThemes, status("Refreshed", false))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the current mode.
func (m Model) View() string {
	switch m.mode {
	case ModePreview:
		header := lipgloss.NewStyle().Bold(true).Render("Preview")
		return header + "\n" + m.viewport.View() + "\n" + m.statusLine()
	case ModeHelp:
		return m.help.FullHelpView(m.keys.FullHelp())
	default:
		return m.list.View() + "\n" + m.statusLine()
	}
}

func (m Model) statusLine() string {
	if m.statusMsg == "" {
		return m.help.ShortHelpView(m.keys.ShortHelp())
	}
	color := lipgloss.Color("10")
	if m.statusErr {
		color = lipgloss.Color("9")
	}
	return lipgloss.NewStyle().Foreground(color).Render(m.statusMsg)
}

// ApplierCatalog adapts an Applier to the Catalog interface.
type ApplierCatalog struct {
	Applier *apply.Applier
	HomeDir string
	// Entries lists installed themes; the CLI shares this with `themey list`.
	Entries func() ([]output.ThemeEntry, error)
}

// Themes implements Catalog.
func (c *ApplierCatalog) Themes() ([]output.ThemeEntry, error) {
	return c.Entries()
}

// Preview implements Catalog.
func (c *ApplierCatalog) Preview(theme string) (string, error) {
	var buf bytes.Buffer
	if err := c.Applier.Preview(&buf, theme, c.HomeDir); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// Apply implements Catalog.
func (c *ApplierCatalog) Apply(ctx context.Context, theme string) (*apply.Summary, error) {
	return c.Applier.Apply(ctx, theme, c.HomeDir)
}

// Run starts the selector and returns the last theme applied, if any.
func Run(ctx context.Context, catalog Catalog) (string, error) {
	p := tea.NewProgram(New(ctx, catalog), tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(Model); ok {
		return m.Applied, nil
	}
	return "", nil
}
