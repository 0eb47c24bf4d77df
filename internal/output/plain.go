package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/themey/internal/model"
)

var (
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Italic(true)
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// PlainFormatter formats output as human-readable lines.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"reltime": relativeTime,
		"join":    strings.Join,
	}
}

// relativeTime returns a humanized time for a unix timestamp.
func relativeTime(ts int64) string {
	if ts == 0 {
		return "never"
	}
	return humanize.Time(time.Unix(ts, 0))
}

func (f *PlainFormatter) style(s lipgloss.Style, text string) string {
	if !f.opts.Color {
		return text
	}
	return s.Render(text)
}

// FormatThemes writes one line per theme, marking the current one.
func (f *PlainFormatter) FormatThemes(w io.Writer, themes []ThemeEntry) error {
	for _, t := range themes {
		if f.template != nil {
			if err := f.template.Execute(w, t); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
			continue
		}

		var sb strings.Builder
		if t.Current {
			sb.WriteString(f.style(currentStyle, "*") + " ")
		} else {
			sb.WriteString("-> ")
		}
		sb.WriteString(f.style(nameStyle, t.Theme))

		switch {
		case t.Error != "":
			sb.WriteString(f.style(dimStyle, " (invalid: "+t.Error+")"))
		case t.Name != "":
			sb.WriteString(f.style(dimStyle, fmt.Sprintf(" %s by %s", t.Name, t.Author)))
		}
		if t.Current {
			sb.WriteString(f.style(dimStyle, fmt.Sprintf(" [applied %s]", relativeTime(t.AppliedAt))))
		}

		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// FormatHistory writes one line per record.
func (f *PlainFormatter) FormatHistory(w io.Writer, records []model.AppliedRecord) error {
	for _, r := range records {
		line := fmt.Sprintf("%s  %s (%s by %s)", relativeTime(r.AppliedAt), r.Theme, r.Name, r.Author)
		if r.Variant != "" {
			line += " variant=" + r.Variant
		}
		line += fmt.Sprintf(" written=%d", len(r.Written))
		if len(r.Skipped) > 0 {
			line += " skipped=" + strings.Join(r.Skipped, ",")
		}
		if len(r.Failed) > 0 {
			line += " failed=" + strings.Join(r.Failed, ",")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
