package apply

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/themey/internal/model"
)

// Swatch dimensions in terminal cells.
const (
	SwatchWidth  = 8
	SwatchHeight = 3
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	authorStyle = lipgloss.NewStyle().Italic(true).Faint(true)
)

// Preview writes the theme's name and its normal and bright swatch rows to w.
func (a *Applier) Preview(w io.Writer, themeName, homeDir string) error {
	theme, err := a.Load(themeName, homeDir)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\n  %s by %s\n\n",
		titleStyle.Render(theme.Metadata.Name),
		authorStyle.Render(theme.Metadata.Author))

	if err := WriteSwatches(bw, theme.Palette); err != nil {
		return err
	}
	fmt.Fprintln(bw)

	return bw.Flush()
}

// WriteSwatches writes two 8-column blocks of direct-color backgrounds:
// the normal colors, then the bright colors. Invalid hex digits render as 0
// in that channel.
func WriteSwatches(w io.Writer, p *model.Palette) error {
	for _, row := range [][]string{p.Normal.Slice(), p.Bright.Slice()} {
		line := swatchLine(row)
		for i := 0; i < SwatchHeight; i++ {
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func swatchLine(colors []string) string {
	var sb strings.Builder
	pad := strings.Repeat(" ", SwatchWidth)
	for _, c := range colors {
		r, g, b := model.HexToRGB(c)
		fmt.Fprintf(&sb, "\x1b[48;2;%d;%d;%dm%s", r, g, b, pad)
	}
	sb.WriteString("\x1b[0m\n")
	return sb.String()
}
