package render

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/jmylchreest/themey/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.tmpl"),
)

// templateData is passed to every template.
type templateData struct {
	*model.Palette
	Names []string
}

// Color looks up a color by group ("normal" or "bright") and ANSI name.
func (d templateData) Color(group, name string) string {
	set := d.Normal
	if group == "bright" {
		set = d.Bright
	}
	v, _ := set.Get(name)
	return v
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"bare": model.Bare,
		"rgb": func(hex string) string {
			return "rgb(" + model.Bare(hex) + ")"
		},
		"rgba": func(hex, alpha string) string {
			return "rgba(" + model.Bare(hex) + alpha + ")"
		},
	}
}

// executeTemplate renders the named embedded template with p.
func executeTemplate(name string, p *model.Palette) ([]byte, error) {
	var buf bytes.Buffer
	data := templateData{Palette: p, Names: model.ColorNames}
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func templateRenderer(name string) func(*model.Palette) ([]byte, error) {
	return func(p *model.Palette) ([]byte, error) {
		return executeTemplate(name, p)
	}
}
