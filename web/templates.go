// ABOUTME: TemplateEngine loads embedded HTML templates and renders them with Go's html/template.
// ABOUTME: Each page is parsed together with layout.html so the layout wraps every page.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/2389-research/tauplane/plane"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to templates for rendering.
type PageData struct {
	Title   string
	Config  ConfigView
	Presets []plane.Preset
	Planes  []plane.PlaneMode
	Views   []plane.ViewKind
}

// TemplateEngine loads and renders embedded HTML templates.
type TemplateEngine struct {
	templates map[string]*template.Template
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"lower": strings.ToLower,
		"selected": func(cur, opt string) template.HTMLAttr {
			if cur == opt {
				return "selected"
			}
			return ""
		},
		"planeLabel": planeLabel,
		"viewLabel":  viewLabel,
	}
}

// NewTemplateEngine parses all embedded templates and returns a ready-to-use engine.
func NewTemplateEngine() (*TemplateEngine, error) {
	funcs := templateFuncs()
	engine := &TemplateEngine{templates: make(map[string]*template.Template)}

	for _, page := range []string{"index.html"} {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		engine.templates[page] = t
	}
	return engine, nil
}

// Render executes the named template and writes text/html to w.
func (e *TemplateEngine) Render(w http.ResponseWriter, name string, data any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.RenderTo(w, name, data)
}

// RenderTo executes the named template into an arbitrary writer.
func (e *TemplateEngine) RenderTo(w io.Writer, name string, data any) error {
	t, ok := e.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}

func planeLabel(m plane.PlaneMode) string {
	switch m {
	case plane.PlaneW:
		return "w-plane (log)"
	case plane.PlaneZ:
		return "z-plane (compactified)"
	default:
		return "τ-plane"
	}
}

func viewLabel(v plane.ViewKind) string {
	switch v {
	case plane.ViewImag:
		return "Imaginary part"
	case plane.ViewMagnitude:
		return "Magnitude"
	case plane.ViewPhase:
		return "Phase"
	default:
		return "Real part"
	}
}
