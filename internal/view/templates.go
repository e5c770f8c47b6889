package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/userhub/userhub/web"
)

// Engine renders HTML templates.
type Engine struct {
	pages map[string]*template.Template
	theme Theme
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CurrentPath string
	ViewerID    string
	Data        any
}

// NewEngine parses templates at build-time. Every page gets its own clone of
// the layouts and partials so pages can redefine the content block.
func NewEngine(theme Theme) (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Mon Jan 02 2006")
		},
		"themeCSS": theme.CSS,
		"linkColor": func(current, target string) template.CSS {
			if current == target {
				return template.CSS(theme.ActiveLink())
			}
			return template.CSS(theme.InactiveLink())
		},
		"initial": func(name string) string {
			for _, r := range name {
				return strings.ToUpper(string(r))
			}
			return "?"
		},
	}
	base, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: parse layouts: %w", err)
	}
	files, err := fs.Glob(web.Templates, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: list pages: %w", err)
	}
	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		tpl, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("view: clone layouts: %w", err)
		}
		if _, err := tpl.ParseFS(web.Templates, file); err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = tpl
	}
	return &Engine{pages: pages, theme: theme}, nil
}

// Theme returns the palette the engine renders with.
func (e *Engine) Theme() Theme {
	return e.theme
}

// Has reports whether a page template exists.
func (e *Engine) Has(name string) bool {
	if e == nil {
		return false
	}
	_, ok := e.pages[name]
	return ok
}

// Execute writes the named page into out.
func (e *Engine) Execute(out io.Writer, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	tpl, ok := e.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return tpl.ExecuteTemplate(out, "base", data)
}

// Render executes a named page and writes it with status. Nothing is written
// when execution fails, so callers may still send their own error response.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data TemplateData) error {
	var buf bytes.Buffer
	if err := e.Execute(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}
