package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// partials are parsed into every page; everything else under templates/ is a page.
var partials = []string{
	"templates/layout.html",
	"templates/messages.html",
	"templates/pagination.html",
	"templates/editor.html",
}

// Views renders embedded html/template pages inside the shared layout.
// It satisfies fiber.Views.
type Views struct {
	pages map[string]*template.Template
}

// NewViews returns an unloaded view set; Fiber calls Load on startup.
func NewViews() *Views {
	return &Views{}
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("02.01.2006, 15:04")
	},
	"truncate": truncate,
	"add":      func(a, b int) int { return a + b },
	"sub":      func(a, b int) int { return a - b },
	"seq": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
	"hasCategory": func(ids map[uint]bool, id uint) bool { return ids[id] },
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// Load parses every page template together with the partials.
func (v *Views) Load() error {
	entries, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return err
	}

	pages := make(map[string]*template.Template, len(entries))
	for _, entry := range entries {
		if slices.Contains(partials, entry) {
			continue
		}
		name := strings.TrimSuffix(path.Base(entry), ".html")
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, append(slices.Clone(partials), entry)...)
		if err != nil {
			return fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	v.pages = pages
	return nil
}

// Render executes the layout with the named page. The page is rendered into a
// buffer first so a template error never leaves a half-written response.
func (v *Views) Render(w io.Writer, name string, binding interface{}, _ ...string) error {
	tmpl, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", binding); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
