// Package templates renders the HTML fragments patched into the page by the
// Datastar editor handlers.
package templates

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"os"
	"sync"

	"github.com/joeblew999/plat-murals/internal/geo"
)

//go:embed fragments/*.html
var embedded embed.FS

// funcMap provides common template functions.
var funcMap = template.FuncMap{
	// dict builds a map from key/value pairs for nested templates
	"dict": func(values ...any) map[string]any {
		if len(values)%2 != 0 {
			return nil
		}
		m := make(map[string]any, len(values)/2)
		for i := 0; i < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok {
				continue
			}
			m[key] = values[i+1]
		}
		return m
	},
	"distance": geo.FormatDistance,
	"add":      func(a, b int) int { return a + b },
}

// Renderer manages HTML fragment templates.
type Renderer struct {
	templates *template.Template
	mu        sync.RWMutex
}

// New parses the embedded fragments.
func New() (*Renderer, error) {
	sub, err := fs.Sub(embedded, "fragments")
	if err != nil {
		return nil, err
	}
	return parse(sub)
}

// NewFromDir parses fragments from a directory on disk, which lets a
// deployment override the built-in markup.
func NewFromDir(dir string) (*Renderer, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	return parse(os.DirFS(dir))
}

func parse(fsys fs.FS) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(fsys, "*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: tmpl}, nil
}

// Render renders a named template to a string.
func (r *Renderer) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToBuffer(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToBuffer renders a named template to a buffer.
func (r *Renderer) RenderToBuffer(buf *bytes.Buffer, name string, data any) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.templates.ExecuteTemplate(buf, name, data)
}

// Reload swaps in fragments from dir.
func (r *Renderer) Reload(dir string) error {
	next, err := NewFromDir(dir)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.templates = next.templates
	r.mu.Unlock()
	return nil
}
