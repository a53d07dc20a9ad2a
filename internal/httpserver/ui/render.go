package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cyber924/taebaek/internal/content"
	"github.com/cyber924/taebaek/internal/format"
)

const (
	layoutFile   = "layout.tmpl"
	partialsFile = "partials.tmpl"
)

// Renderer executes the page and fragment templates. Every page is parsed into its
// own clone of the layout so each can define "content" independently.
type Renderer struct {
	source fs.FS
	reload bool
	set    *templateSet
}

type templateSet struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

// NewRenderer parses the templates in source. With reload set, templates are re-read
// on every render so edits show up without a restart.
func NewRenderer(source fs.FS, reload bool) (*Renderer, error) {
	set, err := parseTemplates(source)
	if err != nil {
		return nil, err
	}
	return &Renderer{source: source, reload: reload, set: set}, nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"date":      format.Date,
		"isoDate":   format.ISODate,
		"narrative": content.Narrative,
		"excerpt":   content.Excerpt,
		"count":     format.Count,
		"segment":   url.PathEscape,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"year": func() int { return time.Now().In(format.Seoul).Year() },
	}
}

func parseTemplates(source fs.FS) (*templateSet, error) {
	base, err := template.New("_root").Funcs(funcMap()).ParseFS(source, layoutFile, partialsFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	names, err := fs.Glob(source, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	set := &templateSet{pages: map[string]*template.Template{}, fragments: base}
	for _, name := range names {
		if name == layoutFile || name == partialsFile {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		page, err := clone.ParseFS(source, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		set.pages[strings.TrimSuffix(name, ".tmpl")] = page
	}
	if len(set.pages) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}
	return set, nil
}

func (r *Renderer) current() (*templateSet, error) {
	if !r.reload {
		return r.set, nil
	}
	return parseTemplates(r.source)
}

// Page renders the named page inside the base layout.
func (r *Renderer) Page(w http.ResponseWriter, status int, name string, data any) error {
	set, err := r.current()
	if err != nil {
		return err
	}
	t, ok := set.pages[name]
	if !ok {
		return fmt.Errorf("unknown page template %q", name)
	}
	return write(w, status, t, "base", data)
}

// Fragment renders a named partial without the layout.
func (r *Renderer) Fragment(w http.ResponseWriter, status int, name string, data any) error {
	set, err := r.current()
	if err != nil {
		return err
	}
	return write(w, status, set.fragments, name, data)
}

// Fragments renders several partials into one response, for htmx out-of-band swaps.
func (r *Renderer) Fragments(w http.ResponseWriter, status int, parts ...Part) error {
	set, err := r.current()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, part := range parts {
		if err := set.fragments.ExecuteTemplate(&buf, part.Name, part.Data); err != nil {
			return fmt.Errorf("execute %s: %w", part.Name, err)
		}
	}
	return flush(w, status, &buf)
}

// Part names a partial and its data.
type Part struct {
	Name string
	Data any
}

func write(w http.ResponseWriter, status int, t *template.Template, name string, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	return flush(w, status, &buf)
}

func flush(w http.ResponseWriter, status int, buf *bytes.Buffer) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	// the client may have gone away; nothing useful can be sent after the header
	_, _ = buf.WriteTo(w)
	return nil
}
