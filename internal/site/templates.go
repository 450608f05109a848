package site

import (
	"bytes"
	"encoding/xml"
	"fmt"
	htmltemplate "html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	texttemplate "text/template"
	"time"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// TemplateEngine renders a named template with a data context.
type TemplateEngine interface {
	Render(name string, data any) ([]byte, error)
}

// Templates is the default TemplateEngine. *.html files are parsed with
// html/template and *.xml / *.txt files with text/template; each group shares
// one namespace so templates can include each other.
type Templates struct {
	html  *htmltemplate.Template
	text  *texttemplate.Template
	names map[string]bool
}

// Funcs is the function map available to every template.
func Funcs() map[string]any {
	return map[string]any{
		"rfc1123":  func(t time.Time) string { return t.Format(time.RFC1123Z) },
		"isodate":  func(t time.Time) string { return t.Format("2006-01-02") },
		"date":     func(layout string, t time.Time) string { return t.Format(layout) },
		"xml":      xmlEscape,
		"safeHTML": func(s any) htmltemplate.HTML { return htmltemplate.HTML(toString(s)) },
		"absURL":   absURL,
	}
}

// LoadTemplates parses every template file directly under dir.
func LoadTemplates(dir string) (*Templates, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ferrors.FileSystemError(err, "failed to read templates directory", dir).Build()
	}

	t := &Templates{
		html:  htmltemplate.New("").Funcs(Funcs()),
		text:  texttemplate.New("").Funcs(Funcs()),
		names: map[string]bool{},
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		path := filepath.Join(dir, name)
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".html" && ext != ".xml" && ext != ".txt" {
			continue
		}
		// #nosec G304 -- path is enumerated from the configured templates directory.
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, ferrors.FileSystemError(err, "failed to read template", path).Build()
		}
		if err := t.add(name, ext, string(src)); err != nil {
			return nil, ferrors.TemplateError(err, "failed to parse template", name).
				WithContext("path", path).
				Build()
		}
	}
	return t, nil
}

// ParseTemplates builds Templates from in-memory sources keyed by file name.
func ParseTemplates(sources map[string]string) (*Templates, error) {
	t := &Templates{
		html:  htmltemplate.New("").Funcs(Funcs()),
		text:  texttemplate.New("").Funcs(Funcs()),
		names: map[string]bool{},
	}
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := t.add(name, strings.ToLower(filepath.Ext(name)), sources[name]); err != nil {
			return nil, ferrors.TemplateError(err, "failed to parse template", name).Build()
		}
	}
	return t, nil
}

func (t *Templates) add(name, ext, src string) error {
	var err error
	if ext == ".html" {
		_, err = t.html.New(name).Parse(src)
	} else {
		_, err = t.text.New(name).Parse(src)
	}
	if err == nil {
		t.names[name] = true
	}
	return err
}

// Has reports whether a template with that name was loaded.
func (t *Templates) Has(name string) bool { return t.names[name] }

// Render executes the named template.
func (t *Templates) Render(name string, data any) ([]byte, error) {
	if !t.names[name] {
		return nil, ferrors.NewError(ferrors.CategoryTemplate, "template not found").
			WithContext("template", name).
			Build()
	}
	var buf bytes.Buffer
	var err error
	if strings.EqualFold(filepath.Ext(name), ".html") {
		err = t.html.ExecuteTemplate(&buf, name, data)
	} else {
		err = t.text.ExecuteTemplate(&buf, name, data)
	}
	if err != nil {
		return nil, ferrors.TemplateError(err, "failed to render template", name).Build()
	}
	return buf.Bytes(), nil
}

func xmlEscape(v any) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(toString(v)))
	return buf.String()
}

func absURL(root string, path any) string {
	p := toString(path)
	if strings.Contains(p, "://") {
		return p
	}
	return "https://" + strings.TrimSuffix(root, "/") + "/" + strings.TrimPrefix(p, "/")
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case htmltemplate.HTML:
		return string(s)
	case []byte:
		return string(s)
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}
