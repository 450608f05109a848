// Package markdown converts document bodies to HTML through a fixed, ordered
// goldmark extension chain.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

type options struct {
	unsafe    bool
	hardWraps bool
}

// Option configures a Renderer.
type Option func(*options)

// WithUnsafe controls whether raw HTML in the body is passed through.
func WithUnsafe(unsafe bool) Option {
	return func(o *options) { o.unsafe = unsafe }
}

// WithHardWraps renders soft line breaks as <br>.
func WithHardWraps(hardWraps bool) Option {
	return func(o *options) { o.hardWraps = hardWraps }
}

type namedExtension struct {
	name string
	ext  goldmark.Extender
}

// chain is the extension registration order.
func chain() []namedExtension {
	return []namedExtension{
		{"tables", extension.Table},
		{"abbr", Abbr},
		{"strikethrough", extension.Strikethrough},
		{"caret", Caret},
		{"linkify", extension.Linkify},
		{"tasklist", extension.TaskList},
		{"footnote", extension.Footnote},
		{"deflist", extension.DefinitionList},
		{"smartsymbols", SmartSymbols},
		{"typographer", extension.Typographer},
		{"admonition", Admonitions},
		{"external_links", ExternalLinks},
	}
}

// Renderer converts Markdown to HTML. It is built once per pipeline and reused
// for every document; it is not safe for concurrent use.
type Renderer struct {
	md    goldmark.Markdown
	names []string
	toc   []Heading
}

// New builds a Renderer with the full extension chain.
func New(opts ...Option) *Renderer {
	o := options{unsafe: true}
	for _, opt := range opts {
		opt(&o)
	}

	exts := chain()
	extenders := make([]goldmark.Extender, 0, len(exts))
	names := make([]string, 0, len(exts))
	for _, e := range exts {
		extenders = append(extenders, e.ext)
		names = append(names, e.name)
	}

	var rendererOpts []goldmark.Option
	htmlOpts := []renderer.Option{}
	if o.unsafe {
		htmlOpts = append(htmlOpts, html.WithUnsafe())
	}
	if o.hardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}
	rendererOpts = append(rendererOpts,
		goldmark.WithExtensions(extenders...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(htmlOpts...),
	)

	return &Renderer{md: goldmark.New(rendererOpts...), names: names}
}

// Extensions lists the registered extensions in registration order.
func (r *Renderer) Extensions() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Reset drops state collected by the previous conversion.
func (r *Renderer) Reset() {
	r.toc = nil
}

// Convert resets the renderer and converts body. Heading IDs and footnote
// numbering start over for every call.
func (r *Renderer) Convert(body []byte) (string, error) {
	r.Reset()

	pc := parser.NewContext()
	doc := r.md.Parser().Parse(text.NewReader(body), parser.WithContext(pc))
	r.toc = collectHeadings(doc, body)

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, body, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TOC returns the headings of the last conversion.
func (r *Renderer) TOC() []Heading {
	out := make([]Heading, len(r.toc))
	copy(out, r.toc)
	return out
}
