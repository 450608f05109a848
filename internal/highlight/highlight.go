// Package highlight colours fenced code blocks in rendered HTML and produces
// the matching stylesheet.
package highlight

import (
	"bytes"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/net/html"
)

// DefaultStyle is used when no style is configured.
const DefaultStyle = "monokai"

const languagePrefix = "language-"

// Highlighter transforms rendered HTML and supplies the CSS its output needs.
// Highlight never fails: input it cannot handle is returned unchanged.
type Highlighter interface {
	Highlight(html string) string
	Stylesheet() (string, error)
}

// Chroma highlights <pre><code class="language-X"> blocks with CSS classes.
type Chroma struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChroma returns a Chroma highlighter for the named style. Unknown styles
// fall back to chroma's default.
func NewChroma(style string) *Chroma {
	if style == "" {
		style = DefaultStyle
	}
	return &Chroma{
		style:     styles.Get(style),
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}
}

// StyleExists reports whether chroma knows the named style.
func StyleExists(name string) bool {
	_, ok := styles.Registry[strings.ToLower(name)]
	return ok
}

// Stylesheet returns the CSS for the configured style.
func (c *Chroma) Stylesheet() (string, error) {
	var buf bytes.Buffer
	if err := c.formatter.WriteCSS(&buf, c.style); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type scanState int

const (
	stateText scanState = iota
	statePre
	stateCode
	stateAfterCode
)

// Highlight streams the HTML through a tokenizer, copying every token
// verbatim except recognized code blocks, which are replaced by chroma output.
func (c *Chroma) Highlight(in string) string {
	if !strings.Contains(in, languagePrefix) {
		return in
	}

	var (
		out   strings.Builder
		held  strings.Builder
		code  strings.Builder
		lang  string
		state = stateText
		bail  bool
	)
	flush := func() {
		out.WriteString(held.String())
		held.Reset()
		code.Reset()
		lang, bail, state = "", false, stateText
	}

	z := html.NewTokenizer(strings.NewReader(in))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				return in
			}
			break
		}
		raw := string(z.Raw())
		tok := z.Token()

		switch state {
		case stateText:
			if tt == html.StartTagToken && tok.Data == "pre" {
				held.WriteString(raw)
				state = statePre
				continue
			}
			out.WriteString(raw)
		case statePre:
			if tt == html.StartTagToken && tok.Data == "code" {
				if l, ok := codeLanguage(tok); ok {
					held.WriteString(raw)
					lang = l
					state = stateCode
					continue
				}
			}
			held.WriteString(raw)
			flush()
		case stateCode:
			held.WriteString(raw)
			switch {
			case tt == html.TextToken:
				code.WriteString(tok.Data)
			case tt == html.EndTagToken && tok.Data == "code":
				state = stateAfterCode
			default:
				bail = true
			}
		case stateAfterCode:
			held.WriteString(raw)
			if tt == html.EndTagToken && tok.Data == "pre" && !bail {
				if highlighted, ok := c.render(lang, code.String()); ok {
					held.Reset()
					held.WriteString(highlighted)
				}
			}
			flush()
		}
	}
	flush()
	return out.String()
}

func (c *Chroma) render(lang, source string) (string, bool) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, source)
	if err != nil {
		return "", false
	}
	var buf bytes.Buffer
	if err := c.formatter.Format(&buf, c.style, it); err != nil {
		return "", false
	}
	return buf.String(), true
}

func codeLanguage(tok html.Token) (string, bool) {
	for _, a := range tok.Attr {
		if a.Key != "class" {
			continue
		}
		for _, class := range strings.Fields(a.Val) {
			if lang, ok := strings.CutPrefix(class, languagePrefix); ok && lang != "" {
				return lang, true
			}
		}
	}
	return "", false
}

// Noop leaves HTML untouched and produces an empty stylesheet.
type Noop struct{}

func (Noop) Highlight(html string) string { return html }

func (Noop) Stylesheet() (string, error) { return "", nil }
