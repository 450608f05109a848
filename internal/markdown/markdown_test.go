package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func convert(t *testing.T, r *Renderer, src string) string {
	t.Helper()
	out, err := r.Convert([]byte(src))
	require.NoError(t, err)
	return out
}

func TestRenderer_ExtensionOrder(t *testing.T) {
	r := New()
	require.Equal(t, []string{
		"tables", "abbr", "strikethrough", "caret", "linkify", "tasklist", "footnote",
		"deflist", "smartsymbols", "typographer", "admonition", "external_links",
	}, r.Extensions())
}

func TestRenderer_ExtensionChain(t *testing.T) {
	r := New()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"table", "| a | b |\n|---|---|\n| 1 | 2 |\n", []string{"<table>", "<td>1</td>"}},
		{"strikethrough", "~~gone~~\n", []string{"<del>gone</del>"}},
		{"tasklist", "- [x] done\n", []string{`type="checkbox"`, "checked"}},
		{"footnote", "Text[^1]\n\n[^1]: Note\n", []string{`id="fn:1"`, "footnote-ref"}},
		{"deflist", "Term\n: Definition\n", []string{"<dl>", "<dt>Term</dt>", "<dd>Definition</dd>"}},
		{"typographer", "\"quoted\"\n", []string{"&ldquo;quoted&rdquo;"}},
		{"fenced code", "```go\nx := 1\n```\n", []string{`<pre><code class="language-go">`}},
		{"heading attributes", "## Title {#custom .wide}\n", []string{`id="custom"`, `class="wide"`}},
		{"auto heading id", "## Getting Started\n", []string{`<h2 id="getting-started">Getting Started</h2>`}},
		{"raw html", "<span class=\"x\">hi</span>\n", []string{`<span class="x">hi</span>`}},
		{"literal fallback", "<<< weird >>> {\n", []string{"weird"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := convert(t, r, tt.input)
			for _, w := range tt.want {
				require.Contains(t, out, w)
			}
		})
	}
}

func TestRenderer_Abbreviations(t *testing.T) {
	r := New()

	out := convert(t, r, "The HTML spec and W3C rules.\n\n*[HTML]: Hyper Text Markup Language\n*[W3C]: World Wide Web Consortium\n")
	require.Contains(t, out, `<abbr title="Hyper Text Markup Language">HTML</abbr>`)
	require.Contains(t, out, `<abbr title="World Wide Web Consortium">W3C</abbr> rules.`)
	require.NotContains(t, out, "*[HTML]")
	require.Equal(t, 1, strings.Count(out, "<p>"))

	out = convert(t, r, "HTMLX and `HTML` stay.\n*[HTML]: Hyper Text Markup Language\n")
	require.NotContains(t, out, "<abbr")
	require.Contains(t, out, "<code>HTML</code>")
	require.NotContains(t, out, "Hyper Text")

	// definitions do not leak into the next document
	out = convert(t, r, "plain HTML\n")
	require.Equal(t, "<p>plain HTML</p>\n", out)
}

func TestRenderer_Caret(t *testing.T) {
	r := New()

	out := convert(t, r, "H^2^O and ^^inserted^^\n")
	require.Contains(t, out, "H<sup>2</sup>O")
	require.Contains(t, out, "<ins>inserted</ins>")

	out = convert(t, r, "Footnote[^1]\n\n[^1]: Note\n")
	require.NotContains(t, out, "<sup>1</sup>")
	require.Contains(t, out, "footnote-ref")
}

func TestRenderer_SmartSymbols(t *testing.T) {
	r := New()

	tests := []struct {
		input string
		want  string
	}{
		{"(c) (tm) (r)\n", "&copy; &trade; &reg;"},
		{"+/- and =/=\n", "&plusmn; and &ne;"},
		{"a --> b <-- c <--> d\n", "a &rarr; b &larr; c &harr; d"},
		{"1/2 and 3/4 cup\n", "&frac12; and &frac34; cup"},
		{"c/o me\n", "&#8453; me"},
		{"1st 2nd 3rd 4th 11th 22nd\n", "1<sup>st</sup> 2<sup>nd</sup> 3<sup>rd</sup> 4<sup>th</sup> 11<sup>th</sup> 22<sup>nd</sup>"},
		{"11/23 and 1/2x and abc/o\n", "11/23 and 1/2x and abc/o"},
		{"11st 2th\n", "11st 2th"},
		{"a -- b\n", "a &ndash; b"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, "<p>"+tt.want+"</p>\n", convert(t, r, tt.input))
		})
	}

	require.Contains(t, convert(t, r, "`(c) -->`\n"), "<code>(c) --&gt;</code>")
}

func TestRenderer_ExternalLinks(t *testing.T) {
	r := New()

	out := convert(t, r, "[site](https://example.com) and [about](/about/)\n")
	require.Contains(t, out, `href="https://example.com"`)
	require.Contains(t, out, `target="_blank"`)
	require.Contains(t, out, `rel="noopener"`)
	require.Contains(t, out, `referrerpolicy="origin"`)
	require.Contains(t, out, `<a href="/about/">about</a>`)

	out = convert(t, r, "see https://example.org/page now\n")
	require.Contains(t, out, `href="https://example.org/page"`)
	require.Contains(t, out, `target="_blank"`)
	require.Contains(t, out, ">https://example.org/page</a>")
}

func TestRenderer_Admonition(t *testing.T) {
	r := New()

	out := convert(t, r, "!!! warning \"Heads up\"\n    Body *text*\n\n    Second\n\nAfter\n")
	require.Contains(t, out, `<div class="admonition warning">`)
	require.Contains(t, out, `<p class="admonition-title">Heads up</p>`)
	require.Contains(t, out, "<p>Body <em>text</em></p>")
	require.Contains(t, out, "<p>Second</p>\n</div>")
	require.Contains(t, out, "</div>\n<p>After</p>")

	out = convert(t, r, "!!! note\n    Body\n")
	require.Contains(t, out, `<p class="admonition-title">Note</p>`)

	out = convert(t, r, "!!! tip \"\"\n    Body\n")
	require.NotContains(t, out, "admonition-title")
}

func TestRenderer_UnsafeDisabled(t *testing.T) {
	r := New(WithUnsafe(false))
	out := convert(t, r, "<span>hi</span>\n")
	require.NotContains(t, out, "<span>")
}

func TestRenderer_HardWraps(t *testing.T) {
	r := New(WithHardWraps(true))
	out := convert(t, r, "line one\nline two\n")
	require.Contains(t, out, "<br>")
}

func TestRenderer_TOC(t *testing.T) {
	r := New()
	convert(t, r, "# One\n\ntext\n\n## Two *em*\n")

	toc := r.TOC()
	require.Len(t, toc, 2)
	require.Equal(t, Heading{Level: 1, ID: "one", Text: "One"}, toc[0])
	require.Equal(t, 2, toc[1].Level)
	require.Equal(t, "Two em", toc[1].Text)
	require.NotEmpty(t, toc[1].ID)

	r.Reset()
	require.Empty(t, r.TOC())
}

func TestRenderer_ResetIsolatesDocuments(t *testing.T) {
	docA := "# Intro\n\nA[^1]\n\n[^1]: first\n\n## Intro\n"
	docB := "# Intro\n\nB[^1]\n\n[^1]: second\n"

	shared := New()
	convert(t, shared, docA)
	afterA := convert(t, shared, docB)

	alone := convert(t, New(), docB)

	require.Equal(t, alone, afterA)
	require.Contains(t, afterA, `<h1 id="intro">`)
	require.Len(t, shared.TOC(), 1)
}
