package postprocess

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/highlight"
)

func TestTableClass(t *testing.T) {
	require.Contains(t, TableClass("<table><tr></tr></table>"), `<table class="table">`)
	require.Equal(t, "<p>no tables</p>", TableClass("<p>no tables</p>"))
	require.Equal(t, `<table class="table"></table><table class="table"></table>`, TableClass("<table></table><table></table>"))
}

func TestChain_AppliesInOrder(t *testing.T) {
	f := Chain(
		func(s string) string { return s + "a" },
		func(s string) string { return s + "b" },
	)
	require.Equal(t, "xab", f("x"))
	require.Equal(t, "x", Chain()("x"))
}

type upperHighlighter struct{ highlight.Noop }

func (upperHighlighter) Highlight(s string) string { return strings.ToUpper(s) }

func TestNew_HighlightsThenTagsTables(t *testing.T) {
	f := New(upperHighlighter{})
	// The highlighter upper-cases "<table>", so TableClass must see its output.
	require.Equal(t, "<TABLE><P>X</P></TABLE>", f("<table><p>x</p></table>"))

	require.Equal(t, `<table class="table"></table>`, New(nil)("<table></table>"))
}

func TestNew_WithChroma(t *testing.T) {
	f := New(highlight.NewChroma("monokai"))
	out := f("<table><tr><td><pre><code class=\"language-go\">x := 1</code></pre></td></tr></table>")
	require.Contains(t, out, `<table class="table">`)
	require.Contains(t, out, `class="chroma"`)
}
